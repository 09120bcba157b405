package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name used for config directories.
	AppName = "logon-notifier"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.toml"
	// ServiceName is the name registered with the service control manager.
	ServiceName = "LogonNotifier"
	// ServiceDisplayName is shown in the services console.
	ServiceDisplayName = "Logon Notifier"
	// ServiceDescription is the description registered with the service.
	ServiceDescription = "Records user logon and logoff events to a session log."
	// SessionLogFileName is the default session log file name.
	SessionLogFileName = "LogonNotifier.log"
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "LOGON_NOTIFIER"
)

// DefaultConfigDir returns the default configuration directory for the current OS.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		// %APPDATA%\logon-notifier
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, AppName), nil

	case "darwin":
		// ~/Library/Application Support/logon-notifier
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil

	default:
		// Linux and other Unix-like systems
		// $XDG_CONFIG_HOME/logon-notifier or ~/.config/logon-notifier
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
}

// DefaultConfigPath returns the full path to the default config file.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// DefaultLogDir returns the default log directory for the current OS.
func DefaultLogDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		// %LOCALAPPDATA%\logon-notifier\logs
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, AppName, "logs"), nil

	case "darwin":
		// ~/Library/Logs/logon-notifier
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs", AppName), nil

	default:
		// Linux: $XDG_STATE_HOME/logon-notifier or ~/.local/state/logon-notifier
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			return filepath.Join(xdgState, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state", AppName), nil
	}
}

// DefaultLogPath returns the default operational log file path.
func DefaultLogPath() (string, error) {
	dir, err := DefaultLogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

// DefaultSessionLogPath returns the default session log path. On Windows this is
// %LOCALAPPDATA%\LogonNotifier.log of the account the service runs as.
func DefaultSessionLogPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, SessionLogFileName), nil

	default:
		dir, err := DefaultLogDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, SessionLogFileName), nil
	}
}
