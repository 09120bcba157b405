package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/logon-notifier/internal/config"
)

var initForce bool

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example configuration file",
		Long: `Write a commented example config.toml.

The file goes to the path given with --config, or to the default config
directory. An existing file is left alone unless --force is given.`,
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		dir, err := config.EnsureConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.WriteExampleConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote example config to %s\n", path)
	return nil
}
