package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharkusmanch/logon-notifier/internal/app"
	"github.com/sharkusmanch/logon-notifier/internal/config"
	"github.com/sharkusmanch/logon-notifier/internal/domain"
	"github.com/sharkusmanch/logon-notifier/internal/notify"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"-install"}, []string{"install"}},
		{[]string{"-INSTALL", "--account", "LocalSystem"}, []string{"install", "--account", "LocalSystem"}},
		{[]string{"/uninstall"}, []string{"uninstall"}},
		{[]string{"-uninstall"}, []string{"uninstall"}},
		{[]string{"serve", "-install"}, []string{"serve", "-install"}},
		{[]string{"--config", "x.toml", "serve"}, []string{"--config", "x.toml", "serve"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.in, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeArgs(tt.in))
		})
	}
}

func TestMinNotificationLevel(t *testing.T) {
	assert.Equal(t, domain.NotificationLevelError, minNotificationLevel(config.NotifyError))
	assert.Equal(t, domain.NotificationLevelWarning, minNotificationLevel(config.NotifyWarning))
	assert.Equal(t, domain.NotificationLevelInfo, minNotificationLevel(config.NotifyAlways))
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"install", "uninstall", "start", "stop", "status", "serve", "validate", "init", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "logon-notifier "))
}

func TestInstallCmd_UnsupportedPlatformExitsCleanly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("install would register a real service")
	}

	for _, args := range [][]string{{"install"}, {"-install"}, {"uninstall"}} {
		t.Run(args[0], func(t *testing.T) {
			root := NewRootCmd()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs(NormalizeArgs(args))

			require.NoError(t, root.Execute())
			assert.True(t, strings.HasPrefix(out.String(), "ERROR: "), out.String())
		})
	}
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", config.ConfigFileName)
	t.Cleanup(func() {
		cfgFile = ""
		initForce = false
	})

	run := func(args ...string) (string, error) {
		root := NewRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"init", "--config", path}, args...))
		err := root.Execute()
		return out.String(), err
	}

	out, err := run()
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, config.DefaultServiceAccount, cfg.Service.Account)

	_, err = run()
	assert.ErrorContains(t, err, "already exists")

	_, err = run("--force")
	assert.NoError(t, err)
}

// autoStopManager requests a stop as soon as the service reports running.
type autoStopManager struct {
	mu       sync.Mutex
	handler  domain.ControlHandler
	statuses []domain.ServiceStatus
	wg       sync.WaitGroup
}

func (m *autoStopManager) Register(h domain.ControlHandler) (domain.StatusReporter, error) {
	m.handler = h
	return m, nil
}

func (m *autoStopManager) SetStatus(s domain.ServiceStatus) error {
	m.mu.Lock()
	m.statuses = append(m.statuses, s)
	m.mu.Unlock()

	if s.State == domain.ServiceStateRunning {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.handler.Handle(domain.ControlRequest{
				Code:      domain.ControlSessionChange,
				EventType: domain.WTSSessionLogon,
				SessionID: 4,
			})
			m.handler.Handle(domain.ControlRequest{Code: domain.ControlStop})
		}()
	}
	return nil
}

func TestNewService_EndToEnd(t *testing.T) {
	var mu sync.Mutex
	var appriseBodies []string
	var pushes int

	apprise := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		appriseBodies = append(appriseBodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer apprise.Close()

	pushgateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pushes++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer pushgateway.Close()

	sessionLog := filepath.Join(t.TempDir(), config.SessionLogFileName)
	cfg := &config.Config{
		PollInterval: 10 * time.Millisecond,
		WaitHint:     config.DefaultWaitHint,
		SessionLog:   sessionLog,
		Retry:        config.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		Metrics:      config.MetricsConfig{Enabled: true, PushgatewayURL: pushgateway.URL},
		Apprise:      config.AppriseConfig{Enabled: true, URL: apprise.URL, Key: "k", Notify: config.NotifyAlways},
	}

	manager := &autoStopManager{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newService(cfg, logger, manager, notify.NewFileSink(sessionLog))

	outcome := s.coordinator.Run(context.Background())
	manager.wg.Wait()
	s.close()

	assert.Equal(t, app.OutcomeStopped, outcome)

	data, err := os.ReadFile(sessionLog)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "] Logon session 4")
	assert.Contains(t, content, "] Service is stopping.")
	assert.Contains(t, content, "] Service stopped.")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, pushes)
	require.Len(t, appriseBodies, 3)
	assert.Contains(t, appriseBodies[0], "Logon session 4")
}
