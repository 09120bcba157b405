package platform

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// ConsoleManager hosts the service in the foreground. It logs every status report and
// turns SIGINT and SIGTERM into stop controls.
type ConsoleManager struct {
	logger  *slog.Logger
	signals chan os.Signal

	mu       sync.Mutex
	statuses []domain.ServiceStatus

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// ConsoleOption configures a ConsoleManager.
type ConsoleOption func(*ConsoleManager)

// WithConsoleLogger sets the logger.
func WithConsoleLogger(logger *slog.Logger) ConsoleOption {
	return func(c *ConsoleManager) {
		c.logger = logger
	}
}

// NewConsoleManager creates a ConsoleManager.
func NewConsoleManager(opts ...ConsoleOption) *ConsoleManager {
	c := &ConsoleManager{
		logger:  slog.Default(),
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register subscribes to interrupt signals and forwards them to h as stop controls.
func (c *ConsoleManager) Register(h domain.ControlHandler) (domain.StatusReporter, error) {
	signal.Notify(c.signals, syscall.SIGINT, syscall.SIGTERM)

	c.wg.Add(1)
	go c.pump(h)

	return c, nil
}

// SetStatus logs s. A stopped status releases the signal subscription.
func (c *ConsoleManager) SetStatus(s domain.ServiceStatus) error {
	c.mu.Lock()
	c.statuses = append(c.statuses, s)
	c.mu.Unlock()

	c.logger.Info("service status",
		"state", s.State,
		"checkpoint", s.Checkpoint,
		"exit_code", s.ExitCode,
	)

	if s.State == domain.ServiceStateStopped {
		c.release()
	}
	return nil
}

// Statuses returns every status reported so far.
func (c *ConsoleManager) Statuses() []domain.ServiceStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ServiceStatus, len(c.statuses))
	copy(out, c.statuses)
	return out
}

// Close stops forwarding signals and waits for the forwarding goroutine to exit.
func (c *ConsoleManager) Close() {
	c.release()
	c.wg.Wait()
}

func (c *ConsoleManager) release() {
	c.once.Do(func() {
		signal.Stop(c.signals)
		close(c.done)
	})
}

func (c *ConsoleManager) pump(h domain.ControlHandler) {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			return
		case sig := <-c.signals:
			c.logger.Info("received signal, requesting stop", "signal", sig)
			h.Handle(domain.ControlRequest{Code: domain.ControlStop})
		}
	}
}

var _ domain.Manager = (*ConsoleManager)(nil)
