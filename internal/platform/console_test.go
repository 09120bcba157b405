package platform

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharkusmanch/logon-notifier/internal/app"
	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

func TestConsoleManager_SignalRequestsStop(t *testing.T) {
	c := NewConsoleManager()
	defer c.Close()

	got := make(chan domain.ControlRequest, 1)
	_, err := c.Register(domain.ControlHandlerFunc(func(req domain.ControlRequest) uint32 {
		got <- req
		return domain.NoError
	}))
	require.NoError(t, err)

	c.signals <- os.Interrupt

	select {
	case req := <-got:
		assert.Equal(t, domain.ControlStop, req.Code)
	case <-time.After(time.Second):
		t.Fatal("signal was not forwarded")
	}
}

func TestConsoleManager_RunsServiceLifecycle(t *testing.T) {
	c := NewConsoleManager()
	defer c.Close()

	coordinator := app.NewCoordinator(c,
		app.WithWorker(app.NewWorker(app.WithPollInterval(10*time.Millisecond))),
	)

	result := make(chan app.Outcome, 1)
	go func() { result <- coordinator.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return coordinator.Status().State == domain.ServiceStateRunning
	}, time.Second, 5*time.Millisecond)

	c.signals <- os.Interrupt

	select {
	case outcome := <-result:
		assert.Equal(t, app.OutcomeStopped, outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}

	var states []domain.ServiceState
	for _, s := range c.Statuses() {
		states = append(states, s.State)
	}
	assert.Equal(t, []domain.ServiceState{
		domain.ServiceStateStartPending,
		domain.ServiceStateRunning,
		domain.ServiceStateStopPending,
		domain.ServiceStateStopped,
	}, states)
}

func TestConsoleManager_CloseIsIdempotent(t *testing.T) {
	c := NewConsoleManager()
	_, err := c.Register(domain.ControlHandlerFunc(func(domain.ControlRequest) uint32 { return domain.NoError }))
	require.NoError(t, err)

	require.NoError(t, c.SetStatus(domain.ServiceStatus{State: domain.ServiceStateStopped}))
	c.Close()
	c.Close()
}
