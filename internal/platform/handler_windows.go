//go:build windows

package platform

import (
	"log/slog"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// channelManager adapts the svc.Handler channels to domain.Manager.
type channelManager struct {
	requests <-chan svc.ChangeRequest
	changes  chan<- svc.Status
	logger   *slog.Logger

	mu   sync.Mutex
	last domain.ServiceStatus

	done chan struct{}
	wg   sync.WaitGroup
}

func newChannelManager(r <-chan svc.ChangeRequest, changes chan<- svc.Status) *channelManager {
	return &channelManager{
		requests: r,
		changes:  changes,
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
}

// Register starts forwarding control requests to h.
func (m *channelManager) Register(h domain.ControlHandler) (domain.StatusReporter, error) {
	m.wg.Add(1)
	go m.pump(h)
	return m, nil
}

// SetStatus reports s to the service control manager.
func (m *channelManager) SetStatus(s domain.ServiceStatus) error {
	m.mu.Lock()
	m.last = s
	m.mu.Unlock()

	m.changes <- toSvcStatus(s)
	return nil
}

func (m *channelManager) lastExitCode() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.ExitCode
}

func (m *channelManager) close() {
	close(m.done)
	m.wg.Wait()
}

func (m *channelManager) pump(h domain.ControlHandler) {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case c, ok := <-m.requests:
			if !ok {
				return
			}
			req := fromChangeRequest(c)
			rc := h.Handle(req)
			m.logger.Debug("control handled",
				"control", req.Code,
				"raw", c.Cmd,
				"result", rc,
			)
		}
	}
}

func fromChangeRequest(c svc.ChangeRequest) domain.ControlRequest {
	req := domain.ControlRequest{Raw: uint32(c.Cmd)}

	switch c.Cmd {
	case svc.Stop:
		req.Code = domain.ControlStop
	case svc.Shutdown:
		req.Code = domain.ControlShutdown
	case svc.Interrogate:
		req.Code = domain.ControlInterrogate
	case svc.SessionChange:
		req.Code = domain.ControlSessionChange
		req.EventType = domain.SessionEventType(c.EventType)
		if c.EventData != 0 {
			n := (*windows.WTSSESSION_NOTIFICATION)(unsafe.Pointer(c.EventData))
			req.SessionID = n.SessionID
		}
	default:
		req.Code = domain.ControlOther
	}

	return req
}

func toSvcStatus(s domain.ServiceStatus) svc.Status {
	return svc.Status{
		State:         toSvcState(s.State),
		Accepts:       toSvcAccepted(s.Accepts),
		CheckPoint:    s.Checkpoint,
		WaitHint:      uint32(s.WaitHint.Milliseconds()),
		Win32ExitCode: s.ExitCode,
	}
}

func toSvcState(s domain.ServiceState) svc.State {
	switch s {
	case domain.ServiceStateStartPending:
		return svc.StartPending
	case domain.ServiceStateRunning:
		return svc.Running
	case domain.ServiceStateStopPending:
		return svc.StopPending
	default:
		return svc.Stopped
	}
}

func fromSvcState(s svc.State) domain.ServiceState {
	switch s {
	case svc.Stopped:
		return domain.ServiceStateStopped
	case svc.StartPending:
		return domain.ServiceStateStartPending
	case svc.Running:
		return domain.ServiceStateRunning
	case svc.StopPending:
		return domain.ServiceStateStopPending
	default:
		return domain.ServiceStateUnknown
	}
}

func toSvcAccepted(a domain.Accepted) svc.Accepted {
	var out svc.Accepted
	if a.Has(domain.AcceptStop) {
		out |= svc.AcceptStop
	}
	if a.Has(domain.AcceptShutdown) {
		out |= svc.AcceptShutdown
	}
	if a.Has(domain.AcceptSessionChange) {
		out |= svc.AcceptSessionChange
	}
	return out
}
