package app

import "sync"

// StopSignal is a manual-reset event shared by the dispatcher, the worker and the
// coordinator. It starts unset and, once set, stays set for the rest of the run.
type StopSignal struct {
	once sync.Once
	ch   chan struct{}
}

// SignalFactory creates the stop signal for a run.
type SignalFactory func() (*StopSignal, error)

// NewStopSignal creates an unset StopSignal.
func NewStopSignal() (*StopSignal, error) {
	return &StopSignal{ch: make(chan struct{})}, nil
}

// Set sets the signal. It reports whether this call was the one that set it.
func (s *StopSignal) Set() bool {
	set := false
	s.once.Do(func() {
		close(s.ch)
		set = true
	})
	return set
}

// IsSet reports whether the signal has been set. It does not consume the signal.
func (s *StopSignal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the signal is set.
func (s *StopSignal) Done() <-chan struct{} {
	return s.ch
}
