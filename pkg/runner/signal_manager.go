package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalManager turns OS interrupts into context cancellation that can be
// re-armed after each interrupt is handled.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager(parent context.Context) *SignalManager {
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Interrupted reports whether the current context ended because of a signal
// rather than because the parent was cancelled.
func (sm *SignalManager) Interrupted() bool {
	return sm.ctx.Err() != nil && sm.parent.Err() == nil
}

// Reset re-arms the signal listener after an interrupt was handled.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// CheckRace waits briefly to see if a context cancellation follows an input error.
// On Windows, Ctrl+C can surface as EOF slightly before the signal arrives.
func (sm *SignalManager) CheckRace() {
	if sm.ctx.Err() == nil {
		select {
		case <-sm.ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
}
