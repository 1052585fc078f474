// Package shutdown translates interrupt signals into context cancellation
// so in-flight tracks finish or bail out cleanly, and runs registered
// cleanups before the process exits through the signal path (where
// deferred calls never run).
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns the run context and the cleanup list.
type Handler struct {
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	cleanupFns []func()
	once       sync.Once
}

// New creates a Handler with a live context.
func New() *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{ctx: ctx, cancel: cancel}
}

// Context returns the run context; it is cancelled on shutdown.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers a function to run on shutdown, such as flushing a
// log file. Cleanups run in registration order, exactly once.
func (h *Handler) AddCleanup(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanupFns = append(h.cleanupFns, fn)
}

// Listen starts watching for SIGINT/SIGTERM.
func (h *Handler) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		h.Shutdown()
	}()
}

// Shutdown cancels the run context and runs the cleanups. Safe to call
// more than once; repeat calls and repeat signals are no-ops.
func (h *Handler) Shutdown() {
	h.once.Do(func() {
		h.cancel()

		h.mu.Lock()
		fns := h.cleanupFns
		h.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	})
}
