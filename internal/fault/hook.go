package fault

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler receives faults for one session.
// Handlers run on the reporting goroutine and must not block.
type Handler func(*Error)

// Hook is the process-wide fault hook. It is installed once by the binary and
// lives until Close; sessions subscribe to it through a Reporter.
type Hook struct {
	mu     sync.RWMutex
	subs   map[string]Handler
	closed bool
	logger *slog.Logger
}

// NewHook creates a Hook. A nil logger discards log output.
func NewHook(logger *slog.Logger) *Hook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hook{
		subs:   make(map[string]Handler),
		logger: logger,
	}
}

// Attach subscribes handler for the session id and returns the detach function.
// Attaching the same id twice replaces the previous handler.
// Attach on a closed hook returns a no-op detach and never delivers faults.
func (h *Hook) Attach(id string, handler Handler) (detach func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || handler == nil {
		return func() {}
	}
	h.subs[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
		})
	}
}

// Attached reports whether a session currently holds a subscription.
func (h *Hook) Attached(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subs[id]
	return ok
}

// Report delivers v to the session id. Faults for unknown sessions are logged
// and dropped. It reports whether a handler received the fault.
func (h *Hook) Report(id string, v any) bool {
	fe := From(v)
	if fe == nil {
		return false
	}

	h.mu.RLock()
	handler, ok := h.subs[id]
	h.mu.RUnlock()

	if !ok {
		h.logger.Warn("fault for detached session", "session", id, "kind", fe.Kind.String(), "detail", fe.Detail)
		return false
	}
	h.logger.Error("session fault", "session", id, "kind", fe.Kind.String(), "detail", fe.Detail)
	handler(fe)
	return true
}

// Broadcast delivers a fault that no single session owns to every attached session.
func (h *Hook) Broadcast(v any) {
	fe := From(v)
	if fe == nil {
		return
	}

	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, handler := range h.subs {
		handlers = append(handlers, handler)
	}
	h.mu.RUnlock()

	h.logger.Error("process fault", "kind", fe.Kind.String(), "detail", fe.Detail, "sessions", len(handlers))
	for _, handler := range handlers {
		handler(fe)
	}
}

// Recover must be deferred. It captures a panic on the current goroutine and
// reports it to the session id, or broadcasts it when id is empty.
func (h *Hook) Recover(id string) {
	r := recover()
	if r == nil {
		return
	}
	h.logger.Debug("recovered panic", "session", id, "stack", string(debug.Stack()))
	fe := New(RuntimeFault, fmt.Sprintf("internal error: %v", r))
	if id == "" {
		h.Broadcast(fe)
		return
	}
	h.Report(id, fe)
}

// Go runs fn on a new goroutine with panics captured for session id.
func (h *Hook) Go(id string, fn func()) {
	go func() {
		defer h.Recover(id)
		fn()
	}()
}

// Close detaches every session. Later Attach calls are no-ops.
func (h *Hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	clear(h.subs)
}
