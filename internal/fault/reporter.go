package fault

import "sync"

// Reporter is a session's exclusive subscription to the Hook.
// Capture and hook deliveries both end in the same Handler.
type Reporter struct {
	id      string
	hook    *Hook
	handler Handler
	detach  func()
	once    sync.Once
}

// NewReporter attaches handler to hook for session id.
func NewReporter(hook *Hook, id string, handler Handler) *Reporter {
	r := &Reporter{id: id, hook: hook, handler: handler}
	r.detach = hook.Attach(id, handler)
	return r
}

// Capture routes a synchronous failure (typically a render failure) to the
// handler. A nil err is ignored.
func (r *Reporter) Capture(err error) {
	fe := From(err)
	if fe == nil {
		return
	}
	r.handler(fe)
}

// Report routes an asynchronous fault through the hook.
func (r *Reporter) Report(v any) {
	r.hook.Report(r.id, v)
}

// Detach releases the hook subscription. Safe to call more than once.
func (r *Reporter) Detach() {
	r.once.Do(r.detach)
}
