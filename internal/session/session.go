package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/pipeline"
	"github.com/alnah/go-mdpages/internal/share"
)

// Sentinel errors for session operations.
var (
	ErrReadOnly = errors.New("session is read-only")
	ErrClosed   = errors.New("session is closed")
	ErrNotFound = errors.New("session not found")
)

// Mode is the session's interaction state.
type Mode int

// Session modes.
const (
	Editing Mode = iota
	Viewing
	Failed
)

// String returns "editing", "viewing" or "error".
func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Viewing:
		return "viewing"
	default:
		return "error"
	}
}

// State is a snapshot of a session.
type State struct {
	ID       string
	Mode     Mode
	Document string
	// Outcome is the latest render result.
	Outcome pipeline.Outcome
	// Display is Outcome.HTML after code highlighting.
	Display string
	// Detail and Kind describe the failure when Mode is Failed.
	Detail string
	Kind   fault.Kind
	// Revision counts applied renders.
	Revision int
}

// Renderer is the part of the render pipeline a session drives.
type Renderer interface {
	Render(ctx context.Context, rawText string) (pipeline.Outcome, error)
	Highlight(ctx context.Context, html string) (string, error)
}

// Options configures a Session.
type Options struct {
	Renderer Renderer
	Hook     *fault.Hook
	Codec    share.Codec
	Logger   *slog.Logger
	// EditRate limits renders per second; zero disables throttling.
	EditRate  float64
	EditBurst int
}

type editEvent struct {
	text  string
	reply chan editReply
}

type editReply struct {
	state State
	err   error
}

type snapshotEvent struct {
	reply chan State
}

type renderEvent struct{}

// Session is one editing or viewing page.
type Session struct {
	id       string
	renderer Renderer
	hook     *fault.Hook
	reporter *fault.Reporter
	limiter  *rate.Limiter
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	events chan any
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	faultMu     sync.Mutex
	pending     *fault.Error
	faultSignal chan struct{}

	lastActive atomic.Int64

	// Owned by the loop goroutine.
	state State
}

func newSession(id string, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Hook == nil {
		opts.Hook = fault.NewHook(opts.Logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:          id,
		renderer:    opts.Renderer,
		hook:        opts.Hook,
		logger:      opts.Logger.With("session", id),
		ctx:         ctx,
		cancel:      cancel,
		events:      make(chan any, 16),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		faultSignal: make(chan struct{}, 1),
		state:       State{ID: id, Mode: Editing},
	}
	if opts.EditRate > 0 {
		burst := max(opts.EditBurst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(opts.EditRate), burst)
	}
	s.reporter = fault.NewReporter(opts.Hook, id, s.onFault)
	s.touch(time.Now())
	return s
}

// NewEditing starts a session in Editing mode with an empty document.
func NewEditing(id string, opts Options) *Session {
	s := newSession(id, opts)
	s.start()
	return s
}

// NewShared starts a session from a share token: Viewing with an immediate
// render when it decodes, Failed with the decode error otherwise.
func NewShared(id, token string, opts Options) *Session {
	s := newSession(id, opts)

	doc, err := opts.Codec.Decode(token)
	if err != nil {
		s.reporter.Capture(fault.Wrap(fault.DecodeFailure, "", err))
	} else {
		s.state.Mode = Viewing
		s.state.Document = doc
		s.events <- renderEvent{}
	}
	s.start()
	return s
}

// start runs the event loop under the fault hook.
func (s *Session) start() {
	s.hook.Go(s.id, s.run)
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Reporter returns the session's fault reporter.
func (s *Session) Reporter() *fault.Reporter { return s.reporter }

// LastActive returns when the session was last used.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

// Edit replaces the document and renders it. It returns the state after the
// render that consumed this edit, which may include newer coalesced edits.
// Viewing sessions return ErrReadOnly; Failed sessions return their state
// unchanged.
func (s *Session) Edit(ctx context.Context, text string) (State, error) {
	s.touch(time.Now())
	reply := make(chan editReply, 1)
	if err := s.send(ctx, editEvent{text: text, reply: reply}); err != nil {
		return State{}, err
	}
	select {
	case r := <-reply:
		return r.state, r.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.done:
		return State{}, ErrClosed
	}
}

// Snapshot returns the current state after every previously queued event.
func (s *Session) Snapshot(ctx context.Context) (State, error) {
	s.touch(time.Now())
	reply := make(chan State, 1)
	if err := s.send(ctx, snapshotEvent{reply: reply}); err != nil {
		return State{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.done:
		return State{}, ErrClosed
	}
}

func (s *Session) send(ctx context.Context, ev any) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrClosed
	}
}

// Close stops the loop and detaches the fault subscription.
func (s *Session) Close() {
	s.once.Do(func() {
		s.reporter.Detach()
		s.cancel()
		close(s.quit)
	})
	<-s.done
}

// onFault is the session's fault handler. It may run on any goroutine,
// including the loop itself, so it only records the fault and signals.
func (s *Session) onFault(fe *fault.Error) {
	s.faultMu.Lock()
	if s.pending == nil {
		s.pending = fe
	}
	s.faultMu.Unlock()

	select {
	case s.faultSignal <- struct{}{}:
	default:
	}
}

func (s *Session) run() {
	defer close(s.done)

	s.applyFault()
	for {
		select {
		case <-s.quit:
			return
		case <-s.faultSignal:
			s.applyFault()
		case ev := <-s.events:
			// A fault reported before this event was queued must be visible to it.
			s.applyFault()
			s.handle(ev)
			s.applyFault()
		}
	}
}

func (s *Session) handle(ev any) {
	defer s.recoverFault()

	switch e := ev.(type) {
	case snapshotEvent:
		e.reply <- s.state
	case renderEvent:
		s.render(s.state.Document)
	case editEvent:
		s.handleEdit(e)
	}
}

// recoverFault turns a panic while handling an event into a runtime fault.
func (s *Session) recoverFault() {
	if r := recover(); r != nil {
		s.reporter.Capture(fault.From(r))
	}
}

func (s *Session) handleEdit(first editEvent) {
	switch s.state.Mode {
	case Viewing:
		first.reply <- editReply{state: s.state, err: ErrReadOnly}
		return
	case Failed:
		first.reply <- editReply{state: s.state}
		return
	}

	// Coalesce queued edits: only the newest text is rendered.
	text := first.text
	replies := []chan editReply{first.reply}
	var deferred []any
drain:
	for {
		select {
		case ev := <-s.events:
			if e, ok := ev.(editEvent); ok {
				text = e.text
				replies = append(replies, e.reply)
				continue
			}
			deferred = append(deferred, ev)
		default:
			break drain
		}
	}
	if n := len(replies); n > 1 {
		s.logger.Debug("coalesced edits", "count", n)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(s.ctx); err != nil {
			for _, r := range replies {
				r <- editReply{state: s.state, err: ErrClosed}
			}
			return
		}
	}

	s.render(text)
	s.applyFault()

	for _, r := range replies {
		r <- editReply{state: s.state}
	}
	for _, ev := range deferred {
		s.handle(ev)
	}
}

// render runs the pipeline on text and applies the outcome.
func (s *Session) render(text string) {
	if s.state.Mode == Failed {
		return
	}

	out, err := s.renderer.Render(s.ctx, text)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.reporter.Capture(fault.Wrap(fault.RuntimeFault, "", err))
		s.state.Document = text
		return
	}

	s.state.Document = text
	s.state.Outcome = out
	s.state.Revision++

	if !out.OK() {
		s.state.Display = ""
		s.reporter.Capture(out.Err)
		return
	}

	display, herr := s.renderer.Highlight(s.ctx, out.HTML)
	if herr != nil {
		s.logger.Warn("code highlighting failed", "error", herr)
		display = out.HTML
	}
	s.state.Display = display
}

// applyFault moves the session to Failed if a fault is pending. Failed is
// terminal: later faults are logged and ignored.
func (s *Session) applyFault() {
	s.faultMu.Lock()
	fe := s.pending
	s.pending = nil
	s.faultMu.Unlock()

	if fe == nil {
		return
	}
	if s.state.Mode == Failed {
		s.logger.Debug("fault after failure ignored", "kind", fe.Kind.String(), "detail", fe.Detail)
		return
	}
	s.logger.Info("session failed", "kind", fe.Kind.String(), "detail", fe.Detail)
	s.state.Mode = Failed
	s.state.Detail = fe.Detail
	s.state.Kind = fe.Kind
	s.state.Display = ""
}
