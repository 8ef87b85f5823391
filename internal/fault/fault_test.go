package fault

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFrom - Conversion of fault payloads
// ---------------------------------------------------------------------------

func TestFrom(t *testing.T) {
	t.Parallel()

	parseErr := New(ParseFailure, "markdown render error: boom")

	tests := []struct {
		name       string
		input      any
		wantNil    bool
		wantKind   Kind
		wantDetail string
	}{
		{name: "nil", input: nil, wantNil: true},
		{name: "fault error kept", input: parseErr, wantKind: ParseFailure, wantDetail: "markdown render error: boom"},
		{name: "wrapped fault error unwrapped", input: fmt.Errorf("ctx: %w", parseErr), wantKind: ParseFailure, wantDetail: "markdown render error: boom"},
		{name: "plain error", input: errors.New("disk gone"), wantKind: RuntimeFault, wantDetail: "disk gone"},
		{name: "string panic", input: "nil map", wantKind: RuntimeFault, wantDetail: "nil map"},
		{name: "other value", input: 42, wantKind: RuntimeFault, wantDetail: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := From(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("From(%v) = %v, want nil", tt.input, got)
				}
				return
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Error() != tt.wantDetail {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantDetail)
			}
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("illegal base64 data at input byte 3")
	fe := Wrap(DecodeFailure, "invalid share token", cause)

	if fe.Detail != "invalid share token: illegal base64 data at input byte 3" {
		t.Errorf("Detail = %q", fe.Detail)
	}
	if !errors.Is(fe, cause) {
		t.Error("errors.Is(fe, cause) = false, want true")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	want := map[Kind]string{
		RuntimeFault:    "runtime",
		ParseFailure:    "parse",
		SanitizeFailure: "sanitize",
		DecodeFailure:   "decode",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHook - Subscription lifecycle
// ---------------------------------------------------------------------------

type recorder struct {
	mu     sync.Mutex
	faults []*Error
}

func (r *recorder) handle(fe *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = append(r.faults, fe)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.faults)
}

func TestHook_ReportAndDetach(t *testing.T) {
	t.Parallel()

	hook := NewHook(nil)
	rec := &recorder{}
	detach := hook.Attach("s1", rec.handle)

	if !hook.Report("s1", errors.New("boom")) {
		t.Fatal("Report() = false, want true for attached session")
	}
	if rec.count() != 1 {
		t.Fatalf("handler calls = %d, want 1", rec.count())
	}

	detach()
	detach() // idempotent

	if hook.Attached("s1") {
		t.Error("Attached() = true after detach")
	}
	if hook.Report("s1", errors.New("late")) {
		t.Error("Report() = true after detach, want false")
	}
	if rec.count() != 1 {
		t.Errorf("handler calls = %d after detach, want 1", rec.count())
	}
}

func TestHook_Broadcast(t *testing.T) {
	t.Parallel()

	hook := NewHook(nil)
	a, b := &recorder{}, &recorder{}
	hook.Attach("a", a.handle)
	hook.Attach("b", b.handle)

	hook.Broadcast("out of memory")

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("broadcast reached a=%d b=%d, want 1 each", a.count(), b.count())
	}
}

func TestHook_Recover(t *testing.T) {
	t.Parallel()

	hook := NewHook(nil)
	done := make(chan *Error, 1)
	hook.Attach("s1", func(fe *Error) { done <- fe })

	hook.Go("s1", func() {
		var m map[string]int
		m["x"] = 1
	})

	fe := <-done
	if fe.Kind != RuntimeFault {
		t.Errorf("Kind = %v, want RuntimeFault", fe.Kind)
	}
	if fe.Detail == "" {
		t.Error("Detail is empty")
	}
}

func TestHook_Close(t *testing.T) {
	t.Parallel()

	hook := NewHook(nil)
	rec := &recorder{}
	hook.Attach("s1", rec.handle)
	hook.Close()

	hook.Report("s1", "boom")
	hook.Attach("s2", rec.handle)
	hook.Report("s2", "boom")

	if rec.count() != 0 {
		t.Errorf("handler calls = %d after Close, want 0", rec.count())
	}
}

// ---------------------------------------------------------------------------
// TestReporter - Both fault classes reach the same handler
// ---------------------------------------------------------------------------

func TestReporter_UniformDelivery(t *testing.T) {
	t.Parallel()

	hook := NewHook(nil)
	rec := &recorder{}
	r := NewReporter(hook, "s1", rec.handle)

	r.Capture(New(ParseFailure, "markdown render error: bad"))
	r.Capture(nil)
	hook.Report("s1", errors.New("window.onerror: x is undefined"))

	if rec.count() != 2 {
		t.Fatalf("handler calls = %d, want 2", rec.count())
	}
	if rec.faults[0].Kind != ParseFailure || rec.faults[1].Kind != RuntimeFault {
		t.Errorf("kinds = %v, %v", rec.faults[0].Kind, rec.faults[1].Kind)
	}

	r.Detach()
	r.Detach()
	if hook.Attached("s1") {
		t.Error("hook still attached after Detach")
	}
}
