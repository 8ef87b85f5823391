package session

import (
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/share"
)

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	hook := fault.NewHook(nil)
	m := NewManager(Options{Renderer: &fakeRenderer{}, Hook: hook}, time.Minute)
	defer m.Shutdown()

	ed, err := m.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sh, err := m.OpenShared(string(share.Encode("doc")))
	if err != nil {
		t.Fatalf("OpenShared() error = %v", err)
	}
	if ed.ID() == sh.ID() {
		t.Fatal("sessions share an id")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	got, err := m.Get(ed.ID())
	if err != nil || got != ed {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	if err := m.Close(ed.ID()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if hook.Attached(ed.ID()) {
		t.Error("closed session still attached to hook")
	}
	if _, err := m.Get(ed.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Close error = %v, want ErrNotFound", err)
	}
	if err := m.Close(ed.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Close() error = %v, want ErrNotFound", err)
	}
}

func TestManager_Sweep(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{Renderer: &fakeRenderer{}}, time.Minute)
	defer m.Shutdown()

	s, _ := m.Open()
	if n := m.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep() evicted %d fresh sessions", n)
	}
	if n := m.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("Sweep() evicted %d, want 1", n)
	}
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after sweep error = %v", err)
	}
}

func TestManager_BroadcastFailsEverySession(t *testing.T) {
	t.Parallel()

	hook := fault.NewHook(nil)
	m := NewManager(Options{Renderer: &fakeRenderer{}, Hook: hook}, time.Minute)
	defer m.Shutdown()

	ed, _ := m.Open()
	sh, _ := m.OpenShared(string(share.Encode("doc")))

	hook.Broadcast(fault.New(fault.RuntimeFault, "math typesetter unavailable: boom"))

	for _, s := range []*Session{ed, sh} {
		st := snapshot(t, s)
		if st.Mode != Failed || st.Detail != "math typesetter unavailable: boom" {
			t.Errorf("session %s state = %+v, want Failed", s.ID(), st)
		}
	}
}

func TestManager_SessionsShareDefaultHook(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{Renderer: &fakeRenderer{}}, time.Minute)
	defer m.Shutdown()

	a, _ := m.Open()
	b, _ := m.Open()
	if a.hook == nil || a.hook != b.hook {
		t.Error("sessions opened by one manager use different hooks")
	}
}

func TestManager_Shutdown(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{Renderer: &fakeRenderer{}}, 0)
	_, _ = m.Open()
	m.Shutdown()
	m.Shutdown()

	if m.Len() != 0 {
		t.Errorf("Len() = %d after Shutdown", m.Len())
	}
	if _, err := m.Open(); !errors.Is(err, ErrClosed) {
		t.Errorf("Open() after Shutdown error = %v, want ErrClosed", err)
	}
}
