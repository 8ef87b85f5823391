package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/session"
)

// ---------------------------------------------------------------------------
// TestServe - Lifecycle of the HTTP server and session sweeper
// ---------------------------------------------------------------------------

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}),
		ReadHeaderTimeout: time.Second,
	}
	manager := session.NewManager(session.Options{}, time.Minute)
	logger := slog.New(slog.DiscardHandler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, manager, time.Second, logger) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve() did not return after cancel")
	}

	if _, err := manager.Open(); !errors.Is(err, session.ErrClosed) {
		t.Errorf("Open() after shutdown error = %v, want ErrClosed", err)
	}
}

func TestServe_ListenerFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_ = ln.Close()

	srv := &http.Server{ReadHeaderTimeout: time.Second}
	manager := session.NewManager(session.Options{}, time.Minute)

	err = serve(context.Background(), srv, ln, manager, time.Second, slog.New(slog.DiscardHandler))
	if !errors.Is(err, ErrServe) {
		t.Errorf("serve() error = %v, want ErrServe", err)
	}
}

func TestRunServe_AddrInUse(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	env, _, _ := newTestEnv("", nil)
	err = runServe(context.Background(), []string{"--addr", busy.Addr().String()}, env)
	if !errors.Is(err, ErrListen) {
		t.Fatalf("runServe() error = %v, want ErrListen", err)
	}
	if exitCodeFor(err) != ExitIO {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitIO)
	}
	if !strings.Contains(err.Error(), "--addr") {
		t.Errorf("error %q should carry the address hint", err)
	}
}

// ---------------------------------------------------------------------------
// TestMergeServeFlags - Flag overrides
// ---------------------------------------------------------------------------

func TestServiceLoaded(t *testing.T) {
	t.Parallel()

	hook := fault.NewHook(nil)
	var got []*fault.Error
	hook.Attach("s1", func(fe *fault.Error) { got = append(got, fe) })

	loaded := serviceLoaded(hook, slog.New(slog.DiscardHandler))
	loaded("markdown parser", nil)
	if len(got) != 0 {
		t.Fatalf("successful load reported faults: %v", got)
	}

	loaded("math typesetter", errors.New("quickjs: out of memory"))
	if len(got) != 1 {
		t.Fatalf("faults delivered = %d, want 1", len(got))
	}
	if got[0].Kind != fault.RuntimeFault {
		t.Errorf("Kind = %v, want RuntimeFault", got[0].Kind)
	}
	if want := "math typesetter unavailable: quickjs: out of memory"; got[0].Detail != want {
		t.Errorf("Detail = %q, want %q", got[0].Detail, want)
	}
}

func TestMergeServeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeServeFlags(&serveFlags{
		addr:      ":9000",
		baseURL:   "https://x.test/",
		logLevel:  "debug",
		logFormat: "json",
		assetPath: "/srv",
		export:    true,
		render:    renderSettingsFlags{hardWraps: true},
	}, cfg)

	if cfg.Server.Addr != ":9000" || cfg.Server.BaseURL != "https://x.test/" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Assets.BasePath != "/srv" || !cfg.Export.Enabled || !cfg.Render.HardWraps {
		t.Errorf("cfg = %+v", cfg)
	}

	cfg = config.DefaultConfig()
	mergeServeFlags(&serveFlags{}, cfg)
	if cfg.Server != config.DefaultConfig().Server || cfg.Export.Enabled {
		t.Errorf("zero flags changed config: %+v", cfg)
	}
}

func TestLoadAssets(t *testing.T) {
	t.Parallel()

	bundle, err := loadAssets(config.DefaultConfig())
	if err != nil {
		t.Fatalf("loadAssets() error = %v", err)
	}
	if bundle.Pages == nil || bundle.Style == "" {
		t.Errorf("bundle = %+v", bundle)
	}

	cfg := config.DefaultConfig()
	cfg.Assets.Style = "nope"
	if _, err := loadAssets(cfg); exitCodeFor(err) != ExitUsage {
		t.Errorf("loadAssets(unknown style) error = %v, want usage error", err)
	}
}
