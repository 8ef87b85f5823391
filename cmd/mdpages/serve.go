package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/export"
	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/hints"
	"github.com/alnah/go-mdpages/internal/pipeline"
	"github.com/alnah/go-mdpages/internal/server"
	"github.com/alnah/go-mdpages/internal/session"
	"github.com/alnah/go-mdpages/internal/share"
)

// Serve errors.
var (
	ErrListen = errors.New("cannot listen")
	ErrServe  = errors.New("server failed")
)

// readHeaderTimeout bounds slow clients before a handler runs.
const readHeaderTimeout = 5 * time.Second

// runServe starts the web application and blocks until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, env, func(cfg *config.Config) {
		mergeServeFlags(flags, cfg)
	})
	if err != nil {
		return err
	}

	if flags.printConfig {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	logger := newLogger(env.Stderr, cfg.Log.Level, cfg.Log.Format)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	bundle, err := loadAssets(cfg)
	if err != nil {
		return err
	}

	services := pipeline.NewServices(pipeline.ServiceOptions{
		Goldmark: pipeline.GoldmarkOptions{
			RawHTML:   cfg.Render.RawHTML,
			HardWraps: cfg.Render.HardWraps,
		},
		HighlightStyle: cfg.Render.HighlightStyle,
	})

	hook := fault.NewHook(logger)
	defer hook.Close()
	services.OnLoaded(serviceLoaded(hook, logger))

	pipe := pipeline.New(services, pipeline.NewDefaultSanitizer(), pipeline.Options{
		MaxMathSpan: cfg.Render.MaxMathSpan,
		Logger:      logger,
	})

	codec := share.Codec{MaxTokenLength: cfg.Share.MaxTokenLength}
	manager := session.NewManager(session.Options{
		Renderer:  pipe,
		Hook:      hook,
		Codec:     codec,
		Logger:    logger,
		EditRate:  cfg.Session.EditRate,
		EditBurst: cfg.Session.EditBurst,
	}, cfg.Session.IdleTimeout.Std())

	opts := server.Options{
		Manager:      manager,
		Hook:         hook,
		Pipeline:     pipe,
		Codec:        codec,
		Assets:       bundle,
		BaseURL:      cfg.Server.BaseURL,
		KatexCSS:     cfg.Render.KatexCSS,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logger,
	}

	if cfg.Export.Enabled {
		exporter, err := newExporter(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := exporter.Close(); err != nil {
				logger.Warn("closing exporter", "error", err)
			}
		}()
		opts.Exporter = exporter
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(opts),
		ReadTimeout:       cfg.Server.ReadTimeout.Std(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout.Std(),
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForAddrInUse(cfg.Server.Addr))
		}
		return fmt.Errorf("%w: %v", ErrListen, err)
	}

	services.Start()
	logger.Info("listening", "addr", ln.Addr().String(), "export", cfg.Export.Enabled, "version", Version)
	return serve(ctx, httpServer, ln, manager, cfg.Server.ShutdownTimeout.Std(), logger)
}

// serviceLoaded logs service loads. A load failure is a runtime fault for
// every live session, since none of them can render again.
func serviceLoaded(hook *fault.Hook, logger *slog.Logger) func(name string, err error) {
	return func(name string, err error) {
		if err != nil {
			logger.Error("service failed to load", "service", name, "error", err)
			hook.Broadcast(fault.Wrap(fault.RuntimeFault, name+" unavailable", err))
			return
		}
		logger.Debug("service ready", "service", name)
	}
}

// serve runs the HTTP server and the session sweeper until ctx is done or
// the server fails, then shuts both down.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, manager *session.Manager, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %v", ErrServe, err)
		}
		return nil
	})

	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: shutdown: %v", ErrServe, err)
		}
		return nil
	})

	return g.Wait()
}

// mergeServeFlags applies serve flag overrides.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	applyRenderSettings(f.render, cfg)
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.baseURL != "" {
		cfg.Server.BaseURL = f.baseURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.export {
		cfg.Export.Enabled = true
	}
}

// loadAssets resolves the page templates and stylesheet.
func loadAssets(cfg *config.Config) (*assets.Bundle, error) {
	resolver, err := assets.NewResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}
	bundle, err := assets.LoadBundle(resolver, assets.DefaultPageSetName, cfg.Assets.Style)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateParse) || errors.Is(err, assets.ErrIncompletePageSet) {
			return nil, fmt.Errorf("%w%s", err, hints.ForTemplate(cfg.Assets.BasePath))
		}
		return nil, err
	}
	return bundle, nil
}

// newExporter creates the PDF exporter from the export section.
func newExporter(cfg *config.Config, logger *slog.Logger) (*export.Exporter, error) {
	paper, err := export.ParsePaper(cfg.Export.Paper)
	if err != nil {
		return nil, err
	}
	return export.New(export.Options{
		Timeout: cfg.Export.Timeout.Std(),
		Paper:   paper,
		Slots:   cfg.Export.Slots,
		Logger:  logger,
	}), nil
}
