package export

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Concurrency limits.
const (
	// MinSlots ensures at least one export can run.
	MinSlots = 1

	// MaxSlots caps concurrent tabs to bound browser memory.
	MaxSlots = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// DefaultTimeout bounds one export when the request has no deadline.
const DefaultTimeout = 30 * time.Second

// ResolveSlots picks how many exports may run at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
func ResolveSlots(n int) int {
	if n > 0 {
		return min(n, MaxSlots)
	}
	return max(MinSlots, min(runtime.GOMAXPROCS(0)/cpuDivisor, MaxSlots))
}

// Options configures an Exporter.
type Options struct {
	Timeout time.Duration
	Paper   Paper
	// Slots limits concurrent exports; zero derives it from GOMAXPROCS.
	Slots  int
	Logger *slog.Logger
}

// Exporter prints Documents to PDF.
type Exporter struct {
	renderer pdfRenderer
	paper    Paper
	slots    chan struct{}
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

// New creates an Exporter backed by headless Chrome. No browser starts
// until the first Export.
func New(opts Options) *Exporter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return newExporter(newRodRenderer(opts.Timeout), opts)
}

func newExporter(r pdfRenderer, opts Options) *Exporter {
	if opts.Paper == (Paper{}) {
		opts.Paper = Letter
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		renderer: r,
		paper:    opts.Paper,
		slots:    make(chan struct{}, ResolveSlots(opts.Slots)),
		logger:   opts.Logger,
	}
}

// Export renders doc to PDF bytes. It blocks while every slot is busy.
func (e *Exporter) Export(ctx context.Context, doc Document) ([]byte, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	page, err := doc.HTML()
	if err != nil {
		return nil, err
	}

	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()
	pdf, err := e.renderer.Render(ctx, page, e.paper)
	if err != nil {
		return nil, fmt.Errorf("exporting %q: %w", doc.Title, err)
	}
	e.logger.Debug("exported pdf", "bytes", len(pdf), "paper", e.paper.Name, "duration", time.Since(start))
	return pdf, nil
}

// Close releases the browser. Later Export calls fail with ErrClosed.
func (e *Exporter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	return e.renderer.Close()
}
