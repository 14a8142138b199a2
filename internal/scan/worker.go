// Package scan runs wireless network enumeration off the control loop and
// hands the result back through a single-item channel.
package scan

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSettleDelay gives a freshly selected adapter time to come up
// before it is asked for networks.
const DefaultSettleDelay = 300 * time.Millisecond

// Enumerator lists visible SSIDs.
type Enumerator interface {
	Networks(ctx context.Context) ([]string, error)
}

// Result is the outcome of one scan. Networks keeps discovery order and
// duplicates.
type Result struct {
	Networks []string
}

// Empty reports whether the scan found nothing.
func (r Result) Empty() bool {
	return len(r.Networks) == 0
}

// Handle identifies one outstanding scan.
type Handle struct {
	id      uint64
	iface   string
	started time.Time
	done    chan Result
}

// Done returns the channel the result is delivered on. It receives exactly
// one value.
func (h *Handle) Done() <-chan Result {
	return h.done
}

// Interface returns the adapter the scan was started for.
func (h *Handle) Interface() string {
	return h.iface
}

// Worker runs at most one scan at a time.
type Worker struct {
	enum   Enumerator
	settle time.Duration
	logger *log.Logger
	sleep  func(ctx context.Context, d time.Duration)

	mu       sync.Mutex
	seq      uint64
	inflight *Handle
}

// NewWorker creates a worker. A nil logger discards diagnostics.
func NewWorker(enum Enumerator, settle time.Duration, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Worker{
		enum:   enum,
		settle: settle,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Begin starts a scan for iface. If one is already outstanding its handle is
// returned with started == false and nothing new is launched.
func (w *Worker) Begin(ctx context.Context, iface string) (h *Handle, started bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inflight != nil {
		return w.inflight, false
	}

	w.seq++
	h = &Handle{
		id:      w.seq,
		iface:   iface,
		started: time.Now(),
		done:    make(chan Result, 1),
	}
	w.inflight = h

	w.logger.Debug("scan started", "iface", iface, "scan", h.id)
	go w.run(ctx, h)
	return h, true
}

// TODO: a hung enumerator keeps the handle outstanding forever and the
// network screen stays in its scanning state; add a timeout policy once
// product agrees on one.
func (w *Worker) run(ctx context.Context, h *Handle) {
	w.sleep(ctx, w.settle)

	networks, err := w.enum.Networks(ctx)
	if err != nil {
		w.logger.Warn("wifi enumeration failed", "iface", h.iface, "err", err)
		networks = nil
	}

	res := Result{Networks: slices.Clone(networks)}
	w.logger.Info("scan finished",
		"iface", h.iface,
		"networks", len(res.Networks),
		"elapsed", time.Since(h.started).Round(time.Millisecond),
	)
	h.done <- res
}

// Finish marks h as consumed and returns the worker to idle. Stale handles
// are ignored.
func (w *Worker) Finish(h *Handle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if h == nil || w.inflight != h {
		return false
	}
	w.inflight = nil
	return true
}

// Scanning reports whether a scan is outstanding.
func (w *Worker) Scanning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight != nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
