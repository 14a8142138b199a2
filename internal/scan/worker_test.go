package scan

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type fakeEnumerator struct {
	networks []string
	err      error
	calls    atomic.Int32
	release  chan struct{}
}

func (f *fakeEnumerator) Networks(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.networks, f.err
}

func receive(t *testing.T, h *Handle) Result {
	t.Helper()
	select {
	case res := <-h.Done():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scan result")
		return Result{}
	}
}

func TestWorker_KeepsDuplicatesInOrder(t *testing.T) {
	enum := &fakeEnumerator{networks: []string{"A", "B", "A"}}
	w := NewWorker(enum, 0, nil)

	h, started := w.Begin(context.Background(), "wlan0")
	if !started {
		t.Fatal("expected scan to start")
	}
	if h.Interface() != "wlan0" {
		t.Errorf("unexpected interface %s", h.Interface())
	}

	res := receive(t, h)
	if !reflect.DeepEqual(res.Networks, []string{"A", "B", "A"}) {
		t.Errorf("Networks = %v, want [A B A]", res.Networks)
	}
	if res.Empty() {
		t.Error("result should not be empty")
	}
}

func TestWorker_SingleFlight(t *testing.T) {
	enum := &fakeEnumerator{networks: []string{"Home"}, release: make(chan struct{})}
	w := NewWorker(enum, 0, nil)

	first, started := w.Begin(context.Background(), "wlan0")
	if !started {
		t.Fatal("expected first scan to start")
	}
	second, started := w.Begin(context.Background(), "wlan0")
	if started {
		t.Fatal("second Begin should not start a scan")
	}
	if second != first {
		t.Fatal("second Begin should return the outstanding handle")
	}
	if !w.Scanning() {
		t.Fatal("worker should report the outstanding scan")
	}

	close(enum.release)
	receive(t, first)

	select {
	case extra := <-first.Done():
		t.Fatalf("unexpected second delivery %v", extra)
	case <-time.After(50 * time.Millisecond):
	}
	if n := enum.calls.Load(); n != 1 {
		t.Errorf("enumerator called %d times, want 1", n)
	}

	if !w.Finish(first) {
		t.Fatal("Finish should accept the outstanding handle")
	}
	if w.Scanning() {
		t.Error("worker should be idle after Finish")
	}
	if w.Finish(first) {
		t.Error("Finish on a consumed handle should be ignored")
	}

	next, started := w.Begin(context.Background(), "wlan1")
	if !started || next == first {
		t.Fatal("a new scan should start once idle")
	}
	receive(t, next)
}

func TestWorker_FailureDeliversEmpty(t *testing.T) {
	var buf bytes.Buffer
	enum := &fakeEnumerator{networks: []string{"ignored"}, err: errors.New("nmcli: not found")}
	w := NewWorker(enum, 0, log.New(&buf))

	h, _ := w.Begin(context.Background(), "wlan0")
	res := receive(t, h)
	if !res.Empty() {
		t.Errorf("expected empty result, got %v", res.Networks)
	}
	if !strings.Contains(buf.String(), "wifi enumeration failed") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
}

func TestWorker_SettleDelay(t *testing.T) {
	enum := &fakeEnumerator{}
	w := NewWorker(enum, DefaultSettleDelay, nil)

	var slept time.Duration
	w.sleep = func(ctx context.Context, d time.Duration) { slept = d }

	h, _ := w.Begin(context.Background(), "wlan0")
	receive(t, h)
	if slept != DefaultSettleDelay {
		t.Errorf("settle delay = %v, want %v", slept, DefaultSettleDelay)
	}
}

func TestWorker_FinishNil(t *testing.T) {
	w := NewWorker(&fakeEnumerator{}, 0, nil)
	if w.Finish(nil) {
		t.Error("Finish(nil) should be ignored")
	}
}
