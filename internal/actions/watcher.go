package actions

import (
	"context"
	"os"
	"time"
)

// RecordWatcher polls a catalog record so an edit made in another window
// can trigger a reload once it is saved.
type RecordWatcher struct {
	path     string
	interval time.Duration
}

// NewRecordWatcher creates a watcher for path
func NewRecordWatcher(path string) *RecordWatcher {
	return &RecordWatcher{
		path:     path,
		interval: 500 * time.Millisecond,
	}
}

// WatchResult contains the result of watching a record
type WatchResult struct {
	Path     string
	Modified bool
	Error    error
}

// WaitForChange blocks until the record's size or modification time changes
// or ctx is done.
func (w *RecordWatcher) WaitForChange(ctx context.Context) WatchResult {
	initial, err := os.Stat(w.path)
	if err != nil {
		return WatchResult{Path: w.path, Error: err}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return WatchResult{Path: w.path, Error: ctx.Err()}
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue // Editors may replace the file while saving
			}
			if !info.ModTime().Equal(initial.ModTime()) || info.Size() != initial.Size() {
				return WatchResult{Path: w.path, Modified: true}
			}
		}
	}
}
