package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay lets a burst of write events for one file collapse into a
// single ingestion.
const settleDelay = 500 * time.Millisecond

// Watcher re-ingests documents of a directory as they are created or
// rewritten and drops the chunks of removed ones.
type Watcher struct {
	ingestor *Ingestor
	dir      string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewWatcher(ingestor *Ingestor, dir string) *Watcher {
	return &Watcher{ingestor: ingestor, dir: dir, pending: make(map[string]*time.Timer)}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	slog.Info("watching documents", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !Supported(ev.Name) {
		return
	}
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.schedule(ctx, ev.Name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(ev.Name)
		source := filepath.Base(ev.Name)
		if err := w.ingestor.index.DeleteSource(ctx, source); err != nil {
			slog.Error("drop chunks of removed document", "source", source, "error", err)
			return
		}
		slog.Info("document removed from index", "source", source)
	}
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := w.ingestor.IngestFile(ctx, path); err != nil {
			slog.Error("ingest document failed", "path", path, "error", err)
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
