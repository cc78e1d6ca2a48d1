package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Provider hands out the current metadata snapshot. Snapshots are never
// mutated after publication, so callers may read them without locking.
type Provider interface {
	Current() *Store
}

type staticProvider struct {
	store *Store
}

// Static returns a Provider that always yields store.
func Static(store *Store) Provider {
	if store == nil {
		store = &Store{}
	}
	return staticProvider{store: store}
}

func (p staticProvider) Current() *Store { return p.store }

const defaultReloadDelay = 200 * time.Millisecond

// FileProvider serves a metadata file and, once Watch is called, reloads it
// whenever it changes on disk. A file that fails to parse is logged and the
// previous snapshot stays in place.
type FileProvider struct {
	path        string
	logger      *slog.Logger
	reloadDelay time.Duration

	current atomic.Pointer[Store]
	reloads atomic.Int64

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileProvider loads path once and returns a provider for it.
func NewFileProvider(path string, logger *slog.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := Load(path)
	if err != nil {
		return nil, err
	}

	p := &FileProvider{
		path:        path,
		logger:      logger,
		reloadDelay: defaultReloadDelay,
	}
	p.current.Store(store)
	return p, nil
}

// Current returns the latest successfully loaded snapshot.
func (p *FileProvider) Current() *Store {
	return p.current.Load()
}

// Reloads returns how many times the file has been reloaded successfully.
func (p *FileProvider) Reloads() int64 {
	return p.reloads.Load()
}

// Reload re-reads the file and swaps the snapshot on success.
func (p *FileProvider) Reload() error {
	store, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(store)
	p.reloads.Add(1)
	p.logger.Info("Metadata reloaded", "path", p.path, "records", len(store.Records))
	return nil
}

// Watch starts watching the metadata file until ctx is cancelled or Close is
// called. The parent directory is watched because editors often replace the
// file with a rename.
func (p *FileProvider) Watch(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watcher != nil {
		return errors.New("metadata watcher already running")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	p.watcher = w
	p.done = make(chan struct{})
	go p.loop(ctx, w, p.done)

	p.logger.Info("Metadata watcher started", "path", p.path)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	w, done := p.watcher, p.done
	p.watcher, p.done = nil, nil
	p.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

func (p *FileProvider) loop(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	target := filepath.Clean(p.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce bursts of writes from a single save.
			if timer == nil {
				timer = time.NewTimer(p.reloadDelay)
			} else {
				timer.Reset(p.reloadDelay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := p.Reload(); err != nil {
				p.logger.Warn("Metadata reload failed, keeping previous snapshot", "path", p.path, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			p.logger.Error("Metadata watcher error", "err", err)
		}
	}
}
