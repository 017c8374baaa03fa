// Package watcher monitors a drop folder and ingests documents as files
// appear, change, or disappear.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/logger"
)

// documentNamespace is the UUID namespace for path-derived document IDs.
// The same file path always maps to the same document, so rewriting a
// dropped file updates its document instead of creating a new one.
var documentNamespace = uuid.MustParse("4c1f6a2e-7b3d-49c8-8a15-d90e2f4b6a31")

// Config configures the drop-folder watcher.
type Config struct {
	// Debounce is how long to wait after the last change before
	// ingesting. Editors and downloads write files in several bursts.
	Debounce time.Duration

	// Extensions lists the file extensions to ingest (lowercase, with
	// dot). Empty means the defaults.
	Extensions []string

	// MaxFileSize caps how large a dropped file may be, in bytes.
	MaxFileSize int64
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig() Config {
	return Config{
		Debounce:    time.Second,
		Extensions:  []string{".txt", ".md", ".markdown"},
		MaxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// event is a pending change to a dropped file.
type event struct {
	path    string
	removed bool
}

// Watcher ingests files dropped into a folder on behalf of one owner.
type Watcher struct {
	config   Config
	watcher  *fsnotify.Watcher
	ingestor driving.Ingestor
	ownerID  string
	rootPath string

	pendingMu sync.Mutex
	pending   map[string]event

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher over the given folder. Files already present
// are not ingested; call Sync for that.
func New(rootPath, ownerID string, ingestor driving.Ingestor, cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultConfig().Extensions
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultConfig().MaxFileSize
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:   cfg,
		watcher:  fsWatcher,
		ingestor: ingestor,
		ownerID:  ownerID,
		rootPath: rootPath,
		pending:  make(map[string]event),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the watch is registered; event
// handling runs in a background goroutine until Stop or ctx cancel.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.rootPath); err != nil {
		return err
	}

	logger.Info("Watching %s for documents", w.rootPath)
	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

// Sync ingests every eligible file already present in the folder.
func (w *Watcher) Sync(ctx context.Context) error {
	entries, err := os.ReadDir(w.rootPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.rootPath, entry.Name())
		if !w.eligible(path) {
			continue
		}
		w.ingestFile(ctx, path)
	}
	return nil
}

// DocumentID returns the document ID a dropped file maps to.
func DocumentID(path string) string {
	return uuid.NewSHA1(documentNamespace, []byte(filepath.Clean(path))).String()
}

// eligible reports whether the file should be ingested.
func (w *Watcher) eligible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleEvent records a single fsnotify event for the next flush.
// Later events for the same path supersede earlier ones.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !w.eligible(ev.Name) {
		return
	}

	var pending event
	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		pending = event{path: ev.Name}
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		pending = event{path: ev.Name, removed: true}
	default:
		return
	}

	w.pendingMu.Lock()
	w.pending[ev.Name] = pending
	w.pendingMu.Unlock()
}

// flushPending ingests or removes every debounced file.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]event)
	w.pendingMu.Unlock()

	for _, ev := range batch {
		if ev.removed {
			if err := w.ingestor.Delete(ctx, DocumentID(ev.path)); err != nil {
				logger.Warn("Failed to remove document for %s: %v", ev.path, err)
			}
			continue
		}
		w.ingestFile(ctx, ev.path)
	}
}

// ingestFile reads a dropped file and runs it through the pipeline.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		// Removed between the event and the flush.
		return
	}
	if info.Size() > w.config.MaxFileSize {
		logger.Warn("Skipping %s: %d bytes exceeds limit", path, info.Size())
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}

	doc := &domain.Document{
		ID:      DocumentID(path),
		OwnerID: w.ownerID,
		Title:   filepath.Base(path),
		Content: string(content),
	}

	if err := w.ingestor.Reprocess(ctx, doc); err != nil {
		logger.Warn("Failed to ingest %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s as document %s", path, doc.ID)
}
