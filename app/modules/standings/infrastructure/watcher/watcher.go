package standingswatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/trace"
)

// ErrStopped is returned when starting a watcher that was already stopped.
var ErrStopped = errors.New("watcher stopped")

// tickInterval is how often pending changes are checked against the debounce window.
const tickInterval = 100 * time.Millisecond

// Reloader is the part of the standings service the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) (*standingsservice.Snapshot, error)
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Reloads       int
	Failures      int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher reloads the standings when the standings file or a profile file
// changes. Bursts of events inside the debounce window collapse into one
// reload.
type Watcher struct {
	mu            sync.Mutex
	watcher       *fsnotify.Watcher
	reloader      Reloader
	standingsPath string
	profileDir    string
	debounce      time.Duration
	pendingSince  time.Time
	stats         Stats
	logger        *slog.Logger
	tracer        trace.Tracer
	now           func() time.Time
	stopCh        chan struct{}
	doneCh        chan struct{}
	running       bool
	stopped       bool
}

// NewWatcher creates a Watcher for standingsPath and profileDir.
func NewWatcher(
	reloader Reloader,
	standingsPath, profileDir string,
	debounce time.Duration,
	logger *slog.Logger,
	tracer trace.Tracer,
) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:       fw,
		reloader:      reloader,
		standingsPath: filepath.Clean(standingsPath),
		profileDir:    filepath.Clean(profileDir),
		debounce:      debounce,
		logger:        logger,
		tracer:        tracer,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking. The standings directory must
// exist; a missing profile directory is logged and skipped. A stopped
// watcher cannot be restarted.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.running {
		return nil
	}

	standingsDir := filepath.Dir(w.standingsPath)
	if err := w.watcher.Add(standingsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", standingsDir, err)
	}

	if w.profileDir != standingsDir {
		if err := w.watcher.Add(w.profileDir); err != nil {
			w.logger.WarnContext(ctx, "Profile directory not watched",
				slog.String("dir", w.profileDir),
				slog.String("error", err.Error()),
			)
		}
	}

	w.logger.InfoContext(ctx, "Watching standings for changes",
		slog.Any("dirs", w.watcher.WatchList()),
		slog.Duration("debounce", w.debounce),
	)

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop stops the watcher, waits for the event loop to exit and releases the
// file watcher. It is safe to call before Start and more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Failed to close file watcher", slog.String("error", err.Error()))
	}
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.ErrorContext(ctx, "File watcher error", slog.String("error", err.Error()))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			if w.due() {
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	w.logger.Debug("Standings input changed",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()),
	)

	w.mu.Lock()
	now := w.now()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = now
	w.pendingSince = now
	w.mu.Unlock()
}

// relevant reports whether a change to path can alter the snapshot.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if path == w.standingsPath {
		return true
	}
	if filepath.Dir(path) != w.profileDir {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// due reports whether changes have settled past the debounce window and
// clears the pending mark when they have.
func (w *Watcher) due() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingSince.IsZero() || w.now().Sub(w.pendingSince) < w.debounce {
		return false
	}
	w.pendingSince = time.Time{}
	return true
}

func (w *Watcher) reload(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "Watcher.reload")
	defer span.End()

	_, err := w.reloader.Reload(ctx)

	w.mu.Lock()
	w.stats.Reloads++
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		// The service keeps serving the previous snapshot and logs the cause.
		w.logger.WarnContext(ctx, "Reload after file change failed", slog.String("error", err.Error()))
	}
}
