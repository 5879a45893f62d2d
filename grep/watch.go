package grep

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/gsg/formatter"
	"github.com/gnoswap-labs/gsg/scanner"
)

// watchDelay groups bursts of writes to the same file into one search.
const watchDelay = 100 * time.Millisecond

// Watcher searches files again whenever they are written or created.
type Watcher struct {
	engine  GrepEngine
	logger  *zap.Logger
	scanner *scanner.Scanner
	sink    *sink
	watcher *fsnotify.Watcher

	pending map[string]struct{}
}

func NewWatcher(
	logger *zap.Logger,
	engine GrepEngine,
	sc *scanner.Scanner,
	out io.Writer,
	f *formatter.LineFormatter,
) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := newSink(out, f)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	return &Watcher{
		engine:  engine,
		logger:  logger,
		scanner: sc,
		sink:    s,
		watcher: fw,
		pending: make(map[string]struct{}),
	}, nil
}

// Add watches dirs and all directories below them.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && !w.scanner.Hidden() && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Run handles events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(watchDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.follow(event)
			if w.queue(event) {
				timer.Reset(watchDelay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		case <-timer.C:
			if err := w.flush(); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// follow starts watching directories created under a watched one.
func (w *Watcher) follow(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if !w.scanner.Hidden() && strings.HasPrefix(info.Name(), ".") {
		return
	}
	if err := w.Add(event.Name); err != nil {
		w.logger.Error("failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
	}
}

// queue records a relevant event and reports whether it did.
func (w *Watcher) queue(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !w.scanner.Accepts(event.Name) {
		return false
	}
	w.pending[event.Name] = struct{}{}
	return true
}

// flush searches every queued file, in name order.
func (w *Watcher) flush() error {
	names := make([]string, 0, len(w.pending))
	for name := range w.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	clear(w.pending)

	for _, name := range names {
		if err := processFile(w.logger, w.engine, w.sink, name); err != nil {
			return err
		}
	}
	return nil
}
