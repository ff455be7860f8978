package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches bursts of writes to the input files.
const DefaultDebounce = 300 * time.Millisecond

// Watcher regenerates the catalog whenever one of the input files changes.
type Watcher struct {
	dataDir  string
	outPath  string
	debounce time.Duration
	logger   *zap.Logger

	// OnBuild, when set, is called after every regeneration attempt.
	OnBuild func(Result, error)
}

// NewWatcher creates a watcher for dataDir.
func NewWatcher(dataDir, outPath string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dataDir: dataDir, outPath: outPath, debounce: debounce, logger: logger}
}

func isInput(name string) bool {
	switch filepath.Base(name) {
	case DetailsFile, CategoriesFile, TechnologiesFile:
		return true
	}
	return false
}

// Run builds once, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dataDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dataDir, err)
	}
	w.logger.Info("watching catalog data", zap.String("dir", w.dataDir))

	w.build()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("catalog watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isInput(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			w.logger.Debug("catalog input changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.build()
		}
	}
}

func (w *Watcher) build() {
	res, err := Generate(w.dataDir, w.outPath, w.logger)
	if err != nil {
		w.logger.Error("catalog generation failed", zap.Error(err))
	}
	if w.OnBuild != nil {
		w.OnBuild(res, err)
	}
}
