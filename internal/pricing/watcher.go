package pricing

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RulesWatcher reloads a YAML rule file into an Engine whenever it changes.
// A file that fails to parse or validate is logged and the current table kept.
type RulesWatcher struct {
	path   string
	engine *Engine
	log    zerolog.Logger
	w      *fsnotify.Watcher
}

func NewRulesWatcher(path string, e *Engine, l zerolog.Logger) (*RulesWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory: editors and config mounts replace the file rather than write it
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &RulesWatcher{path: filepath.Clean(path), engine: e, log: l, w: w}, nil
}

// Run blocks until ctx is done.
func (rw *RulesWatcher) Run(ctx context.Context) error {
	defer rw.w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-rw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != rw.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			rw.reload()
		case err, ok := <-rw.w.Errors:
			if !ok {
				return nil
			}
			rw.log.Warn().Err(err).Msg("rules watcher error")
		}
	}
}

func (rw *RulesWatcher) reload() {
	t, err := LoadRules(rw.path)
	if err != nil {
		rw.log.Error().Err(err).Str("path", rw.path).Msg("pricing rules reload rejected")
		return
	}
	if err := rw.engine.SetRules(t); err != nil {
		rw.log.Error().Err(err).Str("path", rw.path).Msg("pricing rules reload rejected")
		return
	}
	rw.log.Info().Str("path", rw.path).Msg("pricing rules reloaded")
}
