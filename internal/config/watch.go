package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the config whenever the file at path changes and hands the
// fresh copy to onChange. Only settings read per-frame (sound, display) take
// effect mid-run; connection settings need a restart. Returns a stop
// function.
//
// Editors save with several rapid events, so reloads are debounced.
func Watch(path string, log *zap.SugaredLogger, onChange func(Config)) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors that write-and-rename replace the inode,
	// which would silently drop a watch on the file itself.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var pending *time.Timer
		reload := func() {
			cfg, err := Load(path)
			if err != nil {
				log.Warnw("config reload failed", "path", path, "err", err)
				return
			}
			log.Infow("config reloaded", "path", path)
			onChange(cfg)
		}

		for {
			select {
			case <-done:
				if pending != nil {
					pending.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(250*time.Millisecond, reload)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnw("config watch error", "err", err)
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
