package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bastion3d/bastion/engine/core"
)

// AssetInfo records a watched shader binary and when it last changed.
type AssetInfo struct {
	Path        string
	LastChanged time.Time
}

// Watcher observes the shader directory and fires EVENT_CODE_ASSET_CHANGED
// when a compiled shader binary is rewritten on disk, driving a live
// pipeline reload. Editors tend to emit bursts of write events for one
// save, so changes are debounced per file.
type Watcher struct {
	assets map[string]AssetInfo

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

const debounceInterval = 200 * time.Millisecond

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		assets:   make(map[string]AssetInfo),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Initialize(assetsDir string) error {
	go w.start()

	if err := w.addRecursive(assetsDir); err != nil {
		return err
	}
	core.LogInfo("Asset watcher observing %s", assetsDir)
	return nil
}

func (w *Watcher) Shutdown() {
	if w.isClosed {
		return
	}
	w.isClosed = true
	close(w.done)
}

// addRecursive starts watching the named directory and all sub-directories.
func (w *Watcher) addRecursive(name string) error {
	if w.isClosed {
		return errors.New("watcher instance already closed")
	}
	return filepath.Walk(name, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		w.indexFile(walkPath)
		return nil
	})
}

func (w *Watcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					w.fsnotify.Add(e.Name)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				w.removeAsset(e.Name)
				w.fsnotify.Remove(e.Name)
			}

		case e := <-w.fsnotify.Errors:
			if e != nil {
				core.LogError(e.Error())
			}

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) indexFile(path string) {
	if !isShaderBinary(path) {
		return
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.assets[path] = AssetInfo{Path: path, LastChanged: time.Now()}
}

func (w *Watcher) handleFileEvent(path string) {
	if !isShaderBinary(path) {
		return
	}

	w.mutex.Lock()
	now := time.Now()
	asset, known := w.assets[path]
	w.assets[path] = AssetInfo{Path: path, LastChanged: now}
	w.mutex.Unlock()

	// Only a re-write of a known binary triggers a reload; the initial
	// index pass stays silent.
	if !known || now.Sub(asset.LastChanged) < debounceInterval {
		return
	}

	core.LogInfo("Shader binary changed on disk: %s", path)
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: path,
	})
}

func (w *Watcher) removeAsset(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.assets, path)
}

func isShaderBinary(path string) bool {
	return filepath.Ext(path) == ".spv"
}
