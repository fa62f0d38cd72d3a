package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"bigocheck/internal/config"

	"github.com/fsnotify/fsnotify"
)

type FileWatcher struct {
	watcher     *fsnotify.Watcher
	config      *config.Config
	watchedDirs map[string]bool
	mu          sync.Mutex
	debouncer   *debouncer
	logger      *slog.Logger
}

type FileChangeEvent struct {
	Path      string
	Operation string
	Timestamp time.Time
}

type FileChangeHandler func([]string) error

func NewFileWatcher(cfg *config.Config, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw := &FileWatcher{
		watcher:     watcher,
		config:      cfg,
		watchedDirs: make(map[string]bool),
		debouncer:   newDebouncer(500*time.Millisecond, logger), // 500ms debounce
		logger:      logger,
	}
	return fw, nil
}

// Watch registers every directory under paths and starts delivering batches
// of changed Python files to handler.
func (fw *FileWatcher) Watch(paths []string, handler FileChangeHandler) error {
	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	go fw.eventLoop(handler)
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if fw.shouldSkipDir(walkPath) {
			return filepath.SkipDir
		}
		fw.mu.Lock()
		defer fw.mu.Unlock()
		if !fw.watchedDirs[walkPath] {
			if err := fw.watcher.Add(walkPath); err != nil {
				return fmt.Errorf("failed to add directory %s to watcher: %w", walkPath, err)
			}
			fw.watchedDirs[walkPath] = true
			fw.logger.Debug("watching directory", "dir", walkPath)
		}
		return nil
	})
}

func (fw *FileWatcher) eventLoop(handler FileChangeHandler) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, handler)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, handler FileChangeHandler) {
	// New directories need to be watched too
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addPath(event.Name); err != nil {
				fw.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if !fw.isPythonFile(event.Name) {
		return
	}
	if fw.shouldSkipFile(event.Name) {
		return
	}
	changeEvent := FileChangeEvent{
		Path:      event.Name,
		Operation: fw.eventOpToString(event.Op),
		Timestamp: time.Now(),
	}
	fw.debouncer.add(changeEvent, handler)
}

func (fw *FileWatcher) isPythonFile(path string) bool {
	if !strings.HasSuffix(path, ".py") {
		return false
	}
	return fw.config.Files.IncludesFile(path)
}

func (fw *FileWatcher) shouldSkipDir(path string) bool {
	defaultExclusions := []string{
		".git", "__pycache__", ".venv", "venv", ".tox", ".mypy_cache", ".pytest_cache", "node_modules", ".idea", ".vscode",
	}
	if slices.Contains(defaultExclusions, filepath.Base(path)) {
		return true
	}
	return fw.config.Files.ExcludesDir(path)
}

func (fw *FileWatcher) shouldSkipFile(path string) bool {
	filename := filepath.Base(path)
	if strings.HasPrefix(filename, ".") {
		return true
	}
	if strings.HasSuffix(filename, ".tmp") || strings.HasSuffix(filename, "~") {
		return true
	}
	if strings.HasSuffix(filename, ".swp") || strings.HasSuffix(filename, ".swo") {
		return true
	}
	return false
}

func (fw *FileWatcher) eventOpToString(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return "CREATE"
	case op&fsnotify.Write == fsnotify.Write:
		return "WRITE"
	case op&fsnotify.Remove == fsnotify.Remove:
		return "REMOVE"
	case op&fsnotify.Rename == fsnotify.Rename:
		return "RENAME"
	case op&fsnotify.Chmod == fsnotify.Chmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

func (fw *FileWatcher) Close() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) GetWatchedPaths() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	paths := make([]string, 0, len(fw.watchedDirs))
	for path := range fw.watchedDirs {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
