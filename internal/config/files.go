package config

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IncludesFile reports whether path is a source file selected by the include
// patterns and not rejected by the exclude patterns.
func (f FilesConfig) IncludesFile(path string) bool {
	slashPath := normalize(path)
	if f.excluded(slashPath) {
		return false
	}
	if len(f.Include) == 0 {
		return strings.HasSuffix(slashPath, ".py")
	}
	return matchAny(f.Include, slashPath)
}

// ExcludesDir reports whether a directory should be skipped entirely. A
// directory is skipped when everything inside it would be excluded.
func (f FilesConfig) ExcludesDir(path string) bool {
	slashPath := normalize(path)
	return f.excluded(slashPath) || f.excluded(slashPath+"/_")
}

// MaxFileBytes returns the size limit in bytes.
func (f FilesConfig) MaxFileBytes() int64 {
	return int64(f.MaxFileSize) * 1024
}

func (f FilesConfig) excluded(slashPath string) bool {
	return matchAny(f.Exclude, slashPath)
}

func matchAny(patterns []string, slashPath string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, slashPath); err == nil && matched {
			return true
		}
	}
	return false
}

// normalize produces a relative, slash-separated path for pattern matching.
func normalize(path string) string {
	path = filepath.Clean(path)
	path = strings.TrimPrefix(path, filepath.VolumeName(path))
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}
