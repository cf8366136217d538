package main

import (
	"os"
	"path/filepath"
	"strings"
)

// Filter holds the two skip rule sets: directory prefixes and bare filenames.
type Filter struct {
	skipDirs  []string
	skipFiles map[string]struct{}
}

// NewFilter normalizes the directory prefixes once. Empty entries are ignored.
func NewFilter(skipDirs, skipFiles []string) *Filter {
	f := &Filter{skipFiles: make(map[string]struct{}, len(skipFiles))}
	seen := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		if d == "" {
			continue
		}
		clean := filepath.Clean(d)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		f.skipDirs = append(f.skipDirs, clean)
	}
	for _, name := range skipFiles {
		if name != "" {
			f.skipFiles[name] = struct{}{}
		}
	}
	return f
}

// ForRoot returns a copy of the filter with relative skip directories anchored at root,
// so they compare against the paths produced by walking root.
func (f *Filter) ForRoot(root string) *Filter {
	anchored := &Filter{skipFiles: f.skipFiles}
	for _, d := range f.skipDirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		anchored.skipDirs = append(anchored.skipDirs, d)
	}
	return anchored
}

// ShouldSkipDirectory reports whether dirPath is a configured skip directory or lies below one.
// Matching stops at path segment boundaries: a rule for "a/b" covers "a/b" and "a/b/c" but not "a/bc".
func (f *Filter) ShouldSkipDirectory(dirPath string) bool {
	p := filepath.Clean(dirPath)
	for _, d := range f.skipDirs {
		if hasPathPrefix(p, d) {
			return true
		}
	}
	return false
}

// ShouldSkipFile reports whether the bare filename is in the skip set.
func (f *Filter) ShouldSkipFile(name string) bool {
	_, ok := f.skipFiles[name]
	return ok
}

// hasPathPrefix expects both arguments already cleaned.
func hasPathPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	// Cleaned roots ("/" or "C:\") already end in a separator.
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(p, prefix)
}
