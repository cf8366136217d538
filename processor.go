package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// Collector concatenates the files under a directory tree into one text artifact.
type Collector struct {
	filter     *Filter
	outputFile string
	self       map[string]bool // Resolved absolute paths that are never emitted
	gitignore  bool
	languages  *LoadedLanguageData
	logger     *zap.Logger
}

// NewCollector builds a Collector. Exclude-self paths are resolved here, once, before any scan.
func NewCollector(opts Options) (*Collector, error) {
	if opts.OutputFile == "" {
		return nil, errors.New("output file is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collector{
		filter:     NewFilter(opts.SkipDirectories, opts.SkipFiles),
		outputFile: opts.OutputFile,
		self:       make(map[string]bool, len(opts.ExcludeSelf)+1),
		gitignore:  opts.Gitignore,
		languages:  opts.Languages,
		logger:     logger,
	}
	for _, p := range opts.ExcludeSelf {
		if p != "" {
			c.self[resolvePath(p)] = true
		}
	}
	return c, nil
}

// scan is the state of a single Collect call.
type scan struct {
	*Collector
	root    string
	filter  *Filter // Skip directories anchored at the scan root
	self    map[string]bool
	ignore  gitignore.IgnoreMatcher
	summary Summary
}

// Collect walks root top-down and writes one record per included file to the output file.
// Per-file and per-directory problems are logged and the walk continues; failures of the
// root itself or of the output stream abort the run and are returned.
func (c *Collector) Collect(root string) (summary Summary, err error) {
	fail := func(err error) (Summary, error) {
		c.logger.Error("Error during collection", zap.Error(err))
		return summary, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fail(fmt.Errorf("error resolving root %s: %w", root, err))
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fail(fmt.Errorf("error accessing root %s: %w", absRoot, err))
	}
	if !info.IsDir() {
		return fail(fmt.Errorf("root %s is not a directory", absRoot))
	}

	out, err := os.Create(c.outputFile)
	if err != nil {
		return fail(fmt.Errorf("error creating output file %s: %w", c.outputFile, err))
	}
	defer out.Close() // Covers the error paths; the happy path closes explicitly below

	r := &scan{
		Collector: c,
		root:      absRoot,
		filter:    c.filter.ForRoot(absRoot),
		self:      make(map[string]bool, len(c.self)+1),
	}
	for p := range c.self {
		r.self[p] = true
	}
	// The artifact usually lives inside the tree it describes.
	r.self[resolvePath(c.outputFile)] = true

	if c.gitignore {
		r.ignore = loadGitignore(absRoot, c.logger)
	}

	rw := &recordWriter{w: out}
	walkErr := r.walk(rw, absRoot)
	summary = r.summary
	if walkErr != nil {
		return fail(fmt.Errorf("error walking directory %s: %w", absRoot, walkErr))
	}

	if err := out.Close(); err != nil {
		return fail(fmt.Errorf("error closing output file %s: %w", c.outputFile, err))
	}

	c.logger.Info("Successfully wrote contents",
		zap.String("output", c.outputFile),
		zap.Int("records", summary.Records),
		zap.Int("errors", summary.Errors))
	return summary, nil
}

// walk visits dir top-down: every file at this level is emitted before any surviving
// subdirectory is entered, and skipped subdirectories are never listed.
func (r *scan) walk(rw *recordWriter, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == r.root {
			return err
		}
		r.logger.Error("Error accessing path", zap.String("path", dir), zap.Error(err))
		return nil
	}

	var subdirs []string
	for _, d := range entries {
		path := filepath.Join(dir, d.Name())
		if d.IsDir() {
			if r.skipDirectory(path) {
				r.logger.Debug("Skipping directory", zap.String("path", path))
				continue
			}
			subdirs = append(subdirs, path)
			continue
		}

		if !r.wantFile(path, d) {
			r.summary.Skipped++
			continue
		}
		if err := r.emit(rw, dir, d.Name()); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := r.walk(rw, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *scan) skipDirectory(path string) bool {
	if r.filter.ShouldSkipDirectory(path) {
		return true
	}
	return r.ignore != nil && r.ignore.Match(path, true)
}

// wantFile applies the walk-level filters. Skip-file names and self-exclusion are
// checked by emit itself.
func (r *scan) wantFile(path string, d fs.DirEntry) bool {
	mode := d.Type()
	if mode&fs.ModeSymlink != 0 {
		// Symlinked directories are not followed; symlinked files are read through.
		target, err := os.Stat(path)
		if err == nil && target.IsDir() {
			r.logger.Debug("Skipping symlinked directory", zap.String("path", path))
			return false
		}
	} else if !mode.IsRegular() {
		r.logger.Debug("Skipping non-regular file", zap.String("path", path))
		return false
	}

	if r.ignore != nil && r.ignore.Match(path, false) {
		r.logger.Debug("Skipping gitignored file", zap.String("path", path))
		return false
	}
	if r.languages != nil {
		if _, known := r.languages.GetLanguageForFile(path); !known {
			r.logger.Debug("Skipping file with unknown language", zap.String("path", path))
			return false
		}
	}
	return true
}

func (r *scan) isSelf(filePath string) bool {
	return r.self[resolvePath(filePath)]
}

// loadGitignore returns nil when root has no usable .gitignore.
func loadGitignore(root string, logger *zap.Logger) gitignore.IgnoreMatcher {
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
	if err != nil {
		logger.Error("Could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
		return nil
	}
	return matcher
}

// resolvePath makes p absolute and resolves symlinks where the target exists.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
