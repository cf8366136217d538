package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errSelectionAborted means the user closed the picker without confirming.
var errSelectionAborted = errors.New("interactive selection aborted")

// directoryCandidates lists the directories directly under root that the configured
// filter would still descend into.
func directoryCandidates(root string, filter *Filter) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", root, err)
	}
	anchored := filter.ForRoot(root)
	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if anchored.ShouldSkipDirectory(filepath.Join(root, entry.Name())) {
			continue
		}
		candidates = append(candidates, entry.Name())
	}
	sort.Strings(candidates)
	return candidates, nil
}

// pickSkipDirectories opens a fuzzy finder over the top-level directories of root and
// returns the ones the user marked, relative to root.
func pickSkipDirectories(root string, filter *Filter) ([]string, error) {
	candidates, err := directoryCandidates(root, filter)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithHeader("Tab marks directories to skip, Enter confirms"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select directories to leave out of the output."
			}
			entries, err := os.ReadDir(filepath.Join(root, candidates[i]))
			if err != nil {
				return fmt.Sprintf("Error listing directory: %v", err)
			}
			return fmt.Sprintf("Directory: %s\nEntries: %d", candidates[i], len(entries))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errSelectionAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]string, len(idx))
	for i, index := range idx {
		selected[i] = candidates[index]
	}
	return selected, nil
}
