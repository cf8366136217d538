package main

import "go.uber.org/zap"

// Options configures a Collector. Everything here is fixed for the lifetime of a run.
type Options struct {
	SkipDirectories []string // Directory path prefixes, absolute or relative to the scan root
	SkipFiles       []string // Bare filenames skipped wherever they occur
	OutputFile      string   // Aggregate artifact; truncated at the start of every run

	// ExcludeSelf lists paths that are never emitted, compared by resolved absolute path.
	// The launcher passes the running executable here.
	ExcludeSelf []string

	Gitignore bool                // Honour the scan root's .gitignore
	Languages *LoadedLanguageData // When non-nil, only files of a known language are emitted

	Logger *zap.Logger
}

// Summary holds aggregated information about a finished run.
type Summary struct {
	Records int   // Records written, including ones carrying an error line
	Errors  int   // Records whose content was replaced by an error line
	Skipped int   // Files dropped by skip rules, self-exclusion or filters
	Bytes   int64 // Raw bytes read from included files
}
