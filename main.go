package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is the application version, set via ldflags.
var version = "dev"

// Defaults mirror the skip lists the tool has always shipped with.
var (
	defaultSkipDirectories = []string{
		"node_modules",
		"backend/test",
		"assets",
		"utils",
		".git",
		".expo",
	}
	defaultSkipFiles = []string{
		"output.txt",
		"package.json",
		"package-lock.json",
		"generated_documentation.txt",
		"docker-compose.yml",
		"babel.config.js",
	}
)

const defaultOutputFile = "output.txt"

// newRootCmd wires flags, config file and environment into a fresh viper instance so that
// every invocation (and every test) gets its own configuration.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "collector [ROOT]",
		Short: "Collector flattens a directory tree into a single annotated text file.",
		Long: `Collector walks ROOT (default: the current directory, or a git URL to clone)
and writes every included file into one text artifact, each entry headed by its
path and directory. Directories and filenames can be excluded.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile, cmd.ErrOrStderr()); err != nil {
				return err
			}
			logger := newLogger(v.GetBool("verbose"), cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return run(v, root, cmd.ErrOrStderr(), logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/collector/config.toml)")

	flags.StringSliceP("skip-dir", "d", defaultSkipDirectories, "Directories to skip, absolute or relative to ROOT")
	_ = v.BindPFlag("skip_directories", flags.Lookup("skip-dir"))
	flags.StringSliceP("skip-file", "s", defaultSkipFiles, "Bare filenames to skip anywhere in the tree")
	_ = v.BindPFlag("skip_files", flags.Lookup("skip-file"))
	flags.StringP("output", "o", defaultOutputFile, "Aggregate output file (truncated each run)")
	_ = v.BindPFlag("output_file", flags.Lookup("output"))

	flags.Bool("gitignore", false, "Also skip paths matched by ROOT/.gitignore")
	_ = v.BindPFlag("gitignore", flags.Lookup("gitignore"))
	flags.String("languages-file", "", "languages.yml; when set only files of a known language are included")
	_ = v.BindPFlag("languages_file", flags.Lookup("languages-file"))
	flags.Bool("interactive", false, "Pick additional directories to skip from ROOT's top level")
	_ = v.BindPFlag("interactive", flags.Lookup("interactive"))

	flags.BoolP("clipboard", "c", false, "Copy the finished output to the clipboard")
	_ = v.BindPFlag("clipboard", flags.Lookup("clipboard"))
	flags.Bool("tokens", false, "Count tokens in the finished output")
	_ = v.BindPFlag("tokens", flags.Lookup("tokens"))
	flags.String("tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	_ = v.BindPFlag("tokenizer", flags.Lookup("tokenizer"))
	flags.String("model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	_ = v.BindPFlag("model", flags.Lookup("model"))
	flags.String("tokenizer-file", "", "Path to local tokenizer file")
	_ = v.BindPFlag("tokenizer_file", flags.Lookup("tokenizer-file"))

	flags.BoolP("verbose", "v", false, "Log every file as it is processed")
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))

	return cmd
}

// initConfig reads in the config file and COLLECTOR_* environment variables.
func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "collector"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("COLLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named config file has to be readable.
		if cfgFile != "" {
			return fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		fmt.Fprintf(stderr, "Warning: error reading config file: %v\n", err)
		return nil
	}
	fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// newLogger builds the process logger: console lines of time, level and message.
func newLogger(verbose bool, out io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " - "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(out),
		level,
	)
	return zap.New(core)
}

// run resolves the root, assembles the Collector from configuration and executes one scan.
func run(v *viper.Viper, root string, stderr io.Writer, logger *zap.Logger) error {
	if isGitURL(root) {
		tempDir, err := cloneGitRepo(root, stderr, logger)
		if err != nil {
			logger.Error("Error cloning repository", zap.String("url", root), zap.Error(err))
			return &loggedError{err}
		}
		defer func() {
			logger.Debug("Cleaning up temporary directory", zap.String("dir", tempDir))
			_ = os.RemoveAll(tempDir)
		}()
		root = tempDir
	}

	opts := Options{
		SkipDirectories: v.GetStringSlice("skip_directories"),
		SkipFiles:       v.GetStringSlice("skip_files"),
		OutputFile:      v.GetString("output_file"),
		Gitignore:       v.GetBool("gitignore"),
		Logger:          logger,
	}

	if exe, err := os.Executable(); err == nil {
		opts.ExcludeSelf = append(opts.ExcludeSelf, exe)
	} else {
		logger.Warn("Could not resolve own executable", zap.Error(err))
	}

	if path := v.GetString("languages_file"); path != "" {
		langs, err := loadLanguageData(path)
		if err != nil {
			logger.Error("Error loading language definitions", zap.Error(err))
			return &loggedError{err}
		}
		logger.Debug("Loaded language definitions", zap.String("path", path), zap.Int("languages", len(langs.Langs)))
		opts.Languages = langs
	}

	if v.GetBool("interactive") {
		picked, err := pickSkipDirectories(root, NewFilter(opts.SkipDirectories, nil))
		if errors.Is(err, errSelectionAborted) {
			logger.Info("Interactive selection aborted")
			return nil
		}
		if err != nil {
			return err
		}
		opts.SkipDirectories = append(opts.SkipDirectories, picked...)
	}

	collector, err := NewCollector(opts)
	if err != nil {
		return err
	}
	if _, err := collector.Collect(root); err != nil {
		// Collect logs its own fatal errors.
		return &loggedError{err}
	}

	// Post-processing failures are reported but leave the written artifact valid.
	if v.GetBool("tokens") {
		reportTokens(v, opts.OutputFile, logger)
	}
	if v.GetBool("clipboard") {
		if err := copyOutputToClipboard(opts.OutputFile); err != nil {
			logger.Error("Clipboard copy failed", zap.Error(err))
		} else {
			logger.Info("Output copied to clipboard")
		}
	}
	return nil
}

func reportTokens(v *viper.Viper, outputFile string, logger *zap.Logger) {
	tk, err := newTokenizer(TokenizerConfig{
		Type:  v.GetString("tokenizer"),
		Model: v.GetString("model"),
		File:  v.GetString("tokenizer_file"),
	}, logger)
	if err != nil {
		logger.Error("Error initializing tokenizer", zap.Error(err))
		return
	}
	data, err := os.ReadFile(outputFile)
	if err != nil {
		logger.Error("Error reading output for token count", zap.Error(err))
		return
	}
	count, err := tk.CountTokens(string(data))
	if err != nil {
		logger.Error("Token counting failed", zap.Error(err))
		return
	}
	logger.Info("Token count", zap.String("output", outputFile), zap.Int("tokens", count))
}

// loggedError marks an error that already went through the logger.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// reportError prints err unless the logger already reported it.
func reportError(w io.Writer, err error) {
	var logged *loggedError
	if errors.As(err, &logged) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
