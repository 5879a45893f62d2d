package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/gsg/formatter"
	"github.com/gnoswap-labs/gsg/grep"
	"github.com/gnoswap-labs/gsg/scanner"
)

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	extensions   []string
	ignorePaths  string
	hidden       bool
	noIgnore     bool
	workers      int
	multiline    bool
	outputFormat string
	colorMode    string
	showProgress bool
	loadPackages bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gsg EXPR [paths...]",
	Short: "gsg - structural grep for Go source code",
	Long: `Runs an XPath expression against the syntax tree of every Go file under the
given paths and prints the source of each match. Without paths, standard input
is searched.

Example) gsg '//FuncDecl[Ident[@field="Name"]="main"]' .
Use 'gsg dump FILE' to see the tree a file is matched against.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return runSearch(ctx, cmd, args[0], args[1:])
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (default "+grep.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	flags := rootCmd.PersistentFlags()
	flags.DurationVar(&timeout, "timeout", 0, "Stop searching after this long (0 means no limit)")
	flags.StringSliceVar(&extensions, "ext", nil, "File extensions searched in directories (default .go)")
	flags.StringVar(&ignorePaths, "ignore", "", "Comma-separated globs of paths to skip")
	flags.BoolVar(&hidden, "hidden", false, "Search hidden files and directories")
	flags.BoolVar(&noIgnore, "no-ignore", false, "Do not respect .gitignore files")
	flags.IntVarP(&workers, "workers", "j", 0, "Files searched in parallel (default one per CPU)")
	flags.BoolVar(&multiline, "multiline", false, "Keep line breaks in matched source")
	flags.StringVar(&outputFormat, "format", "", "Output line template (default "+formatter.DefaultTemplate+")")
	flags.StringVar(&colorMode, "color", "auto", "Color file names: auto, always or never")
	flags.BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
	flags.BoolVarP(&loadPackages, "packages", "p", false, "Treat paths as Go package patterns such as ./...")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(watchCmd)
}

func runSearch(ctx context.Context, cmd *cobra.Command, expr string, paths []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := grep.New(expr, config, logger)
	if err != nil {
		return err
	}

	f, err := newFormatter(config)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		_, err := grep.ProcessReader(logger, engine, grep.StdinName, cmd.InOrStdin(), cmd.OutOrStdout(), f)
		return err
	}

	sc, err := newScanner(config)
	if err != nil {
		return err
	}

	if loadPackages {
		if paths, err = expandPackages(ctx, paths); err != nil {
			return err
		}
	}

	var progress io.Writer
	if showProgress {
		progress = cmd.ErrOrStderr()
	}

	summary, err := grep.ProcessPaths(ctx, logger, engine, paths, cmd.OutOrStdout(), grep.Options{
		Workers:   config.Workers,
		Scanner:   sc,
		Formatter: f,
		Progress:  progress,
	})
	logger.Debug("search finished",
		zap.Int("files", summary.Files),
		zap.Int("matched", summary.Matched),
		zap.Int("failed", summary.Failed),
		zap.Int("lines", summary.Lines))
	return err
}

// loadConfig reads the configuration file, then applies the flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (grep.Config, error) {
	config := grep.DefaultConfig()

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(grep.DefaultConfigFile); err == nil {
			path = grep.DefaultConfigFile
		}
	}
	if path != "" {
		var err error
		if config, err = grep.LoadConfig(path); err != nil {
			return config, fmt.Errorf("error reading configuration file %s: %w", path, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		config.Extensions = normalizeExtensions(extensions)
	}
	if flags.Changed("ignore") {
		config.Ignore = nil
		for _, p := range strings.Split(ignorePaths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				config.Ignore = append(config.Ignore, p)
			}
		}
	}
	if flags.Changed("hidden") {
		config.Hidden = hidden
	}
	if flags.Changed("no-ignore") {
		config.NoIgnore = noIgnore
	}
	if flags.Changed("workers") {
		config.Workers = workers
	}
	if flags.Changed("multiline") {
		config.Multiline = multiline
	}
	if flags.Changed("format") {
		config.Format = outputFormat
	}
	return config, nil
}

// expandPackages replaces package patterns with the files they name.
func expandPackages(ctx context.Context, patterns []string) ([]string, error) {
	files, err := scanner.LoadPackages(ctx, "", patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", grep.ErrEnumerate, err)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func newScanner(config grep.Config) (*scanner.Scanner, error) {
	return scanner.New(scanner.Options{
		Extensions: config.Extensions,
		Ignore:     config.Ignore,
		Hidden:     config.Hidden,
		NoIgnore:   config.NoIgnore,
	})
}

func newFormatter(config grep.Config) (*formatter.LineFormatter, error) {
	var colorize bool
	switch colorMode {
	case "always":
		colorize = true
	case "never":
		colorize = false
	case "auto":
		colorize = !color.NoColor
	default:
		return nil, fmt.Errorf("invalid color mode %q: want auto, always or never", colorMode)
	}
	return formatter.New(config.Format, colorize)
}
