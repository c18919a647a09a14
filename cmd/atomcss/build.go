package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/yacobolo/atomcss"
)

// errStrict fails a strict build that produced diagnostics. The
// diagnostics themselves have already been printed.
var errStrict = errors.New("diagnostics reported in strict mode")

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Compile utility classes into a stylesheet",
	Long: `Scan the configured content files for utility classes and write the
stylesheet they need. Without --output the CSS is written to stdout.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

// addBuildFlags registers the build flags on cmd. The root command carries
// them too since it delegates to build.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "Stylesheet path (default: stdout)")
	f.StringSlice("content", nil, "Glob patterns of files to scan; prefix with ! to exclude")
	f.String("base-dir", ".", "Directory content globs, output and cache are relative to")
	f.String("dark-mode", "media", "Dark mode strategy: media|class")
	f.StringSlice("plugins", nil, "Plugins to enable (line-clamp)")
	f.StringSlice("safelist", nil, "Classes to always generate")
	f.Bool("minify", false, "Write minified CSS")
	f.Int("workers", 0, "Parallel workers (0 = number of CPUs)")
	f.String("cache", "", "Incremental cache file (disabled when empty)")
	f.String("diagnostics-format", "text", "Diagnostics format: text|json")
	f.Bool("strict", false, "Exit 1 when any diagnostic is reported (CI mode)")
	f.Int("max-same-diagnostics", 0, "Max repeated diagnostics to show (0=unlimited)")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config := buildConfig()
	opts := buildReportOptions()

	engine, err := atomcss.New(config, atomcss.WithLogger(newLogger(cmd.ErrOrStderr(), opts)))
	if err != nil {
		return err
	}

	result, err := engine.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if config.Output == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), result.CSS); err != nil {
			return fmt.Errorf("writing stylesheet: %w", err)
		}
	}

	if !opts.Quiet {
		if err := report(cmd, result, config.Output, opts); err != nil {
			return err
		}
	}

	if opts.Strict && len(result.Diagnostics) > 0 {
		return errStrict
	}
	return nil
}

func report(cmd *cobra.Command, result *atomcss.Result, output string, opts reportOptions) error {
	switch opts.Format {
	case "json":
		// JSON goes to stdout unless the stylesheet already does.
		w := cmd.OutOrStdout()
		if output == "" {
			w = cmd.ErrOrStderr()
		}
		if err := atomcss.WriteDiagnosticsJSON(w, result.Diagnostics); err != nil {
			return fmt.Errorf("writing diagnostics: %w", err)
		}
	case "text", "":
		reporter := NewReporter(cmd.ErrOrStderr(), opts)
		truncated := reporter.PrintDiagnostics(result.Diagnostics)
		reporter.PrintSummary(result, output, truncated)
	default:
		return fmt.Errorf("unknown diagnostics format %q (want text or json)", opts.Format)
	}
	return nil
}

// newLogger logs build progress to w: debug level with --verbose, warnings
// otherwise, nothing with --quiet.
func newLogger(w io.Writer, opts reportOptions) *slog.Logger {
	if opts.Quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
