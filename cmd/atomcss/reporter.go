package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yacobolo/atomcss"
)

// Reporter handles formatting and outputting build diagnostics
type Reporter struct {
	w         io.Writer
	useColors bool
	maxSame   int
}

// NewReporter creates a new reporter with the given options
func NewReporter(w io.Writer, opts reportOptions) *Reporter {
	return &Reporter{
		w:         w,
		useColors: shouldUseColors(opts.UseColors),
		maxSame:   opts.MaxSame,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Respect NO_COLOR (https://no-color.org)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY on stderr, where diagnostics go
	if fileInfo, err := os.Stderr.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// PrintDiagnostics outputs diagnostics as file:line: severity: message. It
// returns how many repeated diagnostics were left out.
func (r *Reporter) PrintDiagnostics(diags []atomcss.Diagnostic) int {
	shown, truncated := limitDiagnostics(diags, r.maxSame)
	for _, d := range shown {
		r.printDiagnostic(d)
	}
	return truncated
}

func (r *Reporter) printDiagnostic(d atomcss.Diagnostic) {
	location := d.Path + ":"
	if d.Line > 0 {
		location = fmt.Sprintf("%s:%d:", d.Path, d.Line)
	}

	style := StyleYellow
	if d.Severity == atomcss.SeverityError {
		style = StyleRed
	}

	fmt.Fprintf(r.w, "%s %s %s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		RenderStyle(style, d.Severity+":", r.useColors),
		d.Message)
}

// PrintSummary outputs the build outcome and the diagnostic counts
func (r *Reporter) PrintSummary(result *atomcss.Result, output string, truncated int) {
	errors, warnings := atomcss.CountSeverity(result.Diagnostics)

	target := "stdout"
	if output != "" {
		target = filepath.ToSlash(output)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(r.w, "")
	}

	fmt.Fprintf(r.w, "%s %s, %s from %s (%d cached) in %s\n",
		RenderStyle(StyleGreen, "Built "+target+":", r.useColors),
		pluralizeCount(result.Rules, "rule", "rules"),
		pluralizeCount(result.Tokens, "class", "classes"),
		pluralizeCount(result.FilesScanned, "file", "files"),
		result.CacheHits,
		result.Duration.Round(time.Millisecond))

	if errors == 0 && warnings == 0 {
		return
	}

	if truncated > 0 {
		fmt.Fprintf(r.w, "%s, %s (%s truncated)\n",
			pluralizeCount(errors, "error", "errors"),
			pluralizeCount(warnings, "warning", "warnings"),
			pluralizeCount(truncated, "diagnostic", "diagnostics"))
	} else {
		fmt.Fprintf(r.w, "%s, %s\n",
			pluralizeCount(errors, "error", "errors"),
			pluralizeCount(warnings, "warning", "warnings"))
	}
}

// limitDiagnostics keeps at most maxSame diagnostics per message text.
// Zero means unlimited.
func limitDiagnostics(diags []atomcss.Diagnostic, maxSame int) ([]atomcss.Diagnostic, int) {
	if maxSame <= 0 {
		return diags, 0
	}

	messageCounts := make(map[string]int)
	var filtered []atomcss.Diagnostic
	for _, d := range diags {
		if messageCounts[d.Message] < maxSame {
			filtered = append(filtered, d)
		}
		messageCounts[d.Message]++
	}

	return filtered, len(diags) - len(filtered)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
