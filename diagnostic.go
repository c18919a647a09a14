package atomcss

import (
	"fmt"
	"sort"

	"github.com/yacobolo/atomcss/internal/scanner"
)

// Diagnostic is a non-fatal problem found during a build. A build with
// diagnostics still produces a stylesheet.
type Diagnostic struct {
	Path     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Token    string `json:"token,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Severity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// noteDiagnostic converts a scanner note for the file at path.
func noteDiagnostic(path string, n scanner.Note) Diagnostic {
	d := Diagnostic{Path: path, Line: n.Line, Token: n.Token, Severity: SeverityWarning}
	switch n.Verdict {
	case scanner.UnknownVariant:
		d.Message = fmt.Sprintf("unknown variant in %q", n.Token)
	case scanner.Malformed:
		d.Message = fmt.Sprintf("invalid arbitrary value in %q", n.Token)
	default:
		d.Message = fmt.Sprintf("%s class %q", n.Verdict, n.Token)
	}
	return d
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Token != b.Token {
			return a.Token < b.Token
		}
		return a.Message < b.Message
	})
}

// CountSeverity returns the number of diagnostics at each severity.
func CountSeverity(diags []Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
