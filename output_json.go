package atomcss

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version     string       `json:"version"`
	Timestamp   string       `json:"timestamp"`
	Summary     JSONSummary  `json:"summary"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// JSONSummary contains high-level diagnostic counts
type JSONSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// WriteDiagnosticsJSON writes diagnostics as JSON for tooling.
func WriteDiagnosticsJSON(w io.Writer, diags []Diagnostic) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(diags))
}

func buildJSONOutput(diags []Diagnostic) JSONOutput {
	errs, warnings := CountSeverity(diags)
	if diags == nil {
		diags = []Diagnostic{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			Total:    len(diags),
			Errors:   errs,
			Warnings: warnings,
		},
		Diagnostics: diags,
	}
}
