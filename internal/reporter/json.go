package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files scanned.
	FilesScanned int `json:"files_scanned"`
	// RulesEnabled is the total number of rules that were active.
	RulesEnabled int `json:"rules_enabled"`
}

// JSONViolation is a single violation as rendered in JSON output, with its
// severity resolved alongside the rule/message/location fields that live on
// rules.Violation itself.
type JSONViolation struct {
	RuleID    string      `json:"rule_id"`
	RuleAlias string      `json:"rule_alias"`
	Message   string      `json:"message"`
	Severity  string      `json:"severity"`
	Range     rules.Range `json:"range"`
}

// FileResult contains the linting results for a single file.
type FileResult struct {
	File       string          `json:"file"`
	Violations []JSONViolation `json:"violations"`
}

// Summary contains aggregate statistics about violations.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Files    int `json:"files"`
}

// JSONReporter formats violations as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	byFile := make(map[string][]JSONViolation)
	filesOrder := make([]string, 0)

	for _, v := range SortViolations(violations) {
		file := filepath.ToSlash(v.FilePath)
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], JSONViolation{
			RuleID:    v.Rule.ID,
			RuleAlias: v.Rule.Alias,
			Message:   v.Message,
			Severity:  severityOf(metadata, v).String(),
			Range:     v.Range,
		})
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(violations, metadata, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:       file,
			Violations: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from violations.
func calculateSummary(violations []rules.Violation, metadata ReportMetadata, fileCount int) Summary {
	summary := Summary{
		Total: len(violations),
		Files: fileCount,
	}

	for _, v := range violations {
		switch severityOf(metadata, v) {
		case rules.SeverityError:
			summary.Errors++
		case rules.SeverityWarning:
			summary.Warnings++
		case rules.SeverityOff:
			// filtered out before rules ever run; should not occur
		}
	}

	return summary
}
