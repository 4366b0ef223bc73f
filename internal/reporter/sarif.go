package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

// Default SARIF tool information.
const (
	defaultToolName = "quickmark"
	defaultToolURI  = "https://github.com/ekropotin/quickmark-go"
)

// SARIFReporter formats violations as SARIF (Static Analysis Results Interchange Format).
// SARIF is a standard format for static analysis tools, widely supported by CI/CD systems
// including GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	// Collect unique rule ids and files.
	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})

	for _, v := range violations {
		ruleSet[v.Rule.ID] = struct{}{}
		fileSet[filepath.ToSlash(v.FilePath)] = struct{}{}
	}

	ruleIDs := make([]string, 0, len(ruleSet))
	for id := range ruleSet {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	for _, id := range ruleIDs {
		run.AddRule(id)
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, v := range SortViolations(violations) {
		filePath := filepath.ToSlash(v.FilePath)

		result := sarif.NewRuleResult(v.Rule.ID).
			WithMessage(sarif.NewTextMessage(v.Message)).
			WithLevel(severityToSARIFLevel(severityOf(metadata, v)))

		region := sarif.NewRegion().
			WithStartLine(v.Range.Start.Line + 1).
			WithStartColumn(v.Range.Start.Character + 1)

		if v.Range.End.Line > v.Range.Start.Line ||
			(v.Range.End.Line == v.Range.Start.Line && v.Range.End.Character > v.Range.Start.Character) {
			region.WithEndLine(v.Range.End.Line + 1)
			region.WithEndColumn(v.Range.End.Character + 1)
		}

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
			WithRegion(region)

		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})

		run.AddResult(result)
	}

	report.AddRun(run)

	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps our Severity to SARIF levels.
// SARIF uses: "error", "warning", "note", "none"
func severityToSARIFLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return sarifLevelError
	case rules.SeverityWarning:
		return sarifLevelWarning
	case rules.SeverityOff:
		// filtered out before rules ever run; should not occur
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
