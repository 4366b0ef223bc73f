package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

// MarkdownReporter formats violations as concise markdown tables.
// Designed for AI agents working on documents - token-efficient and actionable.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	if len(violations) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	sorted := SortViolationsBySeverity(violations, metadata)

	for i := range sorted {
		sorted[i].FilePath = filepath.ToSlash(sorted[i].FilePath)
	}

	fileSet := make(map[string]struct{})
	for _, v := range sorted {
		fileSet[v.FilePath] = struct{}{}
	}
	fileCount := len(fileSet)

	if fileCount == 1 {
		var filename string
		for f := range fileSet {
			filename = f
		}
		return r.writeSingleFileTable(sorted, filename, metadata)
	}

	return r.writeMultiFileTable(sorted, fileCount, metadata)
}

// writeSingleFileTable writes a markdown table for violations in a single file.
func (r *MarkdownReporter) writeSingleFileTable(sorted []rules.Violation, filename string, metadata ReportMetadata) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** in `%s`\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), filename); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|-------|"); err != nil {
		return err
	}

	for _, v := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s %s |\n",
			formatLineNumber(v), severityEmoji(severityOf(metadata, v)), escapeMarkdown(v.Message)); err != nil {
			return err
		}
	}

	return nil
}

// writeMultiFileTable writes a markdown table for violations across multiple files.
func (r *MarkdownReporter) writeMultiFileTable(sorted []rules.Violation, fileCount int, metadata ReportMetadata) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** across %d files\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), fileCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| File | Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|-------|"); err != nil {
		return err
	}

	for _, v := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s %s |\n",
			v.FilePath, formatLineNumber(v), severityEmoji(severityOf(metadata, v)), escapeMarkdown(v.Message)); err != nil {
			return err
		}
	}

	return nil
}

// formatLineNumber returns the display string for a violation's line number.
func formatLineNumber(v rules.Violation) string {
	return strconv.Itoa(v.Range.Start.Line + 1)
}

// SortViolationsBySeverity sorts violations by severity (errors first), then by file and line.
// Uses stable sort to preserve original order for equal-priority items.
func SortViolationsBySeverity(violations []rules.Violation, metadata ReportMetadata) []rules.Violation {
	sorted := make([]rules.Violation, len(violations))
	copy(sorted, violations)

	sort.SliceStable(sorted, func(i, j int) bool {
		// shouldSwap returns true if i should come AFTER j,
		// so we invert arguments to get "less than" semantics
		return shouldSwap(sorted[j], sorted[i], metadata)
	})

	return sorted
}

// shouldSwap returns true if a should come after b in the sorted output.
func shouldSwap(a, b rules.Violation, metadata ReportMetadata) bool {
	aPriority := severityPriority(severityOf(metadata, a))
	bPriority := severityPriority(severityOf(metadata, b))
	if aPriority != bPriority {
		return aPriority > bPriority
	}

	if a.FilePath != b.FilePath {
		return a.FilePath > b.FilePath
	}

	return a.Range.Start.Line > b.Range.Start.Line
}

// severityPriority returns a numeric priority for sorting (lower = more severe).
func severityPriority(s rules.Severity) int {
	switch s {
	case rules.SeverityError:
		return 0
	case rules.SeverityWarning:
		return 1
	case rules.SeverityOff:
		return 2 // should never occur
	default:
		return 1
	}
}

// severityEmoji returns an emoji indicator for the severity level.
func severityEmoji(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "❌"
	case rules.SeverityWarning:
		return "⚠️"
	case rules.SeverityOff:
		return "⭕" // should never occur
	default:
		return "⚠️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break table formatting
	s = strings.ReplaceAll(s, "|", "\\|")
	// Replace newlines with spaces
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
