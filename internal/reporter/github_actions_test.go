package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

func TestGitHubActionsReporterReport(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(headingRule(), "docs/a.md", "heading skipped", 1, 3),
	}
	meta := ReportMetadata{Severities: map[string]rules.Severity{"heading-increment": rules.SeverityWarning}}

	var buf bytes.Buffer
	r := NewGitHubActionsReporter(&buf)
	if err := r.Report(violations, nil, meta); err != nil {
		t.Fatalf("Report error: %v", err)
	}

	line := buf.String()
	if !strings.HasPrefix(line, "::warning ") {
		t.Fatalf("expected warning annotation, got: %s", line)
	}
	if !strings.Contains(line, "file=docs/a.md") {
		t.Errorf("missing file property: %s", line)
	}
	if !strings.Contains(line, "line=2") {
		t.Errorf("expected 1-based line=2, got: %s", line)
	}
	if !strings.Contains(line, "col=4") {
		t.Errorf("expected 1-based col=4, got: %s", line)
	}
	if !strings.Contains(line, "heading skipped") {
		t.Errorf("missing message: %s", line)
	}
}

func TestEscapeGitHubMessage(t *testing.T) {
	got := escapeGitHubMessage("100% done\r\nok")
	want := "100%25 done%0D%0Aok"
	if got != want {
		t.Errorf("escapeGitHubMessage = %q, want %q", got, want)
	}
}

func TestEscapeGitHubProperty(t *testing.T) {
	got := escapeGitHubProperty("a:b,c")
	want := "a%3Ab%2Cc"
	if got != want {
		t.Errorf("escapeGitHubProperty = %q, want %q", got, want)
	}
}
