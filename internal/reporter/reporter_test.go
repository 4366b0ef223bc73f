package reporter

import (
	"testing"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

func headingRule() rules.RuleRef {
	return rules.RuleRef{ID: "MD001", Alias: "heading-increment"}
}

func boldRule() rules.RuleRef {
	return rules.RuleRef{ID: "MD003", Alias: "heading-style"}
}

func TestSortViolations(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(boldRule(), "b.md", "second", 2, 0),
		rules.NewViolation(headingRule(), "a.md", "third", 0, 5),
		rules.NewViolation(headingRule(), "a.md", "first", 0, 0),
	}

	sorted := SortViolations(violations)

	if sorted[0].FilePath != "a.md" || sorted[0].Message != "first" {
		t.Fatalf("expected a.md/first first, got %+v", sorted[0])
	}
	if sorted[1].Message != "third" {
		t.Fatalf("expected third second, got %+v", sorted[1])
	}
	if sorted[2].FilePath != "b.md" {
		t.Fatalf("expected b.md last, got %+v", sorted[2])
	}
}

func TestSeverityOfFallsBackToError(t *testing.T) {
	v := rules.NewViolation(headingRule(), "a.md", "msg", 0, 0)

	if got := severityOf(ReportMetadata{}, v); got != rules.SeverityError {
		t.Errorf("severityOf with no metadata = %v, want error", got)
	}

	meta := ReportMetadata{Severities: map[string]rules.Severity{"heading-increment": rules.SeverityWarning}}
	if got := severityOf(meta, v); got != rules.SeverityWarning {
		t.Errorf("severityOf = %v, want warning", got)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":               FormatText,
		"text":           FormatText,
		"json":           FormatJSON,
		"sarif":          FormatSARIF,
		"github-actions": FormatGitHubActions,
		"github":         FormatGitHubActions,
		"markdown":       FormatMarkdown,
		"md":             FormatMarkdown,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		if err != nil {
			t.Fatalf("ParseFormat(%q) error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseFormat("bogus"); err == nil {
		t.Fatal("ParseFormat(\"bogus\") expected error, got nil")
	}
}

func TestNewDispatchesEveryFormat(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON, FormatSARIF, FormatGitHubActions, FormatMarkdown} {
		r, err := New(Options{Format: f})
		if err != nil {
			t.Fatalf("New(%q) error: %v", f, err)
		}
		if r == nil {
			t.Fatalf("New(%q) returned nil reporter", f)
		}
	}
}
