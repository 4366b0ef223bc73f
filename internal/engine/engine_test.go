package engine_test

import (
	"strings"
	"testing"

	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/engine"
	"github.com/ekropotin/quickmark-go/internal/markdown"
	"github.com/ekropotin/quickmark-go/internal/rules"
	_ "github.com/ekropotin/quickmark-go/internal/rules/allrules"
)

func analyse(t *testing.T, content string, cfg *config.Configuration) []rules.Violation {
	t.Helper()
	parser, err := markdown.NewParser()
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	defer parser.Close()

	if cfg == nil {
		cfg = config.Default()
	}
	v, err := engine.Analyse(rules.DefaultRegistry(), parser, "test.md", []byte(content), cfg)
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	return v
}

// Analysing the same document twice yields identical violations, sorted by
// (start line, start character, rule id).
func TestDeterministicOrdering(t *testing.T) {
	content := "Setext 1\n========\nSetext 2\n--------\n### ATX 3\n#### ATX 4\n"

	first := analyse(t, content, nil)
	second := analyse(t, content, nil)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic violation count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Rule != second[i].Rule || first[i].Range != second[i].Range {
			t.Fatalf("non-deterministic violation at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	for i := 1; i < len(first); i++ {
		a, b := first[i-1], first[i]
		if a.Range.Start.Line > b.Range.Start.Line {
			t.Fatalf("violations not sorted by start line: %+v before %+v", a, b)
		}
		if a.Range.Start.Line == b.Range.Start.Line {
			if a.Range.Start.Character > b.Range.Start.Character {
				t.Fatalf("violations not sorted by start character: %+v before %+v", a, b)
			}
			if a.Range.Start.Character == b.Range.Start.Character && a.Rule.ID > b.Rule.ID {
				t.Fatalf("violations not sorted by rule id: %+v before %+v", a, b)
			}
		}
	}
}

// Setting a rule's severity to off must remove every violation with that
// rule's alias, and only those.
func TestSeverityOffRemovesOnlyThatRulesViolations(t *testing.T) {
	content := "Setext 1\n========\nSetext 2\n--------\n### ATX 3\n#### ATX 4\n"

	baseline := analyse(t, content, nil)
	var md003Count int
	for _, v := range baseline {
		if v.Rule.Alias == "heading-style" {
			md003Count++
		}
	}
	if md003Count == 0 {
		t.Fatalf("expected baseline to contain MD003 violations, got none: %+v", baseline)
	}

	cfg := config.Default()
	cfg.Severity["heading-style"] = rules.SeverityOff
	filtered := analyse(t, content, cfg)

	for _, v := range filtered {
		if v.Rule.Alias == "heading-style" {
			t.Fatalf("expected no heading-style violations when off, got %+v", v)
		}
	}
	if len(filtered) != len(baseline)-md003Count {
		t.Fatalf("turning off heading-style changed unrelated violations: baseline=%d filtered=%d removed=%d",
			len(baseline), len(filtered), md003Count)
	}
}

func TestEmptyDocumentProducesNoViolations(t *testing.T) {
	if v := analyse(t, "", nil); len(v) != 0 {
		t.Fatalf("got %d violations for empty document, want 0: %+v", len(v), v)
	}
}

func TestEveryViolationRangePointsInsideDocument(t *testing.T) {
	content := "line A  \n\nline B  \ncontinues\n"
	v := analyse(t, content, nil)
	lineCount := len(splitLines(content))
	for _, viol := range v {
		if viol.Range.Start.Line < 0 || viol.Range.Start.Line >= lineCount {
			t.Fatalf("violation start line out of range: %+v", viol)
		}
		if _, ok := rules.DefaultRegistry().ByID(viol.Rule.ID); !ok {
			t.Fatalf("violation references unknown rule: %+v", viol)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func violationsFor(vs []rules.Violation, alias string) []rules.Violation {
	var out []rules.Violation
	for _, v := range vs {
		if v.Rule.Alias == alias {
			out = append(out, v)
		}
	}
	return out
}

func TestHeadingStyleConsistentScenario(t *testing.T) {
	content := "Setext 1\n========\nSetext 2\n--------\n### ATX 3\n#### ATX 4\n"

	got := violationsFor(analyse(t, content, nil), "heading-style")
	if len(got) != 2 {
		t.Fatalf("got %d heading-style violations, want 2: %+v", len(got), got)
	}
	wantLines := []int{4, 5}
	for i, v := range got {
		if v.Range.Start.Line != wantLines[i] {
			t.Errorf("violation %d on line %d, want %d", i, v.Range.Start.Line, wantLines[i])
		}
		if !strings.Contains(v.Message, "Expected: setext; Actual: atx") {
			t.Errorf("violation %d message = %q, want setext-vs-atx", i, v.Message)
		}
	}
}

func TestLineLengthScenarios(t *testing.T) {
	unbreakable := "https://" + strings.Repeat("x", 88) + "\n"
	if got := violationsFor(analyse(t, unbreakable, nil), "line-length"); len(got) != 0 {
		t.Fatalf("96-char unbreakable URL line: got %d violations, want 0: %+v", len(got), got)
	}

	breakable := strings.Repeat("a", 80) + " x\n"
	got := violationsFor(analyse(t, breakable, nil), "line-length")
	if len(got) != 1 {
		t.Fatalf("82-char breakable line: got %d violations, want 1: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Message, "Expected: <= 80; Actual: 82") {
		t.Errorf("message = %q, want Expected: <= 80; Actual: 82", got[0].Message)
	}
}

func TestTrailingSpacesStrictScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Settings = map[string]map[string]any{
		"trailing-spaces": {"strict": true, "br_spaces": 2},
	}

	content := "line A  \n\nline B  \ncontinues\n"
	got := violationsFor(analyse(t, content, cfg), "trailing-spaces")
	if len(got) != 1 {
		t.Fatalf("got %d trailing-spaces violations, want 1: %+v", len(got), got)
	}
	if got[0].Range.Start.Line != 2 {
		t.Errorf("violation on line %d, want 2 (hard break before a blank line is exempt)", got[0].Range.Start.Line)
	}
}

func TestOrderedListPrefixScenario(t *testing.T) {
	content := "1. a\n2. b\n3. c\n\n100. d\n101. e\n"
	got := violationsFor(analyse(t, content, nil), "ol-prefix")
	if len(got) != 2 {
		t.Fatalf("got %d ol-prefix violations, want 2: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Message, "Expected: 1; Actual: 100") {
		t.Errorf("first message = %q, want Expected: 1; Actual: 100", got[0].Message)
	}
	if !strings.Contains(got[1].Message, "Expected: 2; Actual: 101") {
		t.Errorf("second message = %q, want Expected: 2; Actual: 101", got[1].Message)
	}
	for _, v := range got {
		if !strings.Contains(v.Message, "Style: 1/2/3") {
			t.Errorf("message = %q, want Style: 1/2/3", v.Message)
		}
	}
}

func TestLinkFragmentsDuplicateSlugScenario(t *testing.T) {
	content := "# Foo Bar\n\n# Foo Bar\n\n[x](#foo-bar)\n[y](#foo-bar-1)\n[z](#foo-bar-2)\n"
	got := violationsFor(analyse(t, content, nil), "link-fragments")
	if len(got) != 1 {
		t.Fatalf("got %d link-fragments violations, want 1: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Message, "foo-bar-2") {
		t.Errorf("message = %q, want it to name foo-bar-2", got[0].Message)
	}
}

func TestBareURLScenario(t *testing.T) {
	content := "See https://x.example and [doc](https://ok.example) and <https://angle.example>.\n"
	got := violationsFor(analyse(t, content, nil), "no-bare-urls")
	if len(got) != 1 {
		t.Fatalf("got %d no-bare-urls violations, want 1: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Message, "https://x.example") {
		t.Errorf("message = %q, want it to name https://x.example", got[0].Message)
	}
}

func TestTrailingNewlineEquivalence(t *testing.T) {
	without := analyse(t, "# Title", nil)
	with := analyse(t, "# Title\n", nil)
	if len(without) != len(with) {
		t.Fatalf("trailing newline changed violation count: %d vs %d", len(without), len(with))
	}
	for i := range without {
		if without[i].Rule != with[i].Rule || without[i].Range != with[i].Range {
			t.Fatalf("trailing newline changed violation %d: %+v vs %+v", i, without[i], with[i])
		}
	}
}
