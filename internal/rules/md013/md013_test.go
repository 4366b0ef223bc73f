package md013_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md013"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string, settings map[string]any) []rules.Violation {
	t.Helper()
	var all map[string]map[string]any
	if settings != nil {
		all = map[string]map[string]any{"line-length": settings}
	}
	ctx, closeCtx := rulestest.ContextWithSettings(t, content, all)
	defer closeCtx()

	a := md013.New(ctx)
	rulestest.Feed(ctx, nil, a.Feed)
	return a.Finalize()
}

func TestShortLinesOK(t *testing.T) {
	content := "short line\nanother short line\n"
	if v := run(t, content, nil); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestLongLineViolates(t *testing.T) {
	content := strings.Repeat("word ", 30) + "\n"
	v := run(t, content, map[string]any{"line_length": 20})
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestUnbreakableURLExempt(t *testing.T) {
	content := "http://" + strings.Repeat("a", 100) + "\n"
	v := run(t, content, map[string]any{"line_length": 20})
	if len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func longTableContent() string {
	pad := strings.Repeat("x", 30)
	return "| a | b " + pad + " |\n| - | - |\n| 1 | 2 |\n"
}

func TestTablesFalseExemptsLongTableRows(t *testing.T) {
	v := run(t, longTableContent(), map[string]any{"line_length": 20, "tables": false})
	if len(v) != 0 {
		t.Fatalf("got %d violations, want 0 (tables=false should exempt table rows): %+v", len(v), v)
	}
}

func TestTablesFalseStillChecksTableRowsByDefault(t *testing.T) {
	v := run(t, longTableContent(), map[string]any{"line_length": 20})
	if len(v) == 0 {
		t.Fatal("got 0 violations, want at least 1 (tables=true by default)")
	}
}

func TestStrictOverridesTablesFalse(t *testing.T) {
	v := run(t, longTableContent(), map[string]any{"line_length": 20, "tables": false, "strict": true})
	if len(v) == 0 {
		t.Fatal("got 0 violations, want at least 1 (strict must override tables=false)")
	}
}

func TestStrictOverridesHeadingsFalse(t *testing.T) {
	content := "# " + strings.Repeat("word ", 10) + "\n"
	v := run(t, content, map[string]any{"line_length": 20, "heading_line_length": 20, "headings": false, "strict": true})
	if len(v) == 0 {
		t.Fatal("got 0 violations, want at least 1 (strict must override headings=false)")
	}
}

func TestStrictViolatesEvenUnbreakableURL(t *testing.T) {
	content := "http://" + strings.Repeat("a", 100) + "\n"
	v := run(t, content, map[string]any{"line_length": 20, "strict": true})
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1 (strict has no unbreakable-URL exception): %+v", len(v), v)
	}
}

func TestSternViolatesOverflowWithSpaceRegardlessOfBlockContext(t *testing.T) {
	content := "# " + strings.Repeat("word ", 10) + "\n"
	v := run(t, content, map[string]any{"line_length": 20, "heading_line_length": 20, "headings": false, "stern": true})
	if len(v) == 0 {
		t.Fatal("got 0 violations, want at least 1 (stern must check regardless of block context)")
	}
}

func TestSternStillExemptsUnbreakableURL(t *testing.T) {
	content := "http://" + strings.Repeat("a", 100) + "\n"
	v := run(t, content, map[string]any{"line_length": 20, "stern": true})
	if len(v) != 0 {
		t.Fatalf("got %d violations, want 0 (stern keeps the unbreakable-overflow exception): %+v", len(v), v)
	}
}

func TestCodeBlocksFalseExemptsLongCodeLines(t *testing.T) {
	content := "```\n" + strings.Repeat("x", 100) + "\n```\n"
	v := run(t, content, map[string]any{"line_length": 20, "code_blocks": false})
	if len(v) != 0 {
		t.Fatalf("got %d violations, want 0 (code_blocks=false should exempt code lines): %+v", len(v), v)
	}
}

func TestHeadingLineLengthAppliesToHeadings(t *testing.T) {
	content := "# " + strings.Repeat("word ", 10) + "\n"
	v := run(t, content, map[string]any{"line_length": 1000, "heading_line_length": 10})
	if len(v) == 0 {
		t.Fatal("got 0 violations, want at least 1 (heading_line_length should apply to the heading line)")
	}
}

func TestMD013_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD013")
	if !ok {
		t.Fatal("MD013 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
