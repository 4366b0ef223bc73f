package md001_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	_ "github.com/ekropotin/quickmark-go/internal/rules/md001"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md001"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md001.New(ctx)
	rulestest.Feed(ctx, []string{"atx_heading", "setext_heading"}, a.Feed)
	return a.Finalize()
}

func TestSkipLevel(t *testing.T) {
	content := "# Heading level 1\nsome text\n" +
		"## Heading level 2\nsome other text\n" +
		"#### Heading level 4\nfoobar\n" +
		"###### Heading level 6\n### Heading level 3\n"

	violations := run(t, content)
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(violations), violations)
	}
	if violations[0].Range.Start.Line != 4 {
		t.Errorf("violation[0] line = %d, want 4", violations[0].Range.Start.Line)
	}
	if violations[1].Range.Start.Line != 6 {
		t.Errorf("violation[1] line = %d, want 6", violations[1].Range.Start.Line)
	}
}

func TestNoViolation(t *testing.T) {
	content := "# Heading level 1\nsome text\n" +
		"## Heading level 2\nsome other text\n" +
		"### Heading level 3\nfoobar\n" +
		"#### Heading level 4\n##### Heading level 5\n###### Heading level 6\n"

	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestStartsNotAtLevel1(t *testing.T) {
	content := "## Heading level 2\nsome text\n" +
		"### Heading level 3\nsome other text\n" +
		"#### Heading level 4\nfoobar\n" +
		"##### Heading level 5\n###### Heading level 6\n# level 1\n"

	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMD001_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD001")
	if !ok {
		t.Fatal("MD001 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
