package md003_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md003"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string, settings map[string]any) []rules.Violation {
	t.Helper()
	var all map[string]map[string]any
	if settings != nil {
		all = map[string]map[string]any{"heading-style": settings}
	}
	ctx, closeCtx := rulestest.ContextWithSettings(t, content, all)
	defer closeCtx()

	a := md003.New(ctx)
	rulestest.Feed(ctx, []string{"atx_heading", "setext_heading"}, a.Feed)
	return a.Finalize()
}

func TestConsistentMixed(t *testing.T) {
	content := "\nSetext level 1\n--------------\nSetext level 2\n==============\n" +
		"### ATX header level 3\n#### ATX header level 4\n"

	violations := run(t, content, nil)
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(violations), violations)
	}
}

func TestConsistentAllSetext(t *testing.T) {
	content := "\nSetext level 1\n--------------\nSetext level 2\n==============\n"
	if v := run(t, content, nil); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestEnforcedATX(t *testing.T) {
	content := "# h1\n## h2 ##\n"
	violations := run(t, content, map[string]any{"style": "atx"})
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(violations), violations)
	}
}

func TestSetextWithATX(t *testing.T) {
	content := "Title\n=====\n### Section\n#### Sub ####\n"
	violations := run(t, content, map[string]any{"style": "setext_with_atx"})
	if len(violations) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(violations), violations)
	}
}

func TestMD003_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD003")
	if !ok {
		t.Fatal("MD003 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
