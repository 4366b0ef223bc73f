package md033_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md033"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string, allowed []string) []rules.Violation {
	t.Helper()
	var all map[string]map[string]any
	if allowed != nil {
		vals := make([]any, len(allowed))
		for i, e := range allowed {
			vals[i] = e
		}
		all = map[string]map[string]any{"no-inline-html": {"allowed_elements": vals}}
	}
	ctx, closeCtx := rulestest.ContextWithSettings(t, content, all)
	defer closeCtx()

	a := md033.New(ctx)
	rulestest.Feed(ctx, []string{"inline", "html_block"}, a.Feed)
	return a.Finalize()
}

func TestPlainTextOK(t *testing.T) {
	if v := run(t, "plain paragraph\n", nil); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestInlineTagViolates(t *testing.T) {
	v := run(t, "some <strong>text</strong>\n", nil)
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestAllowedElement(t *testing.T) {
	if v := run(t, "some <br> text\n", []string{"br"}); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMD033_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD033")
	if !ok {
		t.Fatal("MD033 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
