package md053_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md053"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md053.New(ctx)
	rulestest.Feed(ctx, []string{"inline", "paragraph", "link_reference_definition"}, a.Feed)
	return a.Finalize()
}

func TestUsedDefinitionOK(t *testing.T) {
	content := "[Good link][label]\n\n[label]: https://example.com\n"
	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestUnusedDefinitionViolates(t *testing.T) {
	content := "no references here\n\n[label]: https://example.com\n"
	v := run(t, content)
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestDuplicateDefinitionViolates(t *testing.T) {
	content := "[link][label]\n\n[label]: https://example.com/a\n[label]: https://example.com/b\n"
	v := run(t, content)
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestMD053_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD053")
	if !ok {
		t.Fatal("MD053 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
