package md034_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md034"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md034.New(ctx)
	rulestest.Feed(ctx, []string{"inline"}, a.Feed)
	return a.Finalize()
}

func TestBareURLViolates(t *testing.T) {
	v := run(t, "Visit http://example.com for more.\n")
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestAutolinkOK(t *testing.T) {
	if v := run(t, "Visit <http://example.com> for more.\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMarkdownLinkOK(t *testing.T) {
	if v := run(t, "Visit [example](http://example.com) for more.\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMD034_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD034")
	if !ok {
		t.Fatal("MD034 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
