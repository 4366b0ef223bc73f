package md009_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md009"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md009.New(ctx)
	rulestest.Feed(ctx, nil, a.Feed)
	return a.Finalize()
}

func TestNoTrailingSpacesOK(t *testing.T) {
	content := "line one\nline two\n"
	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestHardBreakOK(t *testing.T) {
	content := "line one  \nline two\n"
	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestSingleTrailingSpaceViolates(t *testing.T) {
	content := "line one \nline two\n"
	v := run(t, content)
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestMD009_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD009")
	if !ok {
		t.Fatal("MD009 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
