package md004_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md004"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md004.New(ctx)
	rulestest.Feed(ctx, []string{"list"}, a.Feed)
	return a.Finalize()
}

func TestConsistentAsteriskOK(t *testing.T) {
	content := "* Item 1\n* Item 2\n* Item 3\n"
	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMixedMarkersViolate(t *testing.T) {
	content := "* Item 1\n+ Item 2\n- Item 3\n"
	v := run(t, content)
	if len(v) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(v), v)
	}
}

func TestMD004_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD004")
	if !ok {
		t.Fatal("MD004 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
