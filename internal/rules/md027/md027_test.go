package md027_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md027"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md027.New(ctx)
	rulestest.Feed(ctx, nil, a.Feed)
	return a.Finalize()
}

func TestSingleSpaceOK(t *testing.T) {
	if v := run(t, "> quoted text\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestDoubleSpaceViolates(t *testing.T) {
	v := run(t, ">  quoted text\n")
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestMD027_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD027")
	if !ok {
		t.Fatal("MD027 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
