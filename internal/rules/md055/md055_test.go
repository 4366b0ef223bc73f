package md055_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md055"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md055.New(ctx)
	rulestest.Feed(ctx, []string{"pipe_table"}, a.Feed)
	return a.Finalize()
}

func TestConsistentTableOK(t *testing.T) {
	content := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	if v := run(t, content); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestInconsistentRowViolates(t *testing.T) {
	content := "| a | b |\n| - | - |\na | 2 |\n"
	v := run(t, content)
	if len(v) == 0 {
		t.Fatalf("got 0 violations, want at least 1")
	}
}

func TestMD055_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD055")
	if !ok {
		t.Fatal("MD055 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
