package md038_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md038"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md038.New(ctx)
	rulestest.Feed(ctx, []string{"inline"}, a.Feed)
	return a.Finalize()
}

func TestTightCodeSpanOK(t *testing.T) {
	if v := run(t, "use `code` here\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestSingleSpacePaddingOK(t *testing.T) {
	if v := run(t, "use ` code ` here\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestLeadingDoubleSpaceViolates(t *testing.T) {
	v := run(t, "use `  code` here\n")
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestWhitespaceOnlySpanOK(t *testing.T) {
	if v := run(t, "use `  ` here\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMD038_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD038")
	if !ok {
		t.Fatal("MD038 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
