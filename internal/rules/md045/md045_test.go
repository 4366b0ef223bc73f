package md045_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/md045"
	"github.com/ekropotin/quickmark-go/internal/rules/rulestest"
)

func run(t *testing.T, content string) []rules.Violation {
	t.Helper()
	ctx, closeCtx := rulestest.Context(t, content)
	defer closeCtx()

	a := md045.New(ctx)
	rulestest.Feed(ctx, []string{"inline", "html_block"}, a.Feed)
	return a.Finalize()
}

func TestImageWithAltOK(t *testing.T) {
	if v := run(t, "![a cat](cat.png)\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestImageMissingAltViolates(t *testing.T) {
	v := run(t, "![](cat.png)\n")
	if len(v) != 1 {
		t.Fatalf("got %d violations, want 1: %+v", len(v), v)
	}
}

func TestHTMLImageAriaHiddenOK(t *testing.T) {
	if v := run(t, `<img src="cat.png" aria-hidden="true">`+"\n"); len(v) != 0 {
		t.Fatalf("got %d violations, want 0: %+v", len(v), v)
	}
}

func TestMD045_Metadata(t *testing.T) {
	t.Parallel()
	d, ok := rules.ByID("MD045")
	if !ok {
		t.Fatal("MD045 is not registered")
	}
	snaps.MatchStandaloneJSON(t, d.Metadata())
}
