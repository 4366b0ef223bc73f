// Package rulestest builds a rules.Context from literal Markdown source for
// rule package unit tests, the same way internal/engine builds one for a
// real lint run, minus the orchestrator's traversal/dispatch machinery.
package rulestest

import (
	"testing"

	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/document"
	"github.com/ekropotin/quickmark-go/internal/markdown"
)

// Context parses content and returns a rules.Context plus a closer.
// Callers should defer the returned func to release the native tree.
func Context(tb testing.TB, content string) (*document.Context, func()) {
	tb.Helper()
	return ContextWithSettings(tb, content, nil)
}

// ContextWithSettings is Context, with settings installed under alias as if
// the document's resolved configuration carried `[linters.settings.<alias>]`.
func ContextWithSettings(tb testing.TB, content string, settings map[string]map[string]any) (*document.Context, func()) {
	tb.Helper()

	parser, err := markdown.NewParser()
	if err != nil {
		tb.Fatalf("rulestest: new parser: %v", err)
	}

	cfg := config.Default()
	cfg.Settings = settings

	ctx, err := document.Build("test.md", []byte(content), parser, cfg)
	if err != nil {
		parser.Close()
		tb.Fatalf("rulestest: build document: %v", err)
	}

	return ctx, func() {
		ctx.Close()
		parser.Close()
	}
}

// Feed drives a single analyser over ctx's tree with engine's own dispatch
// semantics: the synthetic document node always fires, every other node
// fires if its kind is in kinds or kinds is nil/empty (line/document rules,
// fed every node).
func Feed(ctx *document.Context, kinds []string, feed func(cst.Node)) {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	cst.Walk(ctx.Tree().RootNode(), func(n cst.Node) {
		if n.Kind() == cst.DocumentKind {
			feed(n)
			return
		}
		if len(want) == 0 || want[n.Kind()] {
			feed(n)
		}
	})
}
