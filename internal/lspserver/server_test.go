package lspserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	protocol "github.com/ekropotin/quickmark-go/internal/lsp/protocol"
	"github.com/ekropotin/quickmark-go/internal/rules"
)

func TestViolationRangeConversion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		rng      rules.Range
		expected protocol.Range
	}{
		{
			name: "point",
			rng:  rules.NewPointRange(0, 0),
			expected: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
		},
		{
			name: "span",
			rng: rules.Range{
				Start: rules.Position{Line: 2, Character: 5},
				End:   rules.Position{Line: 2, Character: 15},
			},
			expected: protocol.Range{
				Start: protocol.Position{Line: 2, Character: 5},
				End:   protocol.Position{Line: 2, Character: 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := rules.Violation{Range: tt.rng}
			got := violationRange(v)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSeverityConversion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, protocol.DiagnosticSeverityError, severityToLSP(rules.SeverityError))
	assert.Equal(t, protocol.DiagnosticSeverityWarning, severityToLSP(rules.SeverityWarning))
	assert.Equal(t, protocol.DiagnosticSeverityHint, severityToLSP(rules.SeverityOff))
}

func TestURIToPath(t *testing.T) {
	t.Parallel()
	path := uriToPath("file:///tmp/doc.md")
	assert.Equal(t, filepath.FromSlash("/tmp/doc.md"), path)
}

func TestConvertDiagnostics(t *testing.T) {
	t.Parallel()

	v := rules.NewViolation(rules.RuleRef{ID: "MD013", Alias: "line-length"}, "doc.md", "line too long", 4, 0)

	diags := convertDiagnostics([]rules.Violation{v}, nil)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	assert.Equal(t, "line too long", d.Message)
	assert.Equal(t, "line-length", *d.Code)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
}

func TestDocumentStore(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore()
	store.Open("file:///a.md", "markdown", 1, "# hi\n")
	doc := store.Get("file:///a.md")
	if doc == nil {
		t.Fatal("expected document to be open")
	}
	if doc.Content != "# hi\n" || doc.Version != 1 {
		t.Fatalf("unexpected document state: %+v", doc)
	}

	store.Update("file:///a.md", 2, "# hi there\n")
	doc = store.Get("file:///a.md")
	if doc.Version != 2 || doc.Content != "# hi there\n" {
		t.Fatalf("update did not apply: %+v", doc)
	}

	store.Close("file:///a.md")
	if store.Get("file:///a.md") != nil {
		t.Fatal("expected document to be closed")
	}
}
