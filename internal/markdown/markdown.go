// Package markdown is the sole concrete implementation of internal/cst's
// Parser/Tree/Node interfaces: it wraps the tree-sitter-markdown grammar
// behind the narrow contract the linting core consumes.
package markdown

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_markdown "github.com/tree-sitter-grammars/tree-sitter-markdown/bindings/go"

	"github.com/ekropotin/quickmark-go/internal/cst"
)

// node adapts *tree_sitter.Node to cst.Node.
type node struct {
	n *tree_sitter.Node
}

func wrap(n *tree_sitter.Node) cst.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

func (w node) Kind() string    { return w.n.Kind() }
func (w node) IsNamed() bool   { return w.n.IsNamed() }
func (w node) StartByte() int  { return int(w.n.StartByte()) }
func (w node) EndByte() int    { return int(w.n.EndByte()) }
func (w node) ChildCount() int { return int(w.n.ChildCount()) }

func (w node) StartPoint() cst.Point {
	p := w.n.StartPosition()
	return cst.Point{Row: int(p.Row), Column: int(p.Column)}
}

func (w node) EndPoint() cst.Point {
	p := w.n.EndPosition()
	return cst.Point{Row: int(p.Row), Column: int(p.Column)}
}

func (w node) Child(i int) cst.Node {
	return wrap(w.n.Child(uint(i)))
}

func (w node) NamedChildCount() int {
	return int(w.n.NamedChildCount())
}

func (w node) NamedChild(i int) cst.Node {
	return wrap(w.n.NamedChild(uint(i)))
}

// tree adapts *tree_sitter.Tree to cst.Tree.
type tree struct {
	t *tree_sitter.Tree
}

func (t tree) RootNode() cst.Node { return wrap(t.t.RootNode()) }
func (t tree) Close()             { t.t.Close() }

// Parser parses Markdown source with the tree-sitter-markdown block
// grammar. A Parser is not safe for concurrent use; callers analysing
// multiple documents concurrently should construct one Parser per
// goroutine or serialize calls to Parse.
type Parser struct {
	p *tree_sitter.Parser
}

// NewParser constructs a Parser bound to the Markdown block grammar.
func NewParser() (*Parser, error) {
	p := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(tree_sitter_markdown.Language())
	if err := p.SetLanguage(lang); err != nil {
		return nil, err
	}
	return &Parser{p: p}, nil
}

// Parse implements cst.Parser.
func (p *Parser) Parse(source []byte) (cst.Tree, error) {
	t := p.p.Parse(source, nil)
	return tree{t: t}, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.p.Close()
}

var _ cst.Parser = (*Parser)(nil)
