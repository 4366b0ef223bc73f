// Package document builds the per-document context: the shared,
// read-only state every rule analyser consumes — source lines, the parsed
// tree, a per-node-kind position index, and the `line_to_leaf_kind` helper
// line-based rules use to contextualise a line's governing block.
//
// A Context is exclusively owned by internal/engine's orchestrator for the
// duration of one analysis; analysers only ever see it through the
// read-only internal/rules.Context interface.
package document

import (
	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/sourcemap"
)

var _ rules.Context = (*Context)(nil)

// blockKinds are the node kinds line_to_leaf_kind recognizes as a line's
// governing block. Pre-order traversal overwrites a line's recorded kind
// with every enclosing block it visits, so the last (deepest) one wins.
var blockKinds = map[string]bool{
	cst.DocumentKind:            true,
	"front_matter":              true,
	"block_quote":               true,
	"paragraph":                 true,
	"indented_code_block":       true,
	"fenced_code_block":         true,
	"atx_heading":               true,
	"setext_heading":            true,
	"thematic_break":            true,
	"html_block":                true,
	"link_reference_definition": true,
	"list":                      true,
	"list_item":                 true,
	"pipe_table":                true,
	"pipe_table_header":         true,
	"pipe_table_row":            true,
	"pipe_table_delimiter_row":  true,
	"blank_line":                true,
}

// Context is the concrete, per-document implementation of rules.Context.
type Context struct {
	filePath string
	source   []byte
	sm       *sourcemap.SourceMap
	tree     cst.Tree
	cfg      *config.Configuration

	nodesByKind    map[string][]cst.NodeRecord
	leafKindByLine []string
}

// Build parses source with parser and indexes the resulting tree: node
// records by kind, and the leaf-kind-by-line helper.
func Build(filePath string, source []byte, parser cst.Parser, cfg *config.Configuration) (*Context, error) {
	tr, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	sm := sourcemap.New(source)
	ctx := &Context{
		filePath:       filePath,
		source:         source,
		sm:             sm,
		tree:           tr,
		cfg:            cfg,
		nodesByKind:    make(map[string][]cst.NodeRecord),
		leafKindByLine: make([]string, sm.LineCount()),
	}
	for i := range ctx.leafKindByLine {
		ctx.leafKindByLine[i] = cst.DocumentKind
	}

	root := tr.RootNode()
	cst.Walk(root, func(n cst.Node) {
		rec := cst.NodeRecord{
			Node:      n,
			StartLine: n.StartPoint().Row,
			EndLine:   n.EndPoint().Row,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
		}
		ctx.nodesByKind[n.Kind()] = append(ctx.nodesByKind[n.Kind()], rec)

		if blockKinds[n.Kind()] {
			start, end := rec.StartLine, rec.EndLine
			if end >= len(ctx.leafKindByLine) {
				end = len(ctx.leafKindByLine) - 1
			}
			for line := start; line <= end && line >= 0; line++ {
				ctx.leafKindByLine[line] = n.Kind()
			}
		}
	})

	return ctx, nil
}

// Close releases the underlying parse tree's native resources.
func (c *Context) Close() {
	c.tree.Close()
}

func (c *Context) FilePath() string { return c.filePath }
func (c *Context) Source() []byte   { return c.source }
func (c *Context) Line(i int) string {
	return c.sm.Line(i)
}
func (c *Context) LineCount() int { return c.sm.LineCount() }
func (c *Context) Tree() cst.Tree { return c.tree }

// NodesOfKind returns every indexed node record for kind, in document
// (pre-order traversal) order, or nil if no node of that kind occurred.
func (c *Context) NodesOfKind(kind string) []cst.NodeRecord {
	return c.nodesByKind[kind]
}

// LeafKindAt returns the most specific block-level node-kind covering line,
// or cst.DocumentKind if line is out of range or covered by no narrower
// block.
func (c *Context) LeafKindAt(line int) string {
	if line < 0 || line >= len(c.leafKindByLine) {
		return cst.DocumentKind
	}
	return c.leafKindByLine[line]
}

// Settings returns the raw `[linters.settings.<alias>]` table for alias.
func (c *Context) Settings(alias string) map[string]any {
	if c.cfg == nil {
		return nil
	}
	return c.cfg.Settings[alias]
}

// UTF16ColumnAt converts a byte offset within line to a zero-based UTF-16
// code-unit offset.
func (c *Context) UTF16ColumnAt(line, byteCol int) int {
	return c.sm.UTF16ColumnAt(line, byteCol)
}
