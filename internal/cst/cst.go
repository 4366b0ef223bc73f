// Package cst defines the narrow interface the linting core consumes from
// whatever concrete-syntax-tree parser backs a document. The core never
// imports a parser package directly; it imports this package and the
// parser implementation satisfies it. internal/markdown is the only
// concrete implementation today.
package cst

// Point is a zero-based row/column position, matching tree-sitter's
// row/column convention (column counts bytes, not runes).
type Point struct {
	Row    int
	Column int
}

// Node is one node of a parsed tree. Implementations must be safe to retain
// byte ranges from (callers re-slice the source; they never copy node text
// unless a rule specifically needs it).
type Node interface {
	// Kind is the parser's node-kind string, e.g. "atx_heading", "paragraph".
	Kind() string

	// IsNamed reports whether this is a named (vs. anonymous/punctuation) node.
	IsNamed() bool

	StartByte() int
	EndByte() int
	StartPoint() Point
	EndPoint() Point

	ChildCount() int
	Child(i int) Node

	NamedChildCount() int
	NamedChild(i int) Node
}

// Tree is a parsed document. Close releases any native parser resources.
type Tree interface {
	RootNode() Node
	Close()
}

// Parser parses source bytes into a Tree.
type Parser interface {
	Parse(source []byte) (Tree, error)
}

// NodeRecord is the minimal per-node information the document context
// indexes by kind: start/end line (zero-based, inclusive) and start/end
// byte. Rules re-walk from these coordinates rather than cloning node text.
type NodeRecord struct {
	Node      Node
	StartLine int
	EndLine   int
	StartByte int
	EndByte   int
}

// DocumentKind is the synthetic root node-kind every tree exposes. Line- and
// document-typed rule analysers are dispatched exactly once against a node
// of this kind.
const DocumentKind = "document"

// Walk performs a deterministic pre-order traversal of tree, invoking visit
// for every node including the root. This is the traversal both the node
// cache builder (pass 1) and the orchestrator's dispatch pass (pass 2) use.
func Walk(root Node, visit func(Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := 0; i < root.ChildCount(); i++ {
		Walk(root.Child(i), visit)
	}
}
