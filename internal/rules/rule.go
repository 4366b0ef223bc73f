package rules

import "github.com/ekropotin/quickmark-go/internal/cst"

// RuleType classifies how an analyser consumes the traversal.
type RuleType int

const (
	// RuleTypeToken reacts to individual parse-tree nodes during traversal.
	RuleTypeToken RuleType = iota
	// RuleTypeLine ignores most nodes; it scans line-by-line once, triggered
	// by the synthetic "document" event.
	RuleTypeLine
	// RuleTypeDocument needs the whole tree indexed before it can decide;
	// its logic runs entirely in Finalize.
	RuleTypeDocument
	// RuleTypeHybrid mixes line-based scanning with AST-derived exclusion
	// zones.
	RuleTypeHybrid
)

func (t RuleType) String() string {
	switch t {
	case RuleTypeToken:
		return "token"
	case RuleTypeLine:
		return "line"
	case RuleTypeDocument:
		return "document"
	case RuleTypeHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Analyzer is the uniform per-rule object the orchestrator drives.
// Feed is called zero or more times during a single pre-order traversal;
// Finalize is called exactly once afterward and returns the analyser's
// violations in source order. An Analyzer is single-use: once Finalize
// returns, the instance is discarded.
type Analyzer interface {
	Feed(node cst.Node)
	Finalize() []Violation
}

// Context is the read-only per-document state an analyser factory
// closes over. internal/document.Context is the concrete implementation;
// this interface lives in internal/rules, not internal/document, so that
// internal/document never needs to import internal/rules.
type Context interface {
	FilePath() string
	Source() []byte
	Line(i int) string
	LineCount() int
	Tree() cst.Tree
	NodesOfKind(kind string) []cst.NodeRecord
	LeafKindAt(line int) string
	// Settings returns the raw `[linters.settings.<alias>]` table for alias,
	// or nil if the user configured none. Factories pass it to
	// configutil.Resolve alongside their rule's typed defaults.
	Settings(alias string) map[string]any
	// UTF16ColumnAt converts a byte offset within line to a zero-based
	// UTF-16 code-unit offset, the unit Position.Character uses.
	UTF16ColumnAt(line, byteCol int) int
}

// Factory constructs a new per-document analyser bound to ctx.
type Factory func(ctx Context) Analyzer

// Descriptor is an immutable, process-lifetime rule-catalogue entry.
type Descriptor struct {
	ID                string
	Alias             string
	Tags              []string
	Description       string
	RuleType          RuleType
	RequiredNodeKinds []string
	DefaultSeverity   Severity
	New               Factory
	// Schema is a JSON Schema describing the shape of this rule's
	// `[linters.settings.<alias>]` table. Nil means the rule accepts any
	// settings shape (or takes no settings at all); config.Parse/ParseFile
	// validate a non-nil Schema against the raw settings table via
	// configutil.ValidateWithSchema before the rule's factory decodes it.
	Schema map[string]any
}

func (d Descriptor) Ref() RuleRef {
	return RuleRef{ID: d.ID, Alias: d.Alias}
}

// RuleMetadata is the static, serializable view of a Descriptor: everything
// the catalogue records about a rule except its factory and schema. Rule
// packages snapshot it in their metadata tests so an accidental change to a
// registered id, alias, or dispatch set shows up as a snapshot diff.
type RuleMetadata struct {
	ID                string
	Alias             string
	Tags              []string
	Description       string
	RuleType          string
	RequiredNodeKinds []string
	DefaultSeverity   Severity
}

// Metadata returns the descriptor's static information.
func (d Descriptor) Metadata() RuleMetadata {
	return RuleMetadata{
		ID:                d.ID,
		Alias:             d.Alias,
		Tags:              d.Tags,
		Description:       d.Description,
		RuleType:          d.RuleType.String(),
		RequiredNodeKinds: d.RequiredNodeKinds,
		DefaultSeverity:   d.DefaultSeverity,
	}
}
