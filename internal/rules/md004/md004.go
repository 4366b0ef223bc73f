// Package md004 implements the ul-style rule: every unordered list item
// marker (*, +, -) in the document must use a consistent bullet character,
// per the configured style.
package md004

import (
	"fmt"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD004"
	alias = "ul-style"
)

// Settings is MD004's configuration.
type Settings struct {
	Style string `koanf:"style"`
}

// DefaultSettings returns MD004's default configuration.
func DefaultSettings() Settings {
	return Settings{Style: "consistent"}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"bullet", "ul"},
		Description:       "Unordered list style",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"list"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"style": map[string]any{
				"type": "string",
				"enum": []any{"consistent", "asterisk", "dash", "plus", "sublist"},
			},
		},
		"additionalProperties": false,
	}
}

var styleNames = map[byte]string{
	'*': "asterisk",
	'+': "plus",
	'-': "dash",
}

type marker struct {
	node cst.Node
	char byte
}

type analyzer struct {
	ctx           rules.Context
	cfg           Settings
	nestingStyles map[int]byte
	documentStyle *byte
	violations    []rules.Violation
}

// New constructs the MD004 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg, nestingStyles: map[int]byte{}}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "list" || !isUnorderedList(n) {
		return
	}
	a.checkList(n)
}

func isUnorderedList(list cst.Node) bool {
	for i := 0; i < list.ChildCount(); i++ {
		item := list.Child(i)
		if item.Kind() != "list_item" {
			continue
		}
		for j := 0; j < item.ChildCount(); j++ {
			child := item.Child(j)
			if k := mdutil.ListMarkerKind(child); k != "" {
				return true
			}
			if child.Kind() == "list_marker_dot" {
				return false
			}
		}
	}
	return false
}

func findListItemMarkers(list cst.Node) []marker {
	var markers []marker
	for i := 0; i < list.ChildCount(); i++ {
		item := list.Child(i)
		if item.Kind() != "list_item" {
			continue
		}
		for j := 0; j < item.ChildCount(); j++ {
			child := item.Child(j)
			if k := mdutil.ListMarkerKind(child); k != "" {
				markers = append(markers, marker{node: child, char: k[0]})
				break
			}
		}
	}
	return markers
}

// nestingLevel counts how many other "list" nodes strictly contain list's
// byte range, since cst.Node exposes no parent pointer to walk directly.
func nestingLevel(ctx rules.Context, list cst.Node) int {
	level := 0
	start, end := list.StartByte(), list.EndByte()
	for _, rec := range ctx.NodesOfKind("list") {
		if rec.StartByte < start && rec.EndByte > end {
			level++
		}
	}
	return level
}

func (a *analyzer) checkList(list cst.Node) {
	markers := findListItemMarkers(list)
	if len(markers) == 0 {
		return
	}

	level := nestingLevel(a.ctx, list)
	var expected byte

	switch a.cfg.Style {
	case "asterisk":
		expected = '*'
	case "dash":
		expected = '-'
	case "plus":
		expected = '+'
	case "sublist":
		if parent, ok := a.nestingStyles[level-1]; ok {
			expected = nextSublistMarker(parent)
		} else if len(markers) > 0 {
			expected = markers[0].char
		} else {
			expected = '*'
		}
		a.nestingStyles[level] = expected
	default: // consistent
		if a.documentStyle != nil {
			expected = *a.documentStyle
		} else {
			expected = markers[0].char
			a.documentStyle = &expected
		}
	}

	ref := rules.RuleRef{ID: id, Alias: alias}
	for _, m := range markers {
		if m.char != expected {
			msg := fmt.Sprintf("Unordered list style [Expected: %s; Actual: %s]", styleNames[expected], styleNames[m.char])
			a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, m.node)))
		}
	}
}

func nextSublistMarker(parent byte) byte {
	switch parent {
	case '*':
		return '+'
	case '+':
		return '-'
	case '-':
		return '*'
	default:
		return '*'
	}
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
