// Package md029 implements the ordered-list-item-prefix rule: tree-sitter
// groups adjacent lists into one "list" node even when a human reader sees
// several separate lists, so this rule re-segments before checking numbering.
package md029

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

const (
	id    = "MD029"
	alias = "ol-prefix"
)

// Settings is MD029's configuration.
type Settings struct {
	Style string `koanf:"style"`
}

// DefaultSettings returns MD029's default configuration.
func DefaultSettings() Settings {
	return Settings{Style: "one_or_ordered"}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"ol"},
		Description:       "Ordered list item prefix",
		RuleType:          rules.RuleTypeDocument,
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
				"enum": []any{"one_or_ordered", "one", "zero", "ordered"},
			},
		},
		"additionalProperties": false,
	}
}

type item struct {
	node  cst.Node
	value int
}

type analyzer struct {
	ctx           rules.Context
	cfg           Settings
	violations    []rules.Violation
	documentStyle string // "" (unset), "one", "ordered"
	isZeroBased   bool
}

// New constructs the MD029 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "list" || !isOrderedList(n) {
		return
	}
	a.checkList(n)
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}

func isOrderedList(listNode cst.Node) bool {
	for i := 0; i < listNode.ChildCount(); i++ {
		c := listNode.Child(i)
		if c.Kind() != "list_item" {
			continue
		}
		for j := 0; j < c.ChildCount(); j++ {
			if c.Child(j).Kind() == "list_marker_dot" {
				return true
			}
		}
		return false
	}
	return false
}

func extractValue(source []byte, listItem cst.Node) (int, bool) {
	for i := 0; i < listItem.ChildCount(); i++ {
		c := listItem.Child(i)
		if c.Kind() != "list_marker_dot" {
			continue
		}
		text := strings.TrimSpace(string(source[c.StartByte():c.EndByte()]))
		text = strings.TrimSuffix(text, ".")
		v, err := strconv.Atoi(text)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func (a *analyzer) checkList(listNode cst.Node) {
	source := a.ctx.Source()

	var items []item
	for i := 0; i < listNode.ChildCount(); i++ {
		c := listNode.Child(i)
		if c.Kind() != "list_item" {
			continue
		}
		if v, ok := extractValue(source, c); ok {
			items = append(items, item{node: c, value: v})
		}
	}
	if len(items) == 0 {
		return
	}

	for _, logical := range a.splitIntoLogicalLists(items) {
		switch a.cfg.Style {
		case "one_or_ordered":
			a.checkWithDocumentStyle(logical)
		case "one":
			a.checkWithFixedStyle(logical, "one")
		case "zero":
			a.checkWithFixedStyle(logical, "zero")
		case "ordered":
			a.checkWithFixedStyle(logical, "ordered")
		}
	}
}

func (a *analyzer) splitIntoLogicalLists(items []item) [][]item {
	if len(items) <= 1 {
		return [][]item{items}
	}

	var lists [][]item
	var current []item

	for i, it := range items {
		current = append(current, it)

		shouldSplit := false
		if i < len(items)-1 {
			currentStartLine := it.node.StartPoint().Row
			nextStartLine := items[i+1].node.StartPoint().Row

			hasContentSep, hasBlank := a.analyzeLinesBetween(currentStartLine+1, nextStartLine)
			hasGap := items[i+1].value != it.value+1

			shouldSplit = hasContentSep || (hasBlank && hasGap)
		}

		if shouldSplit {
			lists = append(lists, current)
			current = nil
		}
	}
	if len(current) > 0 {
		lists = append(lists, current)
	}
	return lists
}

func (a *analyzer) analyzeLinesBetween(startLine, endLine int) (hasContentSeparation, hasBlankLines bool) {
	for line := startLine; line < endLine; line++ {
		text := a.ctx.Line(line)
		trimmed := strings.TrimSpace(text)

		if trimmed == "" {
			hasBlankLines = true
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "***") {
			hasContentSeparation = true
			return
		}
		if !strings.HasPrefix(text, " ") && !strings.HasPrefix(text, "\t") {
			hasContentSeparation = true
			return
		}
	}
	return
}

func isValidOrderedPattern(items []item) bool {
	if len(items) == 0 {
		return true
	}
	start := items[0].value
	if start > 1 {
		return false
	}
	for i, it := range items {
		if it.value != start+i {
			return false
		}
	}
	return true
}

func (a *analyzer) checkWithDocumentStyle(items []item) {
	isFirstMultiItemList := a.documentStyle == "" && len(items) >= 2

	if isFirstMultiItemList {
		first, second := items[0].value, items[1].value
		if second != 1 || first == 0 {
			a.documentStyle = "ordered"
			a.isZeroBased = first == 0
		} else {
			a.documentStyle = "one"
			a.isZeroBased = false
		}
	}

	effectiveStyle := a.documentStyle
	if effectiveStyle == "" {
		effectiveStyle = "ordered"
	}

	switch effectiveStyle {
	case "one":
		for _, it := range items {
			if it.value != 1 {
				a.violate(it.node, 1, it.value, a.styleExample(effectiveStyle))
			}
		}
	case "ordered":
		if len(items) == 0 {
			return
		}
		listStart := items[0].value

		if len(items) == 1 && !isFirstMultiItemList {
			if items[0].value != 1 {
				a.violate(items[0].node, 1, items[0].value, "1/1/1")
			}
			return
		}

		var expectedStart int
		if isFirstMultiItemList {
			expectedStart = listStart
		} else {
			validPattern := isValidOrderedPattern(items)
			zeroBasedPattern := listStart == 0 && validPattern
			switch {
			case zeroBasedPattern && a.isZeroBased:
				expectedStart = 1
			case validPattern:
				expectedStart = listStart
			default:
				expectedStart = 1
			}
		}

		expected := expectedStart
		for _, it := range items {
			if it.value != expected {
				a.violate(it.node, expected, it.value, a.styleExample(effectiveStyle))
			}
			expected++
		}
	}
}

func (a *analyzer) checkWithFixedStyle(items []item, style string) {
	if len(items) < 2 {
		return
	}

	var expected int
	switch style {
	case "one":
		expected = 1
	case "zero":
		expected = 0
	case "ordered":
		expected = items[0].value
	}

	for _, it := range items {
		shouldReport := false
		switch style {
		case "one":
			shouldReport = it.value != 1
		case "zero":
			shouldReport = it.value != 0
		case "ordered":
			shouldReport = it.value != expected
		}
		if shouldReport {
			a.violate(it.node, expected, it.value, a.styleExample(style))
		}
		if style == "ordered" {
			expected++
		}
	}
}

func (a *analyzer) styleExample(style string) string {
	switch style {
	case "one":
		return "1/1/1"
	case "ordered":
		if a.isZeroBased {
			return "0/1/2"
		}
		return "1/2/3"
	case "zero":
		return "0/0/0"
	default:
		return "1/1/1 or 1/2/3"
	}
}

func (a *analyzer) violate(n cst.Node, expected, actual int, styleExample string) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	msg := fmt.Sprintf("Ordered list item prefix [Expected: %d; Actual: %d; Style: %s]", expected, actual, styleExample)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, n)))
}
