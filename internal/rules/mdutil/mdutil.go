// Package mdutil collects small, tree-shape-aware helpers shared by several
// internal/rules/mdNNN packages: heading-level/closed-ATX detection, node
// text extraction, and the other bits every rule working over the
// tree-sitter-markdown block grammar would otherwise reimplement.
package mdutil

import (
	"strings"
	"unicode"

	"github.com/ekropotin/quickmark-go/internal/cst"
)

// Text returns the raw source slice a node covers.
func Text(source []byte, n cst.Node) string {
	return string(source[n.StartByte():n.EndByte()])
}

// HeadingLevel returns the level (1-6) of an atx_heading or setext_heading
// node. setext headings are always level 1 or 2; ok is false for any other
// node kind or an atx heading whose marker child is missing.
func HeadingLevel(n cst.Node) (level int, ok bool) {
	switch n.Kind() {
	case "atx_heading":
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if l, found := atxMarkerLevel(c.Kind()); found {
				return l, true
			}
		}
		return 0, false
	case "setext_heading":
		for i := 0; i < n.ChildCount(); i++ {
			switch n.Child(i).Kind() {
			case "setext_h1_underline":
				return 1, true
			case "setext_h2_underline":
				return 2, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// IsSetext reports whether n is a setext_heading node.
func IsSetext(n cst.Node) bool {
	return n.Kind() == "setext_heading"
}

func atxMarkerLevel(kind string) (int, bool) {
	switch kind {
	case "atx_h1_marker":
		return 1, true
	case "atx_h2_marker":
		return 2, true
	case "atx_h3_marker":
		return 3, true
	case "atx_h4_marker":
		return 4, true
	case "atx_h5_marker":
		return 5, true
	case "atx_h6_marker":
		return 6, true
	default:
		return 0, false
	}
}

// IsClosedATX reports whether an ATX heading's trimmed source text ends with
// a `#` after its content.
func IsClosedATX(source []byte, n cst.Node) bool {
	text := strings.TrimRight(Text(source, n), " \t\r\n")
	return strings.HasSuffix(text, "#")
}

// HeadingInlineText returns an ATX/setext heading's visible text: the source
// between the leading marker/spaces and (for ATX) any trailing closing run
// of `#`.
func HeadingInlineText(source []byte, n cst.Node) string {
	raw := Text(source, n)
	switch n.Kind() {
	case "atx_heading":
		trimmed := strings.TrimLeft(raw, "#")
		trimmed = strings.TrimRight(trimmed, " \t\r\n")
		trimmed = strings.TrimSpace(trimmed)
		// strip a trailing closing ATX run, e.g. "Title ###"
		for len(trimmed) > 0 && trimmed[len(trimmed)-1] == '#' {
			trimmed = strings.TrimRight(trimmed[:len(trimmed)-1], " \t#")
		}
		return strings.TrimSpace(trimmed)
	case "setext_heading":
		lines := strings.SplitN(raw, "\n", 2)
		if len(lines) == 0 {
			return ""
		}
		return strings.TrimSpace(lines[0])
	default:
		return strings.TrimSpace(raw)
	}
}

// Slug implements MD051's GitHub heading-anchor algorithm: lower case; keep
// only letters, digits, `-`, `_`; spaces become `-`; leading and trailing
// `-` are stripped.
func Slug(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case isAlnumRune(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('-')
		}
	}

	return strings.Trim(b.String(), "-")
}

func isAlnumRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') || unicodeIsDigitOrLetter(r)
}

func unicodeIsDigitOrLetter(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ListMarkerKind classifies a list_marker_* node's bullet character, or ""
// if n is not an unordered list marker.
func ListMarkerKind(n cst.Node) string {
	switch n.Kind() {
	case "list_marker_minus":
		return "-"
	case "list_marker_plus":
		return "+"
	case "list_marker_star":
		return "*"
	default:
		return ""
	}
}

// OffsetPoint translates a byte offset within n's own text back to an
// absolute (row, column) position, accounting for any newlines the offset
// crosses. column is a byte column, matching cst.Point's convention.
func OffsetPoint(n cst.Node, text string, offset int) cst.Point {
	start := n.StartPoint()
	prefix := text[:offset]
	if idx := strings.LastIndexByte(prefix, '\n'); idx != -1 {
		row := start.Row + strings.Count(prefix, "\n")
		return cst.Point{Row: row, Column: offset - idx - 1}
	}
	return cst.Point{Row: start.Row, Column: start.Column + offset}
}

// FirstChildOfKinds returns the first child of n whose kind is in kinds, or
// nil.
func FirstChildOfKinds(n cst.Node, kinds ...string) cst.Node {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if want[c.Kind()] {
			return c
		}
	}
	return nil
}
