// Regex-over-node-text helpers for the rules that scan raw inline content
// rather than a parsed inline AST (MD033, MD034, MD038, MD045, MD052,
// MD053, MD054): bare URLs, inline HTML tags, code spans, and the four link
// reference syntaxes, all located within a block's raw source text.
package mdutil

import "regexp"

// URLPattern matches a bare http(s)/ftp URL.
var URLPattern = regexp.MustCompile(`\b(?:https?|ftp)://[^\s<>"')\]]+`)

// EmailPattern matches a bare email address.
var EmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// HTMLTagPattern matches an HTML start or end tag, capturing whether it is a
// closing tag and the element name.
var HTMLTagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)\b[^>]*>`)

// InlineLinkPattern matches `[text](url "title")` and `![alt](url "title")`.
var InlineLinkPattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]*)\)`)

// FullReferencePattern matches `[text][label]` and `![alt][label]`.
var FullReferencePattern = regexp.MustCompile(`(!?)\[([^\]]+)\]\[([^\]]+)\]`)

// CollapsedReferencePattern matches `[text][]` and `![alt][]`.
var CollapsedReferencePattern = regexp.MustCompile(`(!?)\[([^\]]+)\]\[\]`)

// ShortcutReferencePattern matches a bare `[text]`/`![alt]` not immediately
// followed by `(` or `[` (those are the other three variants).
var ShortcutReferencePattern = regexp.MustCompile(`(!?)\[([^\]]+)\](?:[^(\[]|$)`)

// AutolinkPattern matches `<http://example.com>` / `<user@example.com>`.
var AutolinkPattern = regexp.MustCompile(`<((?:https?|ftp)://[^\s<>]+|[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})>`)

// ReferenceDefinitionPattern matches a `[label]: target` line.
var ReferenceDefinitionPattern = regexp.MustCompile(`^\s*\[([^\]]+)\]:\s*(\S+)`)

// CodeSpanRanges returns the [start,end) byte ranges (within text) covered
// by backtick-delimited code spans: an opening run of backticks is closed by
// the next run of exactly the same length; an unmatched run covers nothing.
func CodeSpanRanges(text string) [][2]int {
	var ranges [][2]int
	i := 0
	for i < len(text) {
		if text[i] != '`' {
			i++
			continue
		}
		runStart := i
		for i < len(text) && text[i] == '`' {
			i++
		}
		tickLen := i - runStart
		closeIdx := indexRun(text, i, tickLen)
		if closeIdx == -1 {
			continue
		}
		ranges = append(ranges, [2]int{runStart, closeIdx + tickLen})
		i = closeIdx + tickLen
	}
	return ranges
}

func indexRun(text string, from, length int) int {
	target := make([]byte, length)
	for i := range target {
		target[i] = '`'
	}
	run := string(target)
	for i := from; i+length <= len(text); i++ {
		if text[i:i+length] == run {
			// reject if it's part of a longer run (would change the length)
			if i > from && text[i-1] == '`' {
				continue
			}
			if i+length < len(text) && text[i+length] == '`' {
				continue
			}
			return i
		}
	}
	return -1
}

// InRange reports whether pos falls within any of ranges.
func InRange(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}
