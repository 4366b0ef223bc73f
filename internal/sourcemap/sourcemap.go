// Package sourcemap splits source text into lines once and answers
// line/offset/snippet queries in O(1), so every rule analyser and the
// document context built on top of it avoid rescanning the source.
package sourcemap

import (
	"bytes"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast snippet extraction.
//
// All line numbers are 0-based (matching tree-sitter/LSP conventions).
type SourceMap struct {
	// source is the raw source content.
	source []byte

	// lines are the individual lines (without line endings).
	lines []string

	// lineOffsets[i] is the byte offset where line i starts in source.
	// Used for computing column positions from byte offsets.
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	// Split into lines, preserving empty lines
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		// Trim \r from line endings (for Windows CRLF)
		lines[i] = strings.TrimSuffix(string(line), "\r")
		// Next line starts after this line + newline character
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// LineOffset returns the byte offset where a line starts (0-based).
// Returns -1 if line is out of range.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
// Returns empty string if range is invalid.
//
// Example:
//
//	sm.Snippet(2, 4) // Returns lines 2, 3, and 4 joined with newlines
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	// Clamp to valid range
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}

	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// SnippetAround extracts context lines around a target line.
// Returns (contextBefore + target + contextAfter) lines as a single string.
// The before/after counts are clamped to available lines.
//
// Example:
//
//	sm.SnippetAround(5, 2, 2) // Returns lines 3-7 (5 Â± 2)
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	startLine := line - before
	endLine := line + after
	return sm.Snippet(startLine, endLine)
}

// Source returns the raw source content.
// The returned slice should not be modified.
func (sm *SourceMap) Source() []byte {
	return sm.source
}

// UTF16ColumnAt converts a byte offset within a line to a zero-based
// UTF-16 code-unit offset, the unit violation ranges use so LSP clients
// don't need to recompute it. Rules compute byte offsets (cheap,
// source-local) and convert once at violation-construction time.
func (sm *SourceMap) UTF16ColumnAt(line, byteCol int) int {
	text := sm.Line(line)
	if byteCol > len(text) {
		byteCol = len(text)
	}
	units := 0
	for _, r := range text[:byteCol] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return units
}
