package rules

import "github.com/ekropotin/quickmark-go/internal/cst"

// NodeRange converts a parse-tree node's start/end points to a rules.Range,
// translating each byte column through ctx's UTF-16 conversion.
func NodeRange(ctx Context, n cst.Node) Range {
	start := n.StartPoint()
	end := n.EndPoint()
	return Range{
		Start: Position{Line: start.Row, Character: ctx.UTF16ColumnAt(start.Row, start.Column)},
		End:   Position{Line: end.Row, Character: ctx.UTF16ColumnAt(end.Row, end.Column)},
	}
}

// PointRange converts a pair of cst.Points to a rules.Range.
func PointRange(ctx Context, start, end cst.Point) Range {
	return Range{
		Start: Position{Line: start.Row, Character: ctx.UTF16ColumnAt(start.Row, start.Column)},
		End:   Position{Line: end.Row, Character: ctx.UTF16ColumnAt(end.Row, end.Column)},
	}
}

// LineRange builds a Range spanning [startCol, endCol) on a single line.
func LineRange(ctx Context, line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Character: ctx.UTF16ColumnAt(line, startCol)},
		End:   Position{Line: line, Character: ctx.UTF16ColumnAt(line, endCol)},
	}
}
