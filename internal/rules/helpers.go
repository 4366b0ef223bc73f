package rules

// CodeBlockLines returns the set of zero-based line indices covered by any
// indented or fenced code block in ctx. Every rule that needs to exclude
// code-block content reuses this helper instead of reimplementing the scan.
func CodeBlockLines(ctx Context) map[int]bool {
	lines := make(map[int]bool)
	for _, kind := range []string{"indented_code_block", "fenced_code_block"} {
		for _, rec := range ctx.NodesOfKind(kind) {
			for l := rec.StartLine; l <= rec.EndLine; l++ {
				lines[l] = true
			}
		}
	}
	return lines
}

// HTMLBlockLines returns the set of zero-based line indices covered by any
// HTML block in ctx.
func HTMLBlockLines(ctx Context) map[int]bool {
	lines := make(map[int]bool)
	for _, rec := range ctx.NodesOfKind("html_block") {
		for l := rec.StartLine; l <= rec.EndLine; l++ {
			lines[l] = true
		}
	}
	return lines
}
