// Package md034 implements the no-bare-urls rule: a URL or email address
// appearing as plain text, rather than wrapped in an autolink, a Markdown
// link, or a code span, should be flagged. The block grammar's "inline"
// node text is scanned directly with regular expressions rather than
// through a dedicated inline-AST parse.
package md034

import (
	"fmt"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD034"
	alias = "no-bare-urls"
)

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"links", "url"},
		Description:       "Bare URL used",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"inline"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
	})
}

type analyzer struct {
	ctx        rules.Context
	violations []rules.Violation
}

// New constructs the MD034 analyser.
func New(ctx rules.Context) rules.Analyzer {
	return &analyzer{ctx: ctx}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "inline" {
		return
	}
	text := mdutil.Text(a.ctx.Source(), n)
	codeSpans := mdutil.CodeSpanRanges(text)

	for _, match := range matchesOf(text) {
		start, end := match[0], match[1]
		if mdutil.InRange(codeSpans, start) {
			continue
		}
		if isWrapped(text, start, end) {
			continue
		}
		a.violate(n, text, start, end)
	}
}

func matchesOf(text string) [][2]int {
	var out [][2]int
	for _, m := range mdutil.URLPattern.FindAllStringIndex(text, -1) {
		out = append(out, [2]int{m[0], m[1]})
	}
	for _, m := range mdutil.EmailPattern.FindAllStringIndex(text, -1) {
		out = append(out, [2]int{m[0], m[1]})
	}
	return out
}

// isWrapped reports whether the match is already properly formatted:
// enclosed in <...>, inside a Markdown link's URL or visible-text position,
// or inside an href attribute.
func isWrapped(text string, start, end int) bool {
	if start > 0 && text[start-1] == '<' && end < len(text) && text[end] == '>' {
		return true
	}

	// Inside a link/image URL position: "](<url here>)".
	if start >= 2 {
		before := text[:start]
		if idx := strings.LastIndex(before, "]("); idx != -1 && !strings.Contains(before[idx:], ")") {
			return true
		}
	}

	// Inside a link's visible text: "[...<url>...](".
	closeParen := strings.Index(text[end:], "](")
	if closeParen != -1 {
		between := text[:start]
		openBracket := strings.LastIndex(between, "[")
		closeBracket := strings.LastIndex(between, "]")
		if openBracket != -1 && openBracket > closeBracket {
			return true
		}
	}

	// Inside an href="..." attribute.
	before := text[:start]
	if idx := strings.LastIndex(before, "href="); idx != -1 {
		tail := text[idx:start]
		if !strings.ContainsAny(tail, ">") {
			return true
		}
	}

	return false
}

func (a *analyzer) violate(n cst.Node, text string, start, end int) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	msg := fmt.Sprintf("Bare URL used [%s]", text[start:end])
	startPt := mdutil.OffsetPoint(n, text, start)
	endPt := mdutil.OffsetPoint(n, text, end)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
