// Package md038 implements the no-space-in-code rule: a code span's content
// must not carry more than one leading or trailing whitespace character
// (CommonMark strips exactly one of each as span-delimiting padding).
package md038

import (
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id      = "MD038"
	alias   = "no-space-in-code"
	message = "Spaces inside code span elements"
)

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"whitespace", "code"},
		Description:       message,
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"inline"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
	})
}

type codeSpan struct {
	content    string
	start, end int // byte offsets within the node text, content only
}

type analyzer struct {
	ctx        rules.Context
	violations []rules.Violation
}

// New constructs the MD038 analyser.
func New(ctx rules.Context) rules.Analyzer {
	return &analyzer{ctx: ctx}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "inline" {
		return
	}
	text := mdutil.Text(a.ctx.Source(), n)
	for _, span := range findCodeSpans(text) {
		a.checkSpan(n, text, span)
	}
}

// findCodeSpans scans for backtick-delimited spans: a run of backticks
// delimits a span when a run of the same length closes it later in the
// text; unmatched opening runs are skipped rather than treated as spans.
func findCodeSpans(text string) []codeSpan {
	var spans []codeSpan
	i := 0
	for i < len(text) {
		if text[i] != '`' {
			i++
			continue
		}
		start := i
		openLen := 0
		for i < len(text) && text[i] == '`' {
			openLen++
			i++
		}
		contentStart := i
		found := false
		for i < len(text) {
			if text[i] != '`' {
				i++
				continue
			}
			closeStart := i
			closeLen := 0
			for i < len(text) && text[i] == '`' {
				closeLen++
				i++
			}
			if closeLen == openLen {
				spans = append(spans, codeSpan{
					content: text[contentStart:closeStart],
					start:   contentStart,
					end:     closeStart,
				})
				found = true
				break
			}
		}
		if !found {
			i = start + 1
		}
	}
	return spans
}

func (a *analyzer) checkSpan(n cst.Node, text string, span codeSpan) {
	if strings.TrimSpace(span.content) == "" {
		return
	}

	leading := leadingWhitespace(span.content)
	if leading != "" && leading != " " {
		a.violate(n, text, span.start, span.start+len(leading), "leading whitespace")
	}

	trailing := trailingWhitespace(span.content)
	if trailing != "" && trailing != " " {
		a.violate(n, text, span.end-len(trailing), span.end, "trailing whitespace")
	}
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return s[:i]
}

func trailingWhitespace(s string) string {
	i := len(s)
	for i > 0 && isSpaceByte(s[i-1]) {
		i--
	}
	return s[i:]
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func (a *analyzer) violate(n cst.Node, text string, start, end int, context string) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	startPt := mdutil.OffsetPoint(n, text, start)
	endPt := mdutil.OffsetPoint(n, text, end)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), message+" [Context: "+context+"]", rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
