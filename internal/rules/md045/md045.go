// Package md045 implements the no-alt-text rule: every image, whether
// written as Markdown (`![alt](url)`, `![alt][ref]`, `![alt][]`) or raw HTML
// (`<img>`), must carry non-empty alternate text (unless explicitly hidden
// from assistive technology via `aria-hidden="true"`).
package md045

import (
	"regexp"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id          = "MD045"
	alias       = "no-alt-text"
	description = "Images should have alternate text (alt text)"
)

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"accessibility", "images"},
		Description:       description,
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"inline", "html_block"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
	})
}

var (
	imgTagPattern         = regexp.MustCompile(`(?is)<(/?)img\b[^>]*>`)
	altAttributePattern   = regexp.MustCompile(`(?is)\balt\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	ariaHiddenPattern     = regexp.MustCompile(`(?is)aria-hidden\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
	markdownImagePattern  = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	referenceImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\[([^\]]*)\]`)
	shortcutImagePattern  = regexp.MustCompile(`!\[([^\]]*)\]\[\]`)
	codeSpanWithImgRE     = regexp.MustCompile("^`[^`]*(?:<img|!\\[)[^`]*`\\s*(?:and\\s*`[^`]*(?:<img|!\\[)[^`]*`\\s*)*$")
)

type analyzer struct {
	ctx        rules.Context
	violations []rules.Violation
}

// New constructs the MD045 analyser.
func New(ctx rules.Context) rules.Analyzer {
	return &analyzer{ctx: ctx}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "inline" && n.Kind() != "html_block" {
		return
	}

	text := mdutil.Text(a.ctx.Source(), n)
	if codeSpanWithImgRE.MatchString(strings.TrimSpace(text)) {
		return
	}

	var ranges [][2]int
	if n.Kind() == "inline" {
		ranges = append(ranges, markdownImageViolations(text)...)
	}
	ranges = append(ranges, htmlImageViolations(text)...)

	for _, r := range ranges {
		a.violate(n, text, r[0], r[1])
	}
}

func markdownImageViolations(content string) [][2]int {
	var ranges [][2]int

	for _, m := range markdownImagePattern.FindAllStringSubmatchIndex(content, -1) {
		if m[2] == m[3] { // empty alt text
			ranges = append(ranges, [2]int{m[0], m[1]})
		}
	}
	for _, m := range referenceImagePattern.FindAllStringSubmatchIndex(content, -1) {
		if m[2] == m[3] {
			ranges = append(ranges, [2]int{m[0], m[1]})
		}
	}
	for _, m := range shortcutImagePattern.FindAllStringSubmatchIndex(content, -1) {
		if m[2] == m[3] {
			ranges = append(ranges, [2]int{m[0], m[1]})
		}
	}
	return ranges
}

func htmlImageViolations(content string) [][2]int {
	var ranges [][2]int

	for _, m := range imgTagPattern.FindAllStringIndex(content, -1) {
		tag := content[m[0]:m[1]]
		if strings.HasPrefix(tag, "</") {
			continue
		}

		if ariaCap := ariaHiddenPattern.FindStringSubmatch(tag); ariaCap != nil {
			value := firstNonEmpty(ariaCap[1], ariaCap[2], ariaCap[3])
			if strings.ToLower(value) == "true" {
				continue
			}
		}

		if altAttributePattern.MatchString(tag) {
			continue
		}

		ranges = append(ranges, [2]int{m[0], m[1]})
	}
	return ranges
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *analyzer) violate(n cst.Node, text string, start, end int) {
	ref := rules.RuleRef{ID: id, Alias: alias}
	startPt := mdutil.OffsetPoint(n, text, start)
	endPt := mdutil.OffsetPoint(n, text, end)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), description, rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
