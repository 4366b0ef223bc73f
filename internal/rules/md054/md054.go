// Package md054 implements the link-image-style rule: controls which styles
// of links and images (autolink, inline, full/collapsed/shortcut reference,
// and inline-with-matching-url-text) are allowed in a document. Each style
// is matched with a dedicated regular expression over an "inline" node's raw
// text, and matches are deduplicated by (kind, offset).
package md054

import (
	"regexp"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD054"
	alias = "link-image-style"
)

// Settings is MD054's configuration: each field enables (true) or forbids
// (false) the corresponding link/image style. The fields are pointers so an
// explicit `false` survives the zero-value merge in configutil.Resolve; nil
// means allowed.
type Settings struct {
	Autolink  *bool `koanf:"autolink"`
	Inline    *bool `koanf:"inline"`
	Full      *bool `koanf:"full"`
	Collapsed *bool `koanf:"collapsed"`
	Shortcut  *bool `koanf:"shortcut"`
	URLInline *bool `koanf:"url_inline"`
}

// DefaultSettings returns MD054's default configuration: every style allowed.
func DefaultSettings() Settings {
	return Settings{}
}

func allowed(v *bool) bool {
	return v == nil || *v
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"links", "images"},
		Description:       "Link and image style",
		RuleType:          rules.RuleTypeToken,
		RequiredNodeKinds: []string{"inline"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"autolink":   map[string]any{"type": "boolean"},
			"inline":     map[string]any{"type": "boolean"},
			"full":       map[string]any{"type": "boolean"},
			"collapsed":  map[string]any{"type": "boolean"},
			"shortcut":   map[string]any{"type": "boolean"},
			"url_inline": map[string]any{"type": "boolean"},
		},
		"additionalProperties": false,
	}
}

var (
	reInline = regexp.MustCompile(`(!\[([^\]]*)\]\(([^)]*)\))|((?:^|[^!])\[([^\]]*)\]\(([^)]*)\))`)

	reFullReference = regexp.MustCompile(`(!\[([^\]]*)\]\[([^\]]+)\])|((?:^|[^!])\[([^\]]*)\]\[([^\]]+)\])`)

	reCollapsedReference = regexp.MustCompile(`(!\[([^\]]+)\]\[\])|((?:^|[^!])\[([^\]]+)\]\[\])`)

	reShortcutReference = regexp.MustCompile(`(!\[([^\]]+)\])|((?:^|[^!])\[([^\]]+)\])`)

	reAutolink = regexp.MustCompile(`<(https?://[^>]+)>`)
)

type seenKey struct {
	kind  string
	start int
}

type analyzer struct {
	ctx        rules.Context
	cfg        Settings
	violations []rules.Violation
}

// New constructs the MD054 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() != "inline" {
		return
	}
	text := mdutil.Text(a.ctx.Source(), n)
	if text == "" {
		return
	}
	a.checkContent(n, text)
}

func (a *analyzer) checkContent(n cst.Node, content string) {
	seen := map[seenKey]bool{}

	if !allowed(a.cfg.Autolink) {
		for _, m := range reAutolink.FindAllStringIndex(content, -1) {
			a.report(n, content, seen, "autolink", m[0], "Autolinks are not allowed")
		}
	}

	for _, m := range reInline.FindAllStringSubmatchIndex(content, -1) {
		if m[2] >= 0 { // group 1: image `![]()`
			if !allowed(a.cfg.Inline) {
				a.report(n, content, seen, "inline_image", m[2], "Inline images are not allowed")
			}
			continue
		}
		if m[8] >= 0 { // group 4: link `[]()`
			linkText := content[m[8]:m[9]]
			start := m[8]
			if !strings.HasPrefix(linkText, "[") {
				start++
			}
			if !allowed(a.cfg.Inline) {
				a.report(n, content, seen, "inline_link", start, "Inline links are not allowed")
				continue
			}
			if !allowed(a.cfg.URLInline) && m[10] >= 0 && m[12] >= 0 {
				text := content[m[10]:m[11]]
				url := content[m[12]:m[13]]
				if text == url {
					a.report(n, content, seen, "url_inline", start, "Inline links with matching URL text are not allowed")
				}
			}
		}
	}

	if !allowed(a.cfg.Full) {
		for _, m := range reFullReference.FindAllStringSubmatchIndex(content, -1) {
			if m[2] >= 0 {
				a.report(n, content, seen, "full_image", m[2], "Full reference images are not allowed")
				continue
			}
			if m[8] >= 0 {
				linkText := content[m[8]:m[9]]
				start := m[8]
				if !strings.HasPrefix(linkText, "[") {
					start++
				}
				a.report(n, content, seen, "full_link", start, "Full reference links are not allowed")
			}
		}
	}

	if !allowed(a.cfg.Collapsed) {
		for _, m := range reCollapsedReference.FindAllStringSubmatchIndex(content, -1) {
			if m[2] >= 0 {
				a.report(n, content, seen, "collapsed_image", m[2], "Collapsed reference images are not allowed")
				continue
			}
			if m[6] >= 0 {
				linkText := content[m[6]:m[7]]
				start := m[6]
				if !strings.HasPrefix(linkText, "[") {
					start++
				}
				a.report(n, content, seen, "collapsed_link", start, "Collapsed reference links are not allowed")
			}
		}
	}

	if !allowed(a.cfg.Shortcut) {
		for _, m := range reShortcutReference.FindAllStringSubmatchIndex(content, -1) {
			end := m[1]
			if end < len(content) {
				next := content[end]
				if next == '(' || next == '[' {
					continue
				}
			}
			if m[2] >= 0 {
				a.report(n, content, seen, "shortcut_image", m[2], "Shortcut reference images are not allowed")
				continue
			}
			if m[6] >= 0 {
				linkText := content[m[6]:m[7]]
				start := m[6]
				if !strings.HasPrefix(linkText, "[") {
					start++
				}
				a.report(n, content, seen, "shortcut_link", start, "Shortcut reference links are not allowed")
			}
		}
	}
}

func (a *analyzer) report(n cst.Node, content string, seen map[seenKey]bool, kind string, start int, message string) {
	key := seenKey{kind, start}
	if seen[key] {
		return
	}
	seen[key] = true

	ref := rules.RuleRef{ID: id, Alias: alias}
	end := start + 1
	if end > len(content) {
		end = len(content)
	}
	startPt := mdutil.OffsetPoint(n, content, start)
	endPt := mdutil.OffsetPoint(n, content, end)
	a.violations = append(a.violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), message, rules.PointRange(a.ctx, startPt, endPt)))
}

func (a *analyzer) Finalize() []rules.Violation {
	return a.violations
}
