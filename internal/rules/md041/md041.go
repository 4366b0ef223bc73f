// Package md041 implements the first-line-heading rule: a document's first
// substantive element must be a top-level heading, unless a preamble is
// explicitly allowed or YAML front matter supplies an equivalent title.
// Front matter is read directly from the parser's "front_matter" node.
package md041

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD041"
	alias = "first-line-heading"
)

// Settings is MD041's configuration. FrontMatterTitle is a pointer so an
// explicit empty string (disable the front-matter title check) survives the
// zero-value merge in configutil.Resolve; nil means the default pattern.
type Settings struct {
	AllowPreamble    bool    `koanf:"allow_preamble"`
	FrontMatterTitle *string `koanf:"front_matter_title"`
	Level            int     `koanf:"level"`
}

// DefaultSettings returns MD041's default configuration.
func DefaultSettings() Settings {
	return Settings{Level: 1}
}

const defaultFrontMatterTitle = `^\s*title\s*[:=]`

func init() {
	rules.Register(rules.Descriptor{
		ID:          id,
		Alias:       alias,
		Tags:        []string{"headings"},
		Description: "First line in a file should be a top-level heading",
		RuleType:    rules.RuleTypeDocument,
		RequiredNodeKinds: []string{
			"atx_heading", "setext_heading", "paragraph", "list", "list_item",
			"indented_code_block", "fenced_code_block", "block_quote",
			"pipe_table", "thematic_break", "front_matter", "html_block",
		},
		DefaultSeverity: rules.SeverityError,
		New:             New,
		Schema:          schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"allow_preamble":     map[string]any{"type": "boolean"},
			"front_matter_title": map[string]any{"type": "string"},
			"level":              map[string]any{"type": "integer", "minimum": 1},
		},
		"additionalProperties": false,
	}
}

var contentKinds = map[string]bool{
	"paragraph":           true,
	"list":                true,
	"list_item":           true,
	"indented_code_block": true,
	"fenced_code_block":   true,
	"block_quote":         true,
	"pipe_table":          true,
	"thematic_break":      true,
}

type firstElementKind int

const (
	firstNone firstElementKind = iota
	firstHeading
	firstContent
)

type analyzer struct {
	ctx         rules.Context
	cfg         Settings
	titleRegex  *regexp.Regexp
	frontMatter cst.Node
	found       firstElementKind
	foundLevel  int
	foundNode   cst.Node
}

// New constructs the MD041 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	pattern := defaultFrontMatterTitle
	if cfg.FrontMatterTitle != nil {
		pattern = *cfg.FrontMatterTitle
	}
	var re *regexp.Regexp
	if pattern != "" {
		if compiled, err := regexp.Compile(pattern); err == nil {
			re = compiled
		}
	}
	return &analyzer{ctx: ctx, cfg: cfg, titleRegex: re}
}

func (a *analyzer) Feed(n cst.Node) {
	if n.Kind() == "front_matter" {
		a.frontMatter = n
		return
	}
	if a.found != firstNone {
		return
	}
	if a.shouldIgnore(n) {
		return
	}

	if level, ok := mdutil.HeadingLevel(n); ok {
		a.found = firstHeading
		a.foundLevel = level
		a.foundNode = n
		return
	}

	if contentKinds[n.Kind()] {
		a.found = firstContent
		a.foundNode = n
	}
}

func (a *analyzer) shouldIgnore(n cst.Node) bool {
	if a.frontMatter != nil && n.StartByte() < a.frontMatter.EndByte() {
		return true
	}
	if n.Kind() == "html_block" {
		text := mdutil.Text(a.ctx.Source(), n)
		if strings.HasPrefix(strings.TrimSpace(text), "<!--") {
			return true
		}
	}
	return false
}

func (a *analyzer) frontMatterHasTitle() bool {
	if a.titleRegex == nil || a.frontMatter == nil {
		return false
	}
	text := mdutil.Text(a.ctx.Source(), a.frontMatter)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if strings.TrimSpace(line) == "---" {
			break
		}
		if a.titleRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func (a *analyzer) Finalize() []rules.Violation {
	if a.frontMatterHasTitle() {
		return nil
	}

	ref := rules.RuleRef{ID: id, Alias: alias}

	switch a.found {
	case firstHeading:
		if a.foundLevel != a.cfg.Level {
			msg := fmt.Sprintf("Expected first heading to be level %d, but found level %d", a.cfg.Level, a.foundLevel)
			return []rules.Violation{rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, a.foundNode))}
		}
	case firstContent:
		if !a.cfg.AllowPreamble {
			return []rules.Violation{rules.NewRangeViolation(ref, a.ctx.FilePath(), "First line in a file should be a top-level heading", rules.NodeRange(a.ctx, a.foundNode))}
		}
	}
	return nil
}
