// Package md051 implements the link-fragments rule: a link's `#fragment`
// must resolve to a heading-derived anchor, an explicit `{#custom-anchor}`,
// an HTML `id`/`name` attribute, or one of GitHub's reserved fragments
// (`#top`, `#L123`, line-range permalinks).
package md051

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
	id    = "MD051"
	alias = "link-fragments"
)

// Settings is MD051's configuration.
type Settings struct {
	IgnoreCase     bool   `koanf:"ignore_case"`
	IgnoredPattern string `koanf:"ignored_pattern"`
}

// DefaultSettings returns MD051's default configuration.
func DefaultSettings() Settings {
	return Settings{}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"links"},
		Description:       "Link fragments should be valid",
		RuleType:          rules.RuleTypeDocument,
		RequiredNodeKinds: []string{"inline", "atx_heading", "setext_heading", "html_block"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ignore_case":     map[string]any{"type": "boolean"},
			"ignored_pattern": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

var (
	linkWithFragmentPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*#[^)]*)\)`)
	rangeFragmentPattern    = regexp.MustCompile(`^L\d+(C\d+)?-L\d+(C\d+)?$`)
	lineFragmentPattern     = regexp.MustCompile(`^L\d+$`)
	idAttrPattern           = regexp.MustCompile(`id\s*=\s*["']([^"']+)["']`)
	nameAttrPattern         = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	customAnchorPattern     = regexp.MustCompile(`\{#([^}]+)\}`)
)

type linkFragment struct {
	fragment string
	node     cst.Node
}

type analyzer struct {
	ctx                     rules.Context
	cfg                     Settings
	validFragments          map[string]bool
	validFragmentsLowercase map[string]bool
	linkFragments           []linkFragment
}

// New constructs the MD051 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{
		ctx:                     ctx,
		cfg:                     cfg,
		validFragments:          map[string]bool{},
		validFragmentsLowercase: map[string]bool{},
	}
}

func (a *analyzer) addFragment(fragment string) {
	if fragment == "" {
		return
	}
	a.validFragments[fragment] = true
	a.validFragmentsLowercase[strings.ToLower(fragment)] = true
}

func (a *analyzer) Feed(n cst.Node) {
	switch n.Kind() {
	case "atx_heading", "setext_heading":
		a.feedHeading(n)
	case "inline", "html_block":
		a.feedInline(n)
	}
}

func (a *analyzer) feedHeading(n cst.Node) {
	text := mdutil.HeadingInlineText(a.ctx.Source(), n)
	if text == "" {
		return
	}

	if m := customAnchorPattern.FindStringSubmatchIndex(text); m != nil {
		anchor := text[m[2]:m[3]]
		a.addFragment(anchor)

		cleanText := strings.TrimSpace(text[:m[0]] + text[m[1]:])
		if cleanText != "" {
			a.addFragment(mdutil.Slug(cleanText))
		}
		return
	}

	fragment := mdutil.Slug(text)
	if fragment == "" {
		return
	}
	unique := fragment
	counter := 1
	for a.validFragments[unique] {
		unique = fmt.Sprintf("%s-%d", fragment, counter)
		counter++
	}
	a.addFragment(unique)
}

func (a *analyzer) feedInline(n cst.Node) {
	text := mdutil.Text(a.ctx.Source(), n)

	for _, m := range idAttrPattern.FindAllStringSubmatch(text, -1) {
		a.addFragment(m[1])
	}
	for _, m := range nameAttrPattern.FindAllStringSubmatch(text, -1) {
		a.addFragment(m[1])
	}

	if n.Kind() != "inline" {
		return
	}

	for _, m := range linkWithFragmentPattern.FindAllStringSubmatch(text, -1) {
		urlWithFragment := m[2]
		hashPos := strings.LastIndex(urlWithFragment, "#")
		if hashPos == -1 {
			continue
		}
		fragment := urlWithFragment[hashPos+1:]
		if fragment == "" || strings.Contains(fragment, " ") {
			continue
		}
		a.linkFragments = append(a.linkFragments, linkFragment{fragment: fragment, node: n})
	}
}

func isGitHubSpecialFragment(fragment string) bool {
	if fragment == "top" {
		return true
	}
	if lineFragmentPattern.MatchString(fragment) {
		return true
	}
	if rangeFragmentPattern.MatchString(fragment) {
		return true
	}
	return false
}

func (a *analyzer) Finalize() []rules.Violation {
	var ignoredRegex *regexp.Regexp
	if a.cfg.IgnoredPattern != "" {
		if re, err := regexp.Compile(a.cfg.IgnoredPattern); err == nil {
			ignoredRegex = re
		}
	}

	ref := rules.RuleRef{ID: id, Alias: alias}
	var violations []rules.Violation

	for _, lf := range a.linkFragments {
		if isGitHubSpecialFragment(lf.fragment) {
			continue
		}
		if ignoredRegex != nil && ignoredRegex.MatchString(lf.fragment) {
			continue
		}

		var valid bool
		if a.cfg.IgnoreCase {
			valid = a.validFragmentsLowercase[strings.ToLower(lf.fragment)]
		} else {
			valid = a.validFragments[lf.fragment]
		}
		if valid {
			continue
		}

		msg := fmt.Sprintf("Link fragment '%s' does not match any heading or anchor in the document", lf.fragment)
		violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, lf.node)))
	}

	return violations
}
