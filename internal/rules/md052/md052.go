// Package md052 implements the reference-links-images rule: every reference
// link/image (`[text][label]`, `[label][]`, `[label]`) must have a matching
// `[label]: url` definition somewhere in the document; the shortcut form
// `[label]` is checked only when shortcut_syntax is enabled. Reference usages are
// found by a regex scan over "inline" node text, since no inline grammar is
// wired in; "paragraph" and "link_reference_definition" nodes supply the
// definitions to match against.
package md052

import (
	"regexp"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD052"
	alias = "reference-links-images"
)

// Settings is MD052's configuration.
type Settings struct {
	ShortcutSyntax bool     `koanf:"shortcut_syntax"`
	IgnoredLabels  []string `koanf:"ignored_labels"`
}

// DefaultSettings returns MD052's default configuration.
func DefaultSettings() Settings {
	return Settings{ShortcutSyntax: false}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"links", "images"},
		Description:       "Reference links and images should use a label that is defined",
		RuleType:          rules.RuleTypeDocument,
		RequiredNodeKinds: []string{"inline", "paragraph", "link_reference_definition"},
		DefaultSeverity:   rules.SeverityError,
		New:               New,
		Schema:            schema(),
	})
}

func schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"shortcut_syntax": map[string]any{"type": "boolean"},
			"ignored_labels": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"additionalProperties": false,
	}
}

var (
	fullReferencePattern      = regexp.MustCompile(`\[([^\]]*)\]\[([^\]]*)\]`)
	collapsedReferencePattern = regexp.MustCompile(`\[([^\]]+)\]\[\]`)
	shortcutReferencePattern  = regexp.MustCompile(`\[([^\]]+)\]`)
	referenceDefinitionLine   = regexp.MustCompile(`(?m)^\s*\[([^\]]+)\]:\s*`)
)

type reference struct {
	label      string
	isShortcut bool
	node       cst.Node
}

type analyzer struct {
	ctx         rules.Context
	cfg         Settings
	definitions map[string]bool
	references  []reference
}

// New constructs the MD052 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{ctx: ctx, cfg: cfg, definitions: map[string]bool{}}
}

func normalize(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

func (a *analyzer) Feed(n cst.Node) {
	switch n.Kind() {
	case "link_reference_definition":
		text := mdutil.Text(a.ctx.Source(), n)
		for _, m := range referenceDefinitionLine.FindAllStringSubmatch(text, -1) {
			a.definitions[normalize(m[1])] = true
		}
	case "paragraph":
		text := mdutil.Text(a.ctx.Source(), n)
		for _, m := range referenceDefinitionLine.FindAllStringSubmatch(text, -1) {
			a.definitions[normalize(m[1])] = true
		}
	case "inline":
		a.extractReferences(n)
	}
}

func (a *analyzer) extractReferences(n cst.Node) {
	text := mdutil.Text(a.ctx.Source(), n)
	if strings.Contains(text, "(") && strings.Contains(text, ")") {
		return
	}

	var found []reference

	for _, m := range fullReferencePattern.FindAllStringSubmatch(text, -1) {
		if m[2] != "" {
			found = append(found, reference{label: normalize(m[2]), node: n})
		}
	}

	for _, m := range collapsedReferencePattern.FindAllStringSubmatch(text, -1) {
		found = append(found, reference{label: normalize(m[1]), node: n})
	}

	if len(found) == 0 {
		for _, m := range shortcutReferencePattern.FindAllStringSubmatchIndex(text, -1) {
			remaining := strings.TrimLeft(text[m[1]:], " \t\r\n")
			if strings.HasPrefix(remaining, "[") {
				continue
			}
			found = append(found, reference{label: normalize(text[m[2]:m[3]]), isShortcut: true, node: n})
		}
	}

	a.references = append(a.references, found...)
}

func (a *analyzer) Finalize() []rules.Violation {
	ignored := map[string]bool{}
	for _, l := range a.cfg.IgnoredLabels {
		ignored[normalize(l)] = true
	}

	ref := rules.RuleRef{ID: id, Alias: alias}
	var violations []rules.Violation

	for _, r := range a.references {
		if r.isShortcut && !a.cfg.ShortcutSyntax {
			continue
		}
		if ignored[r.label] {
			continue
		}
		if a.definitions[r.label] {
			continue
		}
		violations = append(violations, rules.NewRangeViolation(ref, a.ctx.FilePath(), "Missing link or image reference definition: \""+r.label+"\"", rules.NodeRange(a.ctx, r.node)))
	}

	return violations
}
