// Package md053 implements the link-image-reference-definitions rule:
// `[label]: url` definitions must be referenced by at least one link or
// image, and a label must not be defined more than once. Reference usages
// are found by a regex scan over "inline" node text, since no inline
// grammar is wired in.
package md053

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

const (
	id    = "MD053"
	alias = "link-image-reference-definitions"
)

// Settings is MD053's configuration.
type Settings struct {
	IgnoredDefinitions []string `koanf:"ignored_definitions"`
}

// DefaultSettings returns MD053's default configuration.
func DefaultSettings() Settings {
	return Settings{}
}

func init() {
	rules.Register(rules.Descriptor{
		ID:                id,
		Alias:             alias,
		Tags:              []string{"links", "images"},
		Description:       "Link and image reference definitions should be needed",
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
			"ignored_definitions": map[string]any{
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

type definition struct {
	label string
	node  cst.Node
}

type analyzer struct {
	ctx         rules.Context
	cfg         Settings
	definitions map[string][]definition
	references  map[string]bool
}

// New constructs the MD053 analyser.
func New(ctx rules.Context) rules.Analyzer {
	cfg := configutil.Resolve(ctx.Settings(alias), DefaultSettings())
	return &analyzer{
		ctx:         ctx,
		cfg:         cfg,
		definitions: map[string][]definition{},
		references:  map[string]bool{},
	}
}

func normalize(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

func (a *analyzer) Feed(n cst.Node) {
	switch n.Kind() {
	case "link_reference_definition":
		text := mdutil.Text(a.ctx.Source(), n)
		for _, m := range referenceDefinitionLine.FindAllStringSubmatch(text, -1) {
			label := normalize(m[1])
			a.definitions[label] = append(a.definitions[label], definition{label: label, node: n})
		}
	case "paragraph", "inline":
		a.extractReferences(n)
	}
}

func (a *analyzer) extractReferences(n cst.Node) {
	text := mdutil.Text(a.ctx.Source(), n)
	if strings.Contains(text, "(") && strings.Contains(text, ")") {
		return
	}

	var found []string

	for _, m := range fullReferencePattern.FindAllStringSubmatch(text, -1) {
		if m[2] != "" {
			found = append(found, normalize(m[2]))
		}
	}

	for _, m := range collapsedReferencePattern.FindAllStringSubmatch(text, -1) {
		found = append(found, normalize(m[1]))
	}

	seen := map[string]bool{}
	for _, l := range found {
		seen[l] = true
	}

	for _, m := range shortcutReferencePattern.FindAllStringSubmatchIndex(text, -1) {
		end := m[1]
		if end < len(text) && text[end] == '[' {
			continue
		}
		label := normalize(text[m[2]:m[3]])
		if seen[label] {
			continue
		}
		seen[label] = true
		found = append(found, label)
	}

	for _, l := range found {
		a.references[l] = true
	}
}

func (a *analyzer) Finalize() []rules.Violation {
	ignored := map[string]bool{}
	for _, l := range a.cfg.IgnoredDefinitions {
		ignored[normalize(l)] = true
	}

	ref := rules.RuleRef{ID: id, Alias: alias}
	var violations []rules.Violation

	for label, defs := range a.definitions {
		if ignored[label] {
			continue
		}

		isUnused := !a.references[label]

		if len(defs) > 1 {
			if isUnused {
				violations = append(violations, a.violate(ref, "Unused link or image reference definition: \"%s\"", defs[0]))
			}
			for _, d := range defs[1:] {
				violations = append(violations, a.violate(ref, "Duplicate link or image reference definition: \"%s\"", d))
			}
		} else if isUnused {
			violations = append(violations, a.violate(ref, "Unused link or image reference definition: \"%s\"", defs[0]))
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		si, sj := violations[i].Range.Start, violations[j].Range.Start
		if si.Line != sj.Line {
			return si.Line < sj.Line
		}
		return si.Character < sj.Character
	})
	return violations
}

func (a *analyzer) violate(ref rules.RuleRef, format string, d definition) rules.Violation {
	msg := fmt.Sprintf(format, d.label)
	return rules.NewRangeViolation(ref, a.ctx.FilePath(), msg, rules.NodeRange(a.ctx, d.node))
}
