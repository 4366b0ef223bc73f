// Package engine is the multi-rule orchestrator: it builds the document
// context once, instantiates every rule whose effective severity is
// non-off, drives a single deterministic pre-order traversal that feeds
// every enabled analyser, and merges the per-rule violation streams into
// one position-ordered sequence.
package engine

import (
	"sort"

	"github.com/ekropotin/quickmark-go/internal/config"
	"github.com/ekropotin/quickmark-go/internal/cst"
	"github.com/ekropotin/quickmark-go/internal/document"
	"github.com/ekropotin/quickmark-go/internal/rules"
)

// Analyse runs the full pipeline for one document:
//  1. parse source with parser
//  2. split into lines and build the per-kind node cache + leaf-kind index
//  3. select every catalogue rule whose effective severity under cfg is
//     not off
//  4. instantiate one analyser per selected rule
//  5. traverse the tree once in pre-order, feeding every node to every
//     analyser whose RequiredNodeKinds is empty or contains that node's
//     kind; the synthetic "document" event is always fed to every analyser
//  6. finalize every analyser and concatenate, then sort by
//     (start line, start character, rule id)
func Analyse(registry *rules.Registry, parser cst.Parser, filePath string, source []byte, cfg *config.Configuration) ([]rules.Violation, error) {
	ctx, err := document.Build(filePath, source, parser, cfg)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()

	descriptors := selectEnabled(registry, cfg)

	type instance struct {
		desc     rules.Descriptor
		analyzer rules.Analyzer
		kinds    map[string]bool // nil/empty => line/document rule, fed every node
	}

	instances := make([]instance, 0, len(descriptors))
	for _, d := range descriptors {
		kinds := map[string]bool{}
		for _, k := range d.RequiredNodeKinds {
			kinds[k] = true
		}
		instances = append(instances, instance{
			desc:     d,
			analyzer: d.New(ctx),
			kinds:    kinds,
		})
	}

	root := ctx.Tree().RootNode()
	cst.Walk(root, func(n cst.Node) {
		kind := n.Kind()
		isDocument := kind == cst.DocumentKind
		for _, inst := range instances {
			if isDocument {
				inst.analyzer.Feed(n)
				continue
			}
			if len(inst.kinds) == 0 || inst.kinds[kind] {
				inst.analyzer.Feed(n)
			}
		}
	})

	var violations []rules.Violation
	for _, inst := range instances {
		violations = append(violations, inst.analyzer.Finalize()...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Character != b.Range.Start.Character {
			return a.Range.Start.Character < b.Range.Start.Character
		}
		return a.Rule.ID < b.Rule.ID
	})

	return violations, nil
}

// selectEnabled returns every catalogue descriptor whose effective severity
// under cfg is not off, ordered by id (deterministic instantiation order).
func selectEnabled(registry *rules.Registry, cfg *config.Configuration) []rules.Descriptor {
	all := registry.All()
	selected := make([]rules.Descriptor, 0, len(all))
	for _, d := range all {
		sev := d.DefaultSeverity
		if cfg != nil {
			if s, ok := cfg.Severity[d.Alias]; ok {
				sev = s
			}
		}
		if sev == rules.SeverityOff {
			continue
		}
		selected = append(selected, d)
	}
	return selected
}
