package actions

import (
	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// SimplifiedGenerator wraps ChawatheGenerator and collapses runs of
// single-node inserts or deletes that cover a whole subtree into one
// InsertTree or DeleteTree action.
type SimplifiedGenerator struct {
	inner *ChawatheGenerator
}

// NewSimplifiedGenerator returns a generator producing aggregated scripts.
func NewSimplifiedGenerator() *SimplifiedGenerator {
	return &SimplifiedGenerator{inner: NewChawatheGenerator()}
}

// Generate returns the simplified edit script transforming src into dst.
func (g *SimplifiedGenerator) Generate(src, dst *tree.Node, store *matcher.Store) (*EditScript, error) {
	script, err := g.inner.Generate(src, dst, store)
	if err != nil {
		return nil, err
	}

	return simplify(script), nil
}

// simplify rewrites the script in one ordered pass. An insert whose
// parent's entire subtree is inserted is absorbed by the parent; an
// insert covering its own entire subtree becomes an InsertTree. Deletes
// aggregate symmetrically.
func simplify(script *EditScript) *EditScript {
	inserted := make(map[*tree.Node]bool)
	deleted := make(map[*tree.Node]bool)

	for _, a := range script.Actions() {
		switch a.Kind {
		case InsertNode:
			inserted[a.Node] = true
		case DeleteNode:
			deleted[a.Node] = true
		}
	}

	out := &EditScript{actions: make([]Action, 0, script.Len())}

	for _, a := range script.Actions() {
		switch a.Kind {
		case InsertNode:
			if subtreeCovered(a.Node.Parent(), inserted) {
				continue
			}

			if a.Node.ChildCount() > 0 && allDescendantsIn(a.Node, inserted) {
				a.Kind = InsertTree
			}

			out.Add(a)
		case DeleteNode:
			if subtreeCovered(a.Node.Parent(), deleted) {
				continue
			}

			if a.Node.ChildCount() > 0 && allDescendantsIn(a.Node, deleted) {
				a.Kind = DeleteTree
			}

			out.Add(a)
		default:
			out.Add(a)
		}
	}

	return out
}

// subtreeCovered reports whether n and every node below it is in the set.
func subtreeCovered(n *tree.Node, set map[*tree.Node]bool) bool {
	return n != nil && set[n] && allDescendantsIn(n, set)
}

func allDescendantsIn(n *tree.Node, set map[*tree.Node]bool) bool {
	for _, d := range tree.Descendants(n) {
		if !set[d] {
			return false
		}
	}

	return true
}
