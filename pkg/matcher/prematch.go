package matcher

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

const (
	// defaultFunctionTypeName is the node type treated as a function-like
	// declaration when no explicit type is configured.
	defaultFunctionTypeName = "function"

	// defaultNameTypeName is the node type carrying a function's name.
	defaultNameTypeName = "name"
)

// ScopeTagger partitions the nodes of two trees into disjoint scopes, one
// per function name occurring in both trees, and stamps every node of a
// correlated function's subtree with the scope id. The matcher later refuses
// subtree matches spanning two different correlated functions.
//
// Tagging never alters tree shape. Nodes outside every correlated function
// keep the Unscoped sentinel.
type ScopeTagger struct {
	functionType tree.Type
	nameType     tree.Type
}

// NewScopeTagger creates a tagger recognizing the given function-declaration
// and name-child node types.
func NewScopeTagger(functionType, nameType tree.Type) *ScopeTagger {
	return &ScopeTagger{
		functionType: functionType,
		nameType:     nameType,
	}
}

// DefaultScopeTagger creates a tagger for the conventional "function" and
// "name" type names.
func DefaultScopeTagger() *ScopeTagger {
	return NewScopeTagger(tree.TypeOf(defaultFunctionTypeName), tree.TypeOf(defaultNameTypeName))
}

// Preprocess correlates same-named functions across the two trees and stamps
// scope ids onto their subtrees. Ids are assigned from one shared name table
// in sorted-name order, so the same pair of trees always produces the same
// ids. Stamping runs innermost-first and never descends past an
// already-tagged node, so the deepest enclosing correlated function wins for
// nested functions.
//
// Structural metrics must be computed on both trees beforehand.
func (t *ScopeTagger) Preprocess(src, dst *tree.Node) {
	srcFns := t.collectFunctions(src)
	dstFns := t.collectFunctions(dst)

	ids := t.correlate(srcFns, dstFns)
	if len(ids) == 0 {
		return
	}

	t.tag(srcFns, ids)
	t.tag(dstFns, ids)
}

// collectFunctions gathers every function-declaration node of the tree in
// pre-order, nested declarations included.
func (t *ScopeTagger) collectFunctions(root *tree.Node) []*tree.Node {
	var fns []*tree.Node

	tree.Walk(root, func(n *tree.Node) bool {
		if n.Type() == t.functionType {
			fns = append(fns, n)
		}

		return true
	})

	return fns
}

// correlate builds the shared name table: every function name present on
// both sides gets one positive id. Nameless functions contribute nothing.
func (t *ScopeTagger) correlate(srcFns, dstFns []*tree.Node) map[string]tree.ScopeID {
	srcNames := t.nameSet(srcFns)
	dstNames := t.nameSet(dstFns)

	var common []string

	for name := range srcNames {
		if dstNames[name] {
			common = append(common, name)
		}
	}

	slices.Sort(common)

	ids := make(map[string]tree.ScopeID, len(common))
	for i, name := range common {
		ids[name] = tree.ScopeID(i + 1)
	}

	return ids
}

// nameSet collects the non-empty names of the given function nodes.
func (t *ScopeTagger) nameSet(fns []*tree.Node) map[string]bool {
	names := make(map[string]bool, len(fns))

	for _, fn := range fns {
		if name := t.functionName(fn); name != "" {
			names[name] = true
		}
	}

	return names
}

// functionName extracts the name of a function-declaration node: the first
// name-typed child's label, or, for compound name nodes, the concatenation
// of that child's children's labels. A declaration without a usable name
// yields the empty string; the caller skips it rather than aborting.
func (t *ScopeTagger) functionName(fn *tree.Node) string {
	for _, child := range fn.Children() {
		if child.Type() != t.nameType {
			continue
		}

		if child.Label() != "" {
			return child.Label()
		}

		var b strings.Builder
		for _, part := range child.Children() {
			b.WriteString(part.Label())
		}

		return b.String()
	}

	return ""
}

// tag stamps correlated functions deepest-first. The stable sort keeps
// collection order for functions at equal depth.
func (t *ScopeTagger) tag(fns []*tree.Node, ids map[string]tree.ScopeID) {
	ordered := slices.Clone(fns)
	slices.SortStableFunc(ordered, func(a, b *tree.Node) int {
		return cmp.Compare(b.Metrics().Depth, a.Metrics().Depth)
	})

	for _, fn := range ordered {
		id, ok := ids[t.functionName(fn)]
		if !ok {
			continue
		}

		t.tagSubtree(fn, id)
	}
}

// tagSubtree stamps id onto fn's whole subtree, skipping (and not descending
// past) nodes already claimed by a deeper function.
func (t *ScopeTagger) tagSubtree(fn *tree.Node, id tree.ScopeID) {
	tree.Walk(fn, func(n *tree.Node) bool {
		if n.Scope() != tree.Unscoped {
			return false
		}

		n.SetScope(id)

		return true
	})
}
