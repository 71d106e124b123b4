package actions

import (
	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Classified partitions the nodes touched by an edit script into the six
// sets a renderer highlights: deletions, updates and moves on the source
// side, insertions, updates and moves on the destination side. Slices
// keep script order.
type Classified struct {
	SrcDeleted  []*tree.Node
	SrcUpdated  []*tree.Node
	SrcMoved    []*tree.Node
	DstInserted []*tree.Node
	DstUpdated  []*tree.Node
	DstMoved    []*tree.Node
}

// ClassifyAllNodes expands tree-level actions so every affected node,
// descendants included, lands in a set. Updates and moves also mark the
// mapped partner on the destination side.
func ClassifyAllNodes(script *EditScript, store *matcher.Store) Classified {
	return classify(script, store, true)
}

// ClassifyRoots marks only the root node of each action, which keeps
// highlight sets small for tree-level renderings.
func ClassifyRoots(script *EditScript, store *matcher.Store) Classified {
	return classify(script, store, false)
}

func classify(script *EditScript, store *matcher.Store, expand bool) Classified {
	var c Classified

	for _, a := range script.Actions() {
		switch a.Kind {
		case InsertNode:
			c.DstInserted = append(c.DstInserted, a.Node)
		case InsertTree:
			c.DstInserted = appendSubtree(c.DstInserted, a.Node, expand)
		case DeleteNode:
			c.SrcDeleted = append(c.SrcDeleted, a.Node)
		case DeleteTree:
			c.SrcDeleted = appendSubtree(c.SrcDeleted, a.Node, expand)
		case UpdateNode:
			c.SrcUpdated = append(c.SrcUpdated, a.Node)

			if dst, ok := store.GetDst(a.Node); ok {
				c.DstUpdated = append(c.DstUpdated, dst)
			}
		case MoveTree:
			c.SrcMoved = appendSubtree(c.SrcMoved, a.Node, expand)

			if dst, ok := store.GetDst(a.Node); ok {
				c.DstMoved = appendSubtree(c.DstMoved, dst, expand)
			}
		}
	}

	return c
}

func appendSubtree(nodes []*tree.Node, n *tree.Node, expand bool) []*tree.Node {
	nodes = append(nodes, n)
	if expand {
		nodes = append(nodes, tree.Descendants(n)...)
	}

	return nodes
}
