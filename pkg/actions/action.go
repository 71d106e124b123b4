// Package actions synthesizes an ordered edit script from a node mapping:
// the sequence of insert, delete, update and move operations transforming
// the source tree into the destination tree. The generator follows the
// Chawathe et al. algorithm and never mutates the caller's trees; a
// simplified variant aggregates wholly inserted or deleted subtrees into
// single tree-level operations.
package actions

import (
	"fmt"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Kind enumerates the edit operations.
type Kind int

const (
	// InsertNode inserts a single node under a parent at a position.
	InsertNode Kind = iota

	// DeleteNode deletes a single node.
	DeleteNode

	// UpdateNode replaces a node's label.
	UpdateNode

	// MoveTree moves a whole subtree under a parent at a position.
	MoveTree

	// InsertTree inserts a whole subtree under a parent at a position.
	// Produced only by the simplified generator.
	InsertTree

	// DeleteTree deletes a whole subtree. Produced only by the simplified
	// generator.
	DeleteTree
)

// String returns the operation name used in rendered scripts.
func (k Kind) String() string {
	switch k {
	case InsertNode:
		return "insert-node"
	case DeleteNode:
		return "delete-node"
	case UpdateNode:
		return "update-node"
	case MoveTree:
		return "move-tree"
	case InsertTree:
		return "insert-tree"
	case DeleteTree:
		return "delete-tree"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is one edit operation. Node refers to an original tree: the
// destination tree for inserts, the source tree otherwise. Parent and Pos
// name the target location for inserts and moves; a moved node is detached
// before Pos is measured. Parent is nil when the target is the virtual
// root above the source tree. Value carries the new label for updates.
type Action struct {
	Kind   Kind
	Node   *tree.Node
	Parent *tree.Node
	Pos    int
	Value  string
}

// String renders the action for diagnostics and CLI output.
func (a Action) String() string {
	switch a.Kind {
	case InsertNode, InsertTree, MoveTree:
		if a.Parent == nil {
			return fmt.Sprintf("%s %s at %d", a.Kind, a.Node, a.Pos)
		}

		return fmt.Sprintf("%s %s into %s at %d", a.Kind, a.Node, a.Parent, a.Pos)
	case UpdateNode:
		return fmt.Sprintf("%s %s to %q", a.Kind, a.Node, a.Value)
	case DeleteNode, DeleteTree:
		return fmt.Sprintf("%s %s", a.Kind, a.Node)
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Node)
	}
}

// EditScript is an ordered list of actions. Applying them in order to the
// source tree yields the destination tree.
type EditScript struct {
	actions []Action
}

// Add appends an action.
func (s *EditScript) Add(a Action) {
	s.actions = append(s.actions, a)
}

// Actions returns the actions in order. Callers must not modify the
// returned slice.
func (s *EditScript) Actions() []Action {
	return s.actions
}

// Len returns the number of actions.
func (s *EditScript) Len() int {
	return len(s.actions)
}
