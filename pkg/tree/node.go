// Package tree provides the syntax tree model for structural diffing:
// typed nodes with interned type tags, normalized labels, precomputed
// structural metrics, and deterministic traversals.
//
// Trees are strictly acyclic with single ownership: a parent owns its
// children and a child holds a non-owning back-reference to its parent.
// Node shape is immutable during matching; only scope ids and metadata
// change after construction. The mutators exist for the edit-script
// generator, which operates on deep copies.
package tree

import (
	"fmt"
	"maps"
)

// ScopeID identifies the enclosing correlated function a node belongs to.
type ScopeID int32

// Unscoped is the sentinel ScopeID for nodes outside every correlated
// function. It is the zero value, so freshly built nodes are unscoped.
const Unscoped ScopeID = 0

// Node is a vertex of a syntax tree.
//
// A node carries an interned type tag, a raw label, a derived normalized
// label used for hash grouping, byte position and length into the original
// source, an ordered list of owned children, and a set of structural
// metrics assigned by ComputeMetrics.
type Node struct {
	typ       Type
	label     string
	normLabel string
	pos       int
	length    int
	parent    *Node
	children  []*Node
	metrics   Metrics
	scope     ScopeID
	metadata  map[string]string
}

// NewNode creates a detached node with the given type and label.
// The normalized label is derived immediately.
func NewNode(typ Type, label string) *Node {
	return &Node{
		typ:       typ,
		label:     label,
		normLabel: NormalizeLabel(label),
	}
}

// Type returns the interned type tag.
func (n *Node) Type() Type {
	return n.typ
}

// Label returns the raw label.
func (n *Node) Label() string {
	return n.label
}

// NormalizedLabel returns the label with architecture keywords replaced by
// the wildcard marker. It is used for hash grouping only, never for identity.
func (n *Node) NormalizedLabel() string {
	return n.normLabel
}

// SetLabel replaces the raw label and recomputes the normalized label.
// It does not refresh the structural hash; call ComputeMetrics on the root
// if hashes must reflect the new label.
func (n *Node) SetLabel(label string) {
	n.label = label
	n.normLabel = NormalizeLabel(label)
}

// Pos returns the byte offset of the node in the original source.
func (n *Node) Pos() int {
	return n.pos
}

// Length returns the byte length of the node in the original source.
func (n *Node) Length() int {
	return n.length
}

// EndPos returns the byte offset one past the node's end.
func (n *Node) EndPos() int {
	return n.pos + n.length
}

// SetPos sets the byte offset and length of the node.
func (n *Node) SetPos(pos, length int) {
	n.pos = pos
	n.length = length
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered child slice. Callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the child at position pos.
func (n *Node) Child(pos int) *Node {
	return n.children[pos]
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// PositionInParent returns the index of n in its parent's child list,
// or -1 for a root.
func (n *Node) PositionInParent() int {
	if n.parent == nil {
		return -1
	}

	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}

	return -1
}

// Metrics returns the structural metrics assigned by ComputeMetrics.
func (n *Node) Metrics() Metrics {
	return n.metrics
}

// Scope returns the enclosing-function scope id.
func (n *Node) Scope() ScopeID {
	return n.scope
}

// SetScope stamps the enclosing-function scope id.
func (n *Node) SetScope(id ScopeID) {
	n.scope = id
}

// Metadata returns the value for key, or the empty string when absent.
func (n *Node) Metadata(key string) string {
	return n.metadata[key]
}

// SetMetadata associates value with key. The map is allocated lazily.
func (n *Node) SetMetadata(key, value string) {
	if n.metadata == nil {
		n.metadata = make(map[string]string)
	}

	n.metadata[key] = value
}

// MetadataMap returns the underlying metadata map, which may be nil.
func (n *Node) MetadataMap() map[string]string {
	return n.metadata
}

// AddChild appends child to the child list and sets its parent.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// InsertChild inserts child at position pos and sets its parent.
func (n *Node) InsertChild(child *Node, pos int) {
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[pos+1:], n.children[pos:])
	n.children[pos] = child
}

// RemoveChild removes and returns the child at position pos.
// The removed child's parent is cleared.
func (n *Node) RemoveChild(pos int) *Node {
	child := n.children[pos]
	n.children = append(n.children[:pos], n.children[pos+1:]...)
	child.parent = nil

	return child
}

// Detach removes n from its parent's child list. Detaching a root is a no-op.
func (n *Node) Detach() {
	pos := n.PositionInParent()
	if pos < 0 {
		return
	}

	n.parent.RemoveChild(pos)
}

// IsIsomorphicTo reports whether the subtrees rooted at n and other are
// structurally isomorphic. Equal structural hash is treated as sufficient
// evidence; collisions would produce false positives, a trade-off accepted
// for O(1) comparison.
func (n *Node) IsIsomorphicTo(other *Node) bool {
	if other == nil {
		return false
	}

	return n.metrics.Hash == other.metrics.Hash
}

type copyFrame struct {
	src *Node
	dst *Node
}

// DeepCopy returns a detached copy of the subtree rooted at n.
// Metrics, scope ids and metadata are carried over; the copy's parent is nil.
func (n *Node) DeepCopy() *Node {
	root := n.copyLocal()
	stack := []copyFrame{{src: n, dst: root}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range frame.src.children {
			childCopy := child.copyLocal()
			childCopy.parent = frame.dst
			frame.dst.children = append(frame.dst.children, childCopy)

			stack = append(stack, copyFrame{src: child, dst: childCopy})
		}
	}

	return root
}

// copyLocal copies the node's local attributes, leaving parent and children unset.
func (n *Node) copyLocal() *Node {
	return &Node{
		typ:       n.typ,
		label:     n.label,
		normLabel: n.normLabel,
		pos:       n.pos,
		length:    n.length,
		metrics:   n.metrics,
		scope:     n.scope,
		metadata:  maps.Clone(n.metadata),
	}
}

// String renders the node as "type: label [pos,end]" for diagnostics.
func (n *Node) String() string {
	if n.label == "" {
		return fmt.Sprintf("%s [%d,%d]", n.typ, n.pos, n.EndPos())
	}

	return fmt.Sprintf("%s: %s [%d,%d]", n.typ, n.label, n.pos, n.EndPos())
}
