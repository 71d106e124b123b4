package actions

import (
	"errors"

	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// ErrNilRoot is returned when a tree root is nil.
var ErrNilRoot = errors.New("actions: nil tree root")

// ChawatheGenerator derives an edit script from a mapping using the
// Chawathe et al. update-insert-align-move-delete phases. The caller's
// trees and store are read only; all mutation happens on a private deep
// copy of the source tree.
type ChawatheGenerator struct{}

// NewChawatheGenerator returns a generator producing node-level scripts.
func NewChawatheGenerator() *ChawatheGenerator {
	return &ChawatheGenerator{}
}

// Generate returns the edit script transforming src into dst under the
// given mapping. Unmapped destination nodes become inserts, unmapped
// source nodes become deletes, mapped nodes yield updates and moves.
func (g *ChawatheGenerator) Generate(src, dst *tree.Node, store *matcher.Store) (*EditScript, error) {
	if src == nil || dst == nil {
		return nil, ErrNilRoot
	}

	e := newEditState(src, dst, store)
	e.run()

	return e.script, nil
}

// editState carries the working copy of the source tree and the
// bookkeeping of one Generate call. The copy grows placeholder nodes for
// pending inserts and is reshaped by moves while the original trees stay
// untouched.
type editState struct {
	srcFake    *tree.Node
	workRoot   *tree.Node
	dstRoot    *tree.Node
	work       *workMap
	copyToOrig map[*tree.Node]*tree.Node
	srcInOrder map[*tree.Node]bool
	dstInOrder map[*tree.Node]bool
	script     *EditScript
}

func newEditState(src, dst *tree.Node, store *matcher.Store) *editState {
	workRoot := src.DeepCopy()

	// The fake root gives the working copy a mutable parent so the real
	// source root can be moved or deleted like any other node.
	srcFake := tree.NewNode(tree.NoType, "")
	srcFake.AddChild(workRoot)

	copyToOrig := make(map[*tree.Node]*tree.Node, workRoot.Metrics().Size)
	origToCopy := make(map[*tree.Node]*tree.Node, workRoot.Metrics().Size)

	origs := tree.PreOrder(src)
	copies := tree.PreOrder(workRoot)

	for i := range origs {
		copyToOrig[copies[i]] = origs[i]
		origToCopy[origs[i]] = copies[i]
	}

	work := newWorkMap()
	for _, m := range store.Mappings() {
		work.add(origToCopy[m.Src], m.Dst)
	}

	return &editState{
		srcFake:    srcFake,
		workRoot:   workRoot,
		dstRoot:    dst,
		work:       work,
		copyToOrig: copyToOrig,
		srcInOrder: make(map[*tree.Node]bool),
		dstInOrder: make(map[*tree.Node]bool),
		script:     &EditScript{},
	}
}

func (e *editState) run() {
	for _, x := range tree.BreadthFirst(e.dstRoot) {
		var w *tree.Node

		z := e.partnerOfParent(x)

		if partner, mapped := e.work.srcFor(x); !mapped {
			pos := e.findPos(x)
			w = e.insertPlaceholder(x, z, pos)
		} else {
			w = partner
			e.updateLabel(w, x)

			if x != e.dstRoot && w.Parent() != z {
				e.move(w, x, z)
			}
		}

		e.srcInOrder[w] = true
		e.dstInOrder[x] = true
		e.alignChildren(w, x)
	}

	// Deletions run last, innermost first, so every reported node still
	// has its original neighborhood when earlier actions are applied.
	for _, w := range tree.PostOrder(e.workRoot) {
		if !e.work.isSrcMapped(w) {
			e.script.Add(Action{Kind: DeleteNode, Node: e.copyToOrig[w]})
		}
	}
}

// partnerOfParent resolves the working-copy counterpart of x's parent.
// The destination root has no parent; its counterpart is the fake root.
func (e *editState) partnerOfParent(x *tree.Node) *tree.Node {
	y := x.Parent()
	if y == nil {
		return e.srcFake
	}

	// BFS order guarantees y was processed before x, so it is mapped.
	z, _ := e.work.srcFor(y)

	return z
}

// insertPlaceholder records an insert action for x and grafts a stand-in
// node into the working copy so later positions resolve against it.
func (e *editState) insertPlaceholder(x, z *tree.Node, pos int) *tree.Node {
	w := tree.NewNode(x.Type(), x.Label())

	e.script.Add(Action{Kind: InsertNode, Node: x, Parent: e.copyToOrig[z], Pos: pos})
	e.copyToOrig[w] = x
	e.work.add(w, x)
	z.InsertChild(w, pos)

	return w
}

func (e *editState) updateLabel(w, x *tree.Node) {
	if w.Label() == x.Label() {
		return
	}

	e.script.Add(Action{Kind: UpdateNode, Node: e.copyToOrig[w], Value: x.Label()})
	w.SetLabel(x.Label())
}

func (e *editState) move(w, x, z *tree.Node) {
	pos := e.findPos(x)

	e.script.Add(Action{Kind: MoveTree, Node: e.copyToOrig[w], Parent: e.copyToOrig[z], Pos: pos})
	w.Detach()
	z.InsertChild(w, pos)
}

// alignChildren reorders the mapped children of w to match the child
// order of x. Pairs on the longest common subsequence are already in
// order; every other mapped pair is moved into place.
func (e *editState) alignChildren(w, x *tree.Node) {
	for _, c := range w.Children() {
		delete(e.srcInOrder, c)
	}

	for _, c := range x.Children() {
		delete(e.dstInOrder, c)
	}

	s1 := e.childrenMappedInto(w, x)
	s2 := e.childrenMappedFrom(x, w)

	common := e.lcs(s1, s2)
	inCommon := make(map[*tree.Node]bool, 2*len(common))

	for _, p := range common {
		e.srcInOrder[p.src] = true
		e.dstInOrder[p.dst] = true
		inCommon[p.src] = true
		inCommon[p.dst] = true
	}

	for _, b := range s2 {
		for _, a := range s1 {
			if !e.work.hasPair(a, b) || (inCommon[a] && inCommon[b]) {
				continue
			}

			// Detach before computing the position, so the recorded
			// index is the one the move inserts at.
			a.Detach()
			pos := e.findPos(b)

			e.script.Add(Action{Kind: MoveTree, Node: e.copyToOrig[a], Parent: e.copyToOrig[w], Pos: pos})
			w.InsertChild(a, pos)

			e.srcInOrder[a] = true
			e.dstInOrder[b] = true
		}
	}
}

// childrenMappedInto returns the children of w whose partners are
// children of x, preserving child order.
func (e *editState) childrenMappedInto(w, x *tree.Node) []*tree.Node {
	var out []*tree.Node

	for _, c := range w.Children() {
		if d, ok := e.work.dstFor(c); ok && d.Parent() == x {
			out = append(out, c)
		}
	}

	return out
}

// childrenMappedFrom returns the children of x whose partners are
// children of w, preserving child order.
func (e *editState) childrenMappedFrom(x, w *tree.Node) []*tree.Node {
	var out []*tree.Node

	for _, c := range x.Children() {
		if s, ok := e.work.srcFor(c); ok && s.Parent() == w {
			out = append(out, c)
		}
	}

	return out
}

type alignPair struct {
	src *tree.Node
	dst *tree.Node
}

// lcs returns the longest common subsequence of the two child lists,
// where elements match when the mapping pairs them.
func (e *editState) lcs(s1, s2 []*tree.Node) []alignPair {
	n, m := len(s1), len(s2)
	if n == 0 || m == 0 {
		return nil
	}

	length := make([][]int, n+1)
	for i := range length {
		length[i] = make([]int, m+1)
	}

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if e.work.hasPair(s1[i], s2[j]) {
				length[i][j] = length[i+1][j+1] + 1
			} else {
				length[i][j] = max(length[i+1][j], length[i][j+1])
			}
		}
	}

	out := make([]alignPair, 0, length[0][0])

	for i, j := 0, 0; i < n && j < m; {
		switch {
		case e.work.hasPair(s1[i], s2[j]):
			out = append(out, alignPair{src: s1[i], dst: s2[j]})
			i++
			j++
		case length[i+1][j] >= length[i][j+1]:
			i++
		default:
			j++
		}
	}

	return out
}

// findPos computes the insertion index for the destination node x inside
// the working-copy partner of its parent, counting only siblings already
// placed in order.
func (e *editState) findPos(x *tree.Node) int {
	y := x.Parent()
	if y == nil {
		return 0
	}

	siblings := y.Children()

	for _, c := range siblings {
		if e.dstInOrder[c] {
			if c == x {
				return 0
			}

			break
		}
	}

	var v *tree.Node

	for i := range x.PositionInParent() {
		if e.dstInOrder[siblings[i]] {
			v = siblings[i]
		}
	}

	if v == nil {
		return 0
	}

	u, _ := e.work.srcFor(v)

	return u.PositionInParent() + 1
}

// workMap is the private bidirectional mapping between working-copy nodes
// and destination nodes. Unlike the matcher store it admits placeholder
// nodes created mid-generation and never rejects a pair.
type workMap struct {
	srcToDst map[*tree.Node]*tree.Node
	dstToSrc map[*tree.Node]*tree.Node
}

func newWorkMap() *workMap {
	return &workMap{
		srcToDst: make(map[*tree.Node]*tree.Node),
		dstToSrc: make(map[*tree.Node]*tree.Node),
	}
}

func (m *workMap) add(src, dst *tree.Node) {
	m.srcToDst[src] = dst
	m.dstToSrc[dst] = src
}

func (m *workMap) srcFor(dst *tree.Node) (*tree.Node, bool) {
	src, ok := m.dstToSrc[dst]

	return src, ok
}

func (m *workMap) dstFor(src *tree.Node) (*tree.Node, bool) {
	dst, ok := m.srcToDst[src]

	return dst, ok
}

func (m *workMap) hasPair(src, dst *tree.Node) bool {
	return m.srcToDst[src] == dst
}

func (m *workMap) isSrcMapped(src *tree.Node) bool {
	_, ok := m.srcToDst[src]

	return ok
}
