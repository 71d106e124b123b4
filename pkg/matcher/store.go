package matcher

import (
	"errors"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

var (
	// ErrSrcMapped reports an attempt to map a source node twice.
	ErrSrcMapped = errors.New("matcher: source node already mapped")

	// ErrDstMapped reports an attempt to map a destination node twice.
	ErrDstMapped = errors.New("matcher: destination node already mapped")

	// ErrNotIsomorphic reports a recursive add over subtrees whose shapes
	// diverge.
	ErrNotIsomorphic = errors.New("matcher: subtrees are not isomorphic")
)

// Store is the bidirectional, one-to-one mapping between the nodes of two
// trees. Nodes are identified by object identity. Every mutation preserves
// the partial-bijection invariant: a node appears at most once as source and
// at most once as destination, and violations surface as errors instead of
// silently overwriting.
//
// A Store belongs to a single match computation and is not safe for
// concurrent use.
type Store struct {
	srcToDst map[*tree.Node]*tree.Node
	dstToSrc map[*tree.Node]*tree.Node
	ordered  []Mapping
}

// NewStore creates an empty mapping store.
func NewStore() *Store {
	return &Store{
		srcToDst: make(map[*tree.Node]*tree.Node),
		dstToSrc: make(map[*tree.Node]*tree.Node),
	}
}

// Add records the pair (src, dst). Mapping either node a second time is a
// contract violation reported as ErrSrcMapped or ErrDstMapped.
func (s *Store) Add(src, dst *tree.Node) error {
	if _, ok := s.srcToDst[src]; ok {
		return ErrSrcMapped
	}

	if _, ok := s.dstToSrc[dst]; ok {
		return ErrDstMapped
	}

	s.srcToDst[src] = dst
	s.dstToSrc[dst] = src
	s.ordered = append(s.ordered, Mapping{Src: src, Dst: dst})

	return nil
}

// AddRecursively maps the subtrees rooted at src and dst node-for-node in
// matching structural position. The subtrees must be isomorphic; a type or
// arity divergence anywhere aborts with ErrNotIsomorphic. The walk is linear
// in the subtree size.
func (s *Store) AddRecursively(src, dst *tree.Node) error {
	srcStack := []*tree.Node{src}
	dstStack := []*tree.Node{dst}

	for len(srcStack) > 0 {
		sn := srcStack[len(srcStack)-1]
		srcStack = srcStack[:len(srcStack)-1]
		dn := dstStack[len(dstStack)-1]
		dstStack = dstStack[:len(dstStack)-1]

		if sn.Type() != dn.Type() || sn.ChildCount() != dn.ChildCount() {
			return ErrNotIsomorphic
		}

		if err := s.Add(sn, dn); err != nil {
			return err
		}

		// Children pushed in reverse so pairs are recorded in pre-order.
		for i := sn.ChildCount() - 1; i >= 0; i-- {
			srcStack = append(srcStack, sn.Child(i))
			dstStack = append(dstStack, dn.Child(i))
		}
	}

	return nil
}

// IsSrcMapped reports whether src already appears as a mapping source.
func (s *Store) IsSrcMapped(src *tree.Node) bool {
	_, ok := s.srcToDst[src]

	return ok
}

// IsDstMapped reports whether dst already appears as a mapping destination.
func (s *Store) IsDstMapped(dst *tree.Node) bool {
	_, ok := s.dstToSrc[dst]

	return ok
}

// AreBothUnmapped reports whether neither src nor dst participates in any
// mapping yet.
func (s *Store) AreBothUnmapped(src, dst *tree.Node) bool {
	return !s.IsSrcMapped(src) && !s.IsDstMapped(dst)
}

// GetDst returns the destination mapped to src.
func (s *Store) GetDst(src *tree.Node) (*tree.Node, bool) {
	dst, ok := s.srcToDst[src]

	return dst, ok
}

// GetSrc returns the source mapped to dst.
func (s *Store) GetSrc(dst *tree.Node) (*tree.Node, bool) {
	src, ok := s.dstToSrc[dst]

	return src, ok
}

// Size returns the number of recorded mappings.
func (s *Store) Size() int {
	return len(s.ordered)
}

// Mappings returns the recorded mappings in insertion order. Callers must
// not modify the returned slice.
func (s *Store) Mappings() []Mapping {
	return s.ordered
}
