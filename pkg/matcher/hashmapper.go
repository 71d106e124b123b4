package matcher

import (
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Bucket collects the source and destination nodes sharing one structural
// hash at one priority level.
type Bucket struct {
	Srcs []*tree.Node
	Dsts []*tree.Node
}

// HashMapper groups same-priority nodes from both trees by structural hash
// and classifies each hash bucket as unique, ambiguous or unmapped. Buckets
// keep the first-seen hash order and nodes keep their insertion order, so
// classification results are deterministic.
//
// Equal structural hash is treated as sufficient evidence of isomorphism;
// collisions would produce mismatches. This is a documented trade-off of the
// hashing design, not a verification gap to fill here.
type HashMapper struct {
	index   map[uint64]int
	buckets []Bucket
}

// NewHashMapper creates an empty bucketer.
func NewHashMapper() *HashMapper {
	return &HashMapper{
		index: make(map[uint64]int),
	}
}

// AddSrcs registers source-side nodes.
func (m *HashMapper) AddSrcs(nodes []*tree.Node) {
	for _, n := range nodes {
		at := m.bucketFor(n)
		m.buckets[at].Srcs = append(m.buckets[at].Srcs, n)
	}
}

// AddDsts registers destination-side nodes.
func (m *HashMapper) AddDsts(nodes []*tree.Node) {
	for _, n := range nodes {
		at := m.bucketFor(n)
		m.buckets[at].Dsts = append(m.buckets[at].Dsts, n)
	}
}

// bucketFor returns the index of the bucket for n's hash, allocating one in
// first-seen order when absent.
func (m *HashMapper) bucketFor(n *tree.Node) int {
	hash := n.Metrics().Hash

	at, ok := m.index[hash]
	if !ok {
		at = len(m.buckets)
		m.index[hash] = at
		m.buckets = append(m.buckets, Bucket{})
	}

	return at
}

// Unique returns the buckets holding exactly one node per side, each an
// immediate one-to-one candidate.
func (m *HashMapper) Unique() []Bucket {
	var result []Bucket

	for _, b := range m.buckets {
		if len(b.Srcs) == 1 && len(b.Dsts) == 1 {
			result = append(result, b)
		}
	}

	return result
}

// Ambiguous returns the buckets populated on both sides with more than one
// node on at least one side. These require tie-breaking.
func (m *HashMapper) Ambiguous() []Bucket {
	var result []Bucket

	for _, b := range m.buckets {
		if len(b.Srcs) >= 1 && len(b.Dsts) >= 1 && (len(b.Srcs) > 1 || len(b.Dsts) > 1) {
			result = append(result, b)
		}
	}

	return result
}

// Unmapped returns the buckets whose hash occurs on one side only. The nodes
// inside have no candidate at this priority and their children should be
// opened for matching at a lower one.
func (m *HashMapper) Unmapped() []Bucket {
	var result []Bucket

	for _, b := range m.buckets {
		if len(b.Srcs) == 0 || len(b.Dsts) == 0 {
			result = append(result, b)
		}
	}

	return result
}
