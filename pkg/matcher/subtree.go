// Package matcher discovers a one-to-one correspondence between the nodes
// of two syntax trees. A scope tagger first correlates same-named functions
// across the trees; the subtree matcher then walks both trees top-down in
// descending priority order, commits structurally unique subtree pairs
// immediately, defers ambiguous ones to a greedy similarity-ranked
// resolution, and reopens unmatched subtrees' children for matching at lower
// priorities. The resulting mapping store is consumed by the edit-script
// generator.
package matcher

import (
	"cmp"
	"slices"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// SubtreeMatcher runs the top-down isomorphic-subtree matching phase and the
// greedy ambiguous resolution that follows it.
//
// A matcher is stateless across calls; all per-computation state lives in
// the queues and the store of one Match invocation, so independent diffs may
// run matchers concurrently as long as each gets its own trees and store.
type SubtreeMatcher struct {
	opts Options
}

// NewSubtreeMatcher creates a matcher with the given options. Unset options
// fall back to their defaults.
func NewSubtreeMatcher(opts Options) *SubtreeMatcher {
	return &SubtreeMatcher{opts: opts.withDefaults()}
}

// Match computes the mapping between the trees rooted at src and dst,
// writing into store (a nil store starts empty) and returning it. Tree shape
// is never mutated. The computation is deterministic for identical inputs.
//
// Scope ids must already be stamped when scope-aware matching is wanted;
// errors indicate broken matching invariants, not recoverable conditions.
func (m *SubtreeMatcher) Match(src, dst *tree.Node, store *Store) (*Store, error) {
	if store == nil {
		store = NewStore()
	}

	logger := m.opts.logger()

	srcQueue := NewPriorityQueue(m.opts.MinPriority, m.opts.Metric)
	dstQueue := NewPriorityQueue(m.opts.MinPriority, m.opts.Metric)
	srcQueue.Push(src)
	dstQueue.Push(dst)

	var ambiguous []Bucket

	for Synchronize(srcQueue, dstQueue) {
		priority := srcQueue.Peek()

		mapper := NewHashMapper()
		mapper.AddSrcs(srcQueue.Pop())
		mapper.AddDsts(dstQueue.Pop())

		unique := mapper.Unique()

		for _, b := range unique {
			s, d := b.Srcs[0], b.Dsts[0]

			// A subtree match spanning two different correlated functions
			// is never valid; such pairs are dropped without reopening.
			if !scopeCompatible(s, d) {
				continue
			}

			// Unique buckets cannot collide within one level, but a seeded
			// store may already claim either end.
			if !store.AreBothUnmapped(s, d) {
				continue
			}

			if err := store.AddRecursively(s, d); err != nil {
				return nil, err
			}
		}

		levelAmbiguous := mapper.Ambiguous()
		ambiguous = append(ambiguous, levelAmbiguous...)

		unmapped := mapper.Unmapped()

		for _, b := range unmapped {
			for _, n := range b.Srcs {
				srcQueue.Open(n)
			}

			for _, n := range b.Dsts {
				dstQueue.Open(n)
			}
		}

		logger.Debug("matched priority level",
			"priority", priority,
			"unique", len(unique),
			"ambiguous", len(levelAmbiguous),
			"unmapped", len(unmapped))
	}

	if err := m.resolveAmbiguous(store, ambiguous); err != nil {
		return nil, err
	}

	logger.Debug("matching complete", "mappings", store.Size())

	return store, nil
}

// resolveAmbiguous greedily assigns the deferred ambiguous groups. Groups
// are taken largest source subtree first, so once a big match is accepted
// its smaller competitors are excluded; within a group, candidates are
// ranked by the similarity comparator against the mappings committed so far
// and accepted while both ends remain unmapped.
func (m *SubtreeMatcher) resolveAmbiguous(store *Store, groups []Bucket) error {
	slices.SortStableFunc(groups, func(a, b Bucket) int {
		return cmp.Compare(maxSrcSize(b), maxSrcSize(a))
	})

	for _, group := range groups {
		candidates := make([]Mapping, 0, len(group.Srcs)*len(group.Dsts))

		for _, s := range group.Srcs {
			for _, d := range group.Dsts {
				if scopeCompatible(s, d) {
					candidates = append(candidates, Mapping{Src: s, Dst: d})
				}
			}
		}

		if len(candidates) == 0 {
			continue
		}

		comparator := m.opts.Comparator(store)
		slices.SortStableFunc(candidates, comparator.Compare)

		for _, c := range candidates {
			if !store.AreBothUnmapped(c.Src, c.Dst) {
				continue
			}

			if err := store.AddRecursively(c.Src, c.Dst); err != nil {
				return err
			}
		}
	}

	return nil
}

// scopeCompatible reports whether a mapping between s and d respects scope
// partitioning: equal scope ids, or either side outside every correlated
// function.
func scopeCompatible(s, d *tree.Node) bool {
	return s.Scope() == d.Scope() || s.Scope() == tree.Unscoped || d.Scope() == tree.Unscoped
}

// maxSrcSize returns the largest source subtree size in the bucket.
func maxSrcSize(b Bucket) int {
	maxSize := 0

	for _, n := range b.Srcs {
		if size := n.Metrics().Size; size > maxSize {
			maxSize = size
		}
	}

	return maxSize
}
