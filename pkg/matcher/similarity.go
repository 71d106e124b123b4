package matcher

import (
	"cmp"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Comparator ranks candidate mappings from an ambiguous group. Compare
// returns a negative value when a should be accepted before b, positive for
// the opposite, and zero when the candidates are indistinguishable; combined
// with a stable sort this yields a total, deterministic order.
type Comparator interface {
	Compare(a, b Mapping) int
}

// FullComparator ranks candidates by contextual similarity against the
// mappings committed so far, most telling signal first:
//
//  1. dice similarity of the candidates' parents' mapped descendants (higher
//     wins),
//  2. dice similarity of the candidates' mapped ancestor chains (higher
//     wins),
//  3. label edit distance (lower wins),
//  4. sibling position distance (lower wins),
//  5. textual position distance (lower wins).
//
// Scores are memoized per candidate, so a fresh comparator must be built for
// every group once further mappings have been committed.
type FullComparator struct {
	store *Store
	dmp   *diffmatchpatch.DiffMatchPatch

	parentDice   map[Mapping]float64
	ancestorDice map[Mapping]float64
	editDistance map[Mapping]int
}

// NewFullComparator creates a comparator evaluating candidates against the
// current contents of store.
func NewFullComparator(store *Store) *FullComparator {
	return &FullComparator{
		store:        store,
		dmp:          diffmatchpatch.New(),
		parentDice:   make(map[Mapping]float64),
		ancestorDice: make(map[Mapping]float64),
		editDistance: make(map[Mapping]int),
	}
}

// Compare applies the criteria chain, falling through on ties.
func (c *FullComparator) Compare(a, b Mapping) int {
	if r := cmp.Compare(c.parentSimilarity(b), c.parentSimilarity(a)); r != 0 {
		return r
	}

	if r := cmp.Compare(c.ancestorSimilarity(b), c.ancestorSimilarity(a)); r != 0 {
		return r
	}

	if r := cmp.Compare(c.labelDistance(a), c.labelDistance(b)); r != 0 {
		return r
	}

	if r := cmp.Compare(siblingOffset(a), siblingOffset(b)); r != 0 {
		return r
	}

	return cmp.Compare(textualOffset(a), textualOffset(b))
}

// parentSimilarity scores how much of the candidates' parents' contents is
// already mapped together.
func (c *FullComparator) parentSimilarity(m Mapping) float64 {
	if v, ok := c.parentDice[m]; ok {
		return v
	}

	v := c.dice(m.Src.Parent(), m.Dst.Parent())
	c.parentDice[m] = v

	return v
}

// dice computes 2*common/(|src|+|dst|) over the descendants of src and dst,
// where common counts src descendants mapped into dst's descendants. Nil
// roots and childless pairs score zero.
func (c *FullComparator) dice(src, dst *tree.Node) float64 {
	if src == nil || dst == nil {
		return 0
	}

	srcDesc := tree.Descendants(src)
	dstDesc := tree.Descendants(dst)

	total := len(srcDesc) + len(dstDesc)
	if total == 0 {
		return 0
	}

	dstSet := make(map[*tree.Node]bool, len(dstDesc))
	for _, d := range dstDesc {
		dstSet[d] = true
	}

	common := 0

	for _, s := range srcDesc {
		if mapped, ok := c.store.GetDst(s); ok && dstSet[mapped] {
			common++
		}
	}

	return 2 * float64(common) / float64(total)
}

// ancestorSimilarity scores how much of the candidates' ancestor chains is
// already mapped together.
func (c *FullComparator) ancestorSimilarity(m Mapping) float64 {
	if v, ok := c.ancestorDice[m]; ok {
		return v
	}

	srcAnc := tree.Ancestors(m.Src)
	dstAnc := tree.Ancestors(m.Dst)

	var v float64

	if total := len(srcAnc) + len(dstAnc); total > 0 {
		dstSet := make(map[*tree.Node]bool, len(dstAnc))
		for _, d := range dstAnc {
			dstSet[d] = true
		}

		common := 0

		for _, s := range srcAnc {
			if mapped, ok := c.store.GetDst(s); ok && dstSet[mapped] {
				common++
			}
		}

		v = 2 * float64(common) / float64(total)
	}

	c.ancestorDice[m] = v

	return v
}

// labelDistance is the Levenshtein distance between the candidates' labels.
func (c *FullComparator) labelDistance(m Mapping) int {
	if v, ok := c.editDistance[m]; ok {
		return v
	}

	diffs := c.dmp.DiffMain(m.Src.Label(), m.Dst.Label(), false)
	v := c.dmp.DiffLevenshtein(diffs)
	c.editDistance[m] = v

	return v
}

// siblingOffset is the distance between the candidates' positions among
// their siblings.
func siblingOffset(m Mapping) int {
	return abs(m.Src.PositionInParent() - m.Dst.PositionInParent())
}

// textualOffset is the combined distance between the candidates' source
// positions and ends.
func textualOffset(m Mapping) int {
	return abs(m.Src.Pos()-m.Dst.Pos()) + abs(m.Src.EndPos()-m.Dst.EndPos())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
