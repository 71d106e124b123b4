package matcher

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Criteria Chain Tests ---.

func TestFullComparator_ParentSimilarityWins(t *testing.T) {
	t.Parallel()

	srcParent := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "k1"),
		buildNode(testTypeStmt, "v"),
	)
	dstNear := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "k1"),
		buildNode(testTypeStmt, "v"),
	)
	dstFar := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "k2"),
		buildNode(testTypeStmt, "v"),
	)

	store := NewStore()
	require.NoError(t, store.Add(srcParent.Child(0), dstNear.Child(0)))

	comparator := NewFullComparator(store)
	near := Mapping{Src: srcParent.Child(1), Dst: dstNear.Child(1)}
	far := Mapping{Src: srcParent.Child(1), Dst: dstFar.Child(1)}

	assert.Negative(t, comparator.Compare(near, far))
	assert.Positive(t, comparator.Compare(far, near))
}

func TestFullComparator_AncestorSimilarityBreaksTie(t *testing.T) {
	t.Parallel()

	srcRoot := buildTree(testTypeRoot, "",
		buildNode(testTypeBlock, "", buildNode(testTypeStmt, "v")),
	)
	dstNearRoot := buildTree(testTypeRoot, "",
		buildNode(testTypeBlock, "", buildNode(testTypeStmt, "v")),
	)
	dstFarRoot := buildTree(testTypeRoot, "",
		buildNode(testTypeBlock, "", buildNode(testTypeStmt, "v")),
	)

	store := NewStore()
	require.NoError(t, store.Add(srcRoot, dstNearRoot))

	comparator := NewFullComparator(store)
	srcLeaf := srcRoot.Child(0).Child(0)
	near := Mapping{Src: srcLeaf, Dst: dstNearRoot.Child(0).Child(0)}
	far := Mapping{Src: srcLeaf, Dst: dstFarRoot.Child(0).Child(0)}

	assert.Negative(t, comparator.Compare(near, far))
}

func TestFullComparator_LabelDistanceBreaksTie(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "count")
	exact := buildTree(testTypeStmt, "count")
	renamed := buildTree(testTypeStmt, "counter")

	comparator := NewFullComparator(NewStore())
	near := Mapping{Src: src, Dst: exact}
	far := Mapping{Src: src, Dst: renamed}

	assert.Negative(t, comparator.Compare(near, far))
}

func TestFullComparator_SiblingOffsetBreaksTie(t *testing.T) {
	t.Parallel()

	srcParent := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "k0"),
		buildNode(testTypeStmt, "v"),
	)
	dstSamePos := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "x"),
		buildNode(testTypeStmt, "v"),
	)
	dstShifted := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "v"),
		buildNode(testTypeStmt, "y"),
	)

	comparator := NewFullComparator(NewStore())
	near := Mapping{Src: srcParent.Child(1), Dst: dstSamePos.Child(1)}
	far := Mapping{Src: srcParent.Child(1), Dst: dstShifted.Child(0)}

	assert.Negative(t, comparator.Compare(near, far))
}

func TestFullComparator_TextualOffsetLastResort(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "v")
	src.SetPos(10, 5)
	adjacent := buildTree(testTypeStmt, "v")
	adjacent.SetPos(12, 5)
	distant := buildTree(testTypeStmt, "v")
	distant.SetPos(40, 5)

	comparator := NewFullComparator(NewStore())
	near := Mapping{Src: src, Dst: adjacent}
	far := Mapping{Src: src, Dst: distant}

	assert.Negative(t, comparator.Compare(near, far))
}

// --- Tie and Stability Tests ---.

func TestFullComparator_FullTieIsZero(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "v")
	first := buildTree(testTypeStmt, "v")
	second := buildTree(testTypeStmt, "v")

	comparator := NewFullComparator(NewStore())
	a := Mapping{Src: src, Dst: first}
	b := Mapping{Src: src, Dst: second}

	assert.Zero(t, comparator.Compare(a, b))
}

func TestFullComparator_StableSortKeepsEncounterOrder(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "v")
	first := buildTree(testTypeStmt, "v")
	second := buildTree(testTypeStmt, "v")

	comparator := NewFullComparator(NewStore())
	candidates := []Mapping{
		{Src: src, Dst: first},
		{Src: src, Dst: second},
	}

	slices.SortStableFunc(candidates, comparator.Compare)

	assert.Same(t, first, candidates[0].Dst)
	assert.Same(t, second, candidates[1].Dst)
}
