package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Test type names shared by matcher tests.
const (
	// testTypeRoot is the root type name used in fixtures.
	testTypeRoot = "compilation_unit"

	// testTypeBlock is the block type name used in fixtures.
	testTypeBlock = "block"

	// testTypeStmt is the statement type name used in fixtures.
	testTypeStmt = "stmt"

	// testTypeFunction is the function-declaration type name used in
	// fixtures, matching the default tagger configuration.
	testTypeFunction = "function"

	// testTypeName is the function-name type name used in fixtures.
	testTypeName = "name"
)

// buildNode builds a detached node of type name typ with the given label
// and children. Metrics are not computed.
func buildNode(typ, label string, children ...*tree.Node) *tree.Node {
	n := tree.NewNode(tree.TypeOf(typ), label)
	for _, child := range children {
		n.AddChild(child)
	}

	return n
}

// buildTree builds a root like buildNode and computes its metrics.
func buildTree(typ, label string, children ...*tree.Node) *tree.Node {
	root := buildNode(typ, label, children...)
	tree.ComputeMetrics(root)

	return root
}

// --- Add Tests ---.

func TestStore_Add_RecordsPair(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "a")
	dst := buildTree(testTypeStmt, "a")
	store := NewStore()

	err := store.Add(src, dst)

	require.NoError(t, err)
	assert.Equal(t, 1, store.Size())
	assert.True(t, store.IsSrcMapped(src))
	assert.True(t, store.IsDstMapped(dst))

	gotDst, ok := store.GetDst(src)
	require.True(t, ok)
	assert.Same(t, dst, gotDst)

	gotSrc, ok := store.GetSrc(dst)
	require.True(t, ok)
	assert.Same(t, src, gotSrc)
}

func TestStore_Add_DoubleSource(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "a")
	first := buildTree(testTypeStmt, "a")
	second := buildTree(testTypeStmt, "a")
	store := NewStore()

	require.NoError(t, store.Add(src, first))

	err := store.Add(src, second)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSrcMapped)
	assert.Equal(t, 1, store.Size())
}

func TestStore_Add_DoubleDestination(t *testing.T) {
	t.Parallel()

	first := buildTree(testTypeStmt, "a")
	second := buildTree(testTypeStmt, "a")
	dst := buildTree(testTypeStmt, "a")
	store := NewStore()

	require.NoError(t, store.Add(first, dst))

	err := store.Add(second, dst)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDstMapped)
	assert.Equal(t, 1, store.Size())
}

// --- Query Tests ---.

func TestStore_AreBothUnmapped(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeStmt, "a")
	dst := buildTree(testTypeStmt, "a")
	other := buildTree(testTypeStmt, "b")
	store := NewStore()

	assert.True(t, store.AreBothUnmapped(src, dst))

	require.NoError(t, store.Add(src, dst))

	assert.False(t, store.AreBothUnmapped(src, other))
	assert.False(t, store.AreBothUnmapped(other, dst))
	assert.True(t, store.AreBothUnmapped(other, other))
}

func TestStore_GetDst_Missing(t *testing.T) {
	t.Parallel()

	store := NewStore()

	got, ok := store.GetDst(buildTree(testTypeStmt, "a"))

	assert.False(t, ok)
	assert.Nil(t, got)
}

// --- AddRecursively Tests ---.

func TestStore_AddRecursively_MapsPositionally(t *testing.T) {
	t.Parallel()

	// Isomorphism is shape and type only; labels may differ.
	src := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"),
	)
	dst := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "x"),
		buildNode(testTypeStmt, "y"),
	)
	store := NewStore()

	err := store.AddRecursively(src, dst)

	require.NoError(t, err)
	assert.Equal(t, 3, store.Size())

	for i := range src.ChildCount() {
		got, ok := store.GetDst(src.Child(i))
		require.True(t, ok)
		assert.Same(t, dst.Child(i), got)
	}
}

func TestStore_AddRecursively_RecordsPreOrder(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"),
	)
	dst := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"),
	)
	store := NewStore()

	require.NoError(t, store.AddRecursively(src, dst))

	mappings := store.Mappings()
	require.Len(t, mappings, 3)
	assert.Same(t, src, mappings[0].Src)
	assert.Same(t, src.Child(0), mappings[1].Src)
	assert.Same(t, src.Child(1), mappings[2].Src)
}

func TestStore_AddRecursively_TypeMismatch(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
	)
	dst := buildTree(testTypeBlock, "",
		buildNode(testTypeName, "a"),
	)
	store := NewStore()

	err := store.AddRecursively(src, dst)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotIsomorphic)
}

func TestStore_AddRecursively_ArityMismatch(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
	)
	dst := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"),
	)
	store := NewStore()

	err := store.AddRecursively(src, dst)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotIsomorphic)
}

func TestStore_AddRecursively_ConflictsWithExisting(t *testing.T) {
	t.Parallel()

	src := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
	)
	dst := buildTree(testTypeBlock, "",
		buildNode(testTypeStmt, "a"),
	)
	store := NewStore()

	// Claim a descendant up front; the recursive walk must fail fast when
	// it reaches the conflict.
	require.NoError(t, store.Add(src.Child(0), buildTree(testTypeStmt, "elsewhere")))

	err := store.AddRecursively(src, dst)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSrcMapped)
}

// --- Mappings Tests ---.

func TestStore_Mappings_InsertionOrder(t *testing.T) {
	t.Parallel()

	firstSrc := buildTree(testTypeStmt, "a")
	firstDst := buildTree(testTypeStmt, "a")
	secondSrc := buildTree(testTypeStmt, "b")
	secondDst := buildTree(testTypeStmt, "b")
	store := NewStore()

	require.NoError(t, store.Add(firstSrc, firstDst))
	require.NoError(t, store.Add(secondSrc, secondDst))

	mappings := store.Mappings()
	require.Len(t, mappings, 2)
	assert.Equal(t, Mapping{Src: firstSrc, Dst: firstDst}, mappings[0])
	assert.Equal(t, Mapping{Src: secondSrc, Dst: secondDst}, mappings[1])
}
