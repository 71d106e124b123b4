package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astdiff/pkg/matcher"
	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// testTypeRoot is the node type used for tree roots in fixtures.
const testTypeRoot = "compilation_unit"

// testTypeBlock is the node type used for interior fixture nodes.
const testTypeBlock = "block"

// testTypeStmt is the node type used for leaf fixture nodes.
const testTypeStmt = "stmt"

// buildNode constructs a node with the given children attached in order.
func buildNode(typ, label string, children ...*tree.Node) *tree.Node {
	n := tree.NewNode(tree.TypeOf(typ), label)
	for _, c := range children {
		n.AddChild(c)
	}

	return n
}

// mapPositional maps two structurally identical trees pair by pair in
// pre-order.
func mapPositional(t *testing.T, store *matcher.Store, src, dst *tree.Node) {
	t.Helper()

	srcs := tree.PreOrder(src)
	dsts := tree.PreOrder(dst)
	require.Len(t, dsts, len(srcs))

	for i := range srcs {
		require.NoError(t, store.Add(srcs[i], dsts[i]))
	}
}

// labelsOf projects nodes onto their labels.
func labelsOf(nodes []*tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label()
	}

	return out
}

// kindsOf projects actions onto their kinds.
func kindsOf(script *EditScript) []Kind {
	out := make([]Kind, script.Len())
	for i, a := range script.Actions() {
		out[i] = a.Kind
	}

	return out
}

// applyScript replays a node-level script on a deep copy of src and
// returns the resulting root.
func applyScript(t *testing.T, src *tree.Node, script *EditScript) *tree.Node {
	t.Helper()

	fake := tree.NewNode(tree.NoType, "")
	fake.AddChild(src.DeepCopy())

	counterpart := map[*tree.Node]*tree.Node{nil: fake}

	origs := tree.PreOrder(src)
	copies := tree.PreOrder(fake.Child(0))

	for i := range origs {
		counterpart[origs[i]] = copies[i]
	}

	for _, a := range script.Actions() {
		switch a.Kind {
		case InsertNode:
			n := tree.NewNode(a.Node.Type(), a.Node.Label())
			counterpart[a.Node] = n
			counterpart[a.Parent].InsertChild(n, a.Pos)
		case UpdateNode:
			counterpart[a.Node].SetLabel(a.Value)
		case MoveTree:
			moved := counterpart[a.Node]
			moved.Detach()
			counterpart[a.Parent].InsertChild(moved, a.Pos)
		case DeleteNode:
			counterpart[a.Node].Detach()
		default:
			t.Fatalf("unexpected action kind %s", a.Kind)
		}
	}

	require.Len(t, fake.Children(), 1)

	return fake.Child(0)
}

// --- ChawatheGenerator Tests ---.

func TestGenerate_NilRoot(t *testing.T) {
	t.Parallel()

	gen := NewChawatheGenerator()

	_, err := gen.Generate(nil, buildNode(testTypeRoot, ""), matcher.NewStore())
	require.ErrorIs(t, err, ErrNilRoot)

	_, err = gen.Generate(buildNode(testTypeRoot, ""), nil, matcher.NewStore())
	require.ErrorIs(t, err, ErrNilRoot)
}

func TestGenerate_IdenticalTrees(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "",
			buildNode(testTypeStmt, "a"),
			buildNode(testTypeStmt, "b")))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "",
			buildNode(testTypeStmt, "a"),
			buildNode(testTypeStmt, "b")))

	store := matcher.NewStore()
	mapPositional(t, store, src, dst)

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)

	assert.Zero(t, script.Len())
}

func TestGenerate_LabelChange(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "count"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "total"))

	store := matcher.NewStore()
	mapPositional(t, store, src, dst)

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, UpdateNode, got.Kind)
	assert.Same(t, src.Child(0), got.Node)
	assert.Equal(t, "total", got.Value)
}

func TestGenerate_RootLabelChange(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "module_a")
	dst := buildNode(testTypeRoot, "module_b")

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, UpdateNode, got.Kind)
	assert.Same(t, src, got.Node)
	assert.Equal(t, "module_b", got.Value)
}

func TestGenerate_InsertedLeaf(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(0)))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, InsertNode, got.Kind)
	assert.Same(t, dst.Child(1), got.Node)
	assert.Same(t, src, got.Parent)
	assert.Equal(t, 1, got.Pos)
}

func TestGenerate_DeletedLeaf(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(0)))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, DeleteNode, got.Kind)
	assert.Same(t, src.Child(1), got.Node)
}

func TestGenerate_DeletesInnermostFirst(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "outer",
			buildNode(testTypeStmt, "inner")))
	dst := buildNode(testTypeRoot, "")

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 2, script.Len())

	assert.Equal(t, []Kind{DeleteNode, DeleteNode}, kindsOf(script))
	assert.Same(t, src.Child(0).Child(0), script.Actions()[0].Node)
	assert.Same(t, src.Child(0), script.Actions()[1].Node)
}

func TestGenerate_MovedAcrossParents(t *testing.T) {
	t.Parallel()

	srcMoved := buildNode(testTypeStmt, "x")
	src := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "a", srcMoved),
		buildNode(testTypeBlock, "b"))

	dstMoved := buildNode(testTypeStmt, "x")
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "a"),
		buildNode(testTypeBlock, "b", dstMoved))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(0)))
	require.NoError(t, store.Add(src.Child(1), dst.Child(1)))
	require.NoError(t, store.Add(srcMoved, dstMoved))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, MoveTree, got.Kind)
	assert.Same(t, srcMoved, got.Node)
	assert.Same(t, src.Child(1), got.Parent)
	assert.Equal(t, 0, got.Pos)
}

func TestGenerate_ReorderedSiblings(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "b"),
		buildNode(testTypeStmt, "a"))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(1)))
	require.NoError(t, store.Add(src.Child(1), dst.Child(0)))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	assert.Equal(t, MoveTree, got.Kind)
	assert.Same(t, src.Child(0), got.Node)
	assert.Same(t, src, got.Parent)
	assert.Equal(t, 1, got.Pos)
}

func TestGenerate_AppliedScriptYieldsDestination(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "b"),
		buildNode(testTypeStmt, "c"),
		buildNode(testTypeStmt, "d"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeStmt, "b"),
		buildNode(testTypeStmt, "a"),
		buildNode(testTypeStmt, "c"),
		buildNode(testTypeStmt, "d"))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(1)))
	require.NoError(t, store.Add(src.Child(1), dst.Child(0)))
	require.NoError(t, store.Add(src.Child(2), dst.Child(2)))
	require.NoError(t, store.Add(src.Child(3), dst.Child(3)))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)
	require.Equal(t, 1, script.Len())

	got := script.Actions()[0]
	require.Equal(t, MoveTree, got.Kind)
	assert.Equal(t, 1, got.Pos)

	applied := applyScript(t, src, script)
	assert.Equal(t, labelsOf(tree.PreOrder(dst)), labelsOf(tree.PreOrder(applied)))
}

func TestGenerate_UnmappedRoots(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "old",
		buildNode(testTypeStmt, "a"))
	dst := buildNode(testTypeRoot, "new",
		buildNode(testTypeStmt, "b"))

	script, err := NewChawatheGenerator().Generate(src, dst, matcher.NewStore())
	require.NoError(t, err)
	require.Equal(t, 4, script.Len())

	got := script.Actions()

	assert.Equal(t, []Kind{InsertNode, InsertNode, DeleteNode, DeleteNode}, kindsOf(script))
	assert.Same(t, dst, got[0].Node)
	assert.Nil(t, got[0].Parent)
	assert.Same(t, dst.Child(0), got[1].Node)
	assert.Same(t, dst, got[1].Parent)
	assert.Same(t, src.Child(0), got[2].Node)
	assert.Same(t, src, got[3].Node)
}

func TestGenerate_CombinedEdits(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "keep",
			buildNode(testTypeStmt, "renamed")),
		buildNode(testTypeStmt, "gone"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "keep",
			buildNode(testTypeStmt, "fresh")),
		buildNode(testTypeStmt, "added"))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(0)))
	require.NoError(t, store.Add(src.Child(0).Child(0), dst.Child(0).Child(0)))

	script, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)

	assert.Equal(t, []Kind{InsertNode, UpdateNode, DeleteNode}, kindsOf(script))
}

func TestGenerate_CallerStateUntouched(t *testing.T) {
	t.Parallel()

	src := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "left",
			buildNode(testTypeStmt, "x")),
		buildNode(testTypeStmt, "gone"))
	dst := buildNode(testTypeRoot, "",
		buildNode(testTypeBlock, "left"),
		buildNode(testTypeBlock, "right",
			buildNode(testTypeStmt, "x"),
			buildNode(testTypeStmt, "fresh")))

	store := matcher.NewStore()
	require.NoError(t, store.Add(src, dst))
	require.NoError(t, store.Add(src.Child(0), dst.Child(0)))
	require.NoError(t, store.Add(src.Child(0).Child(0), dst.Child(1).Child(0)))

	srcBefore := labelsOf(tree.PreOrder(src))
	dstBefore := labelsOf(tree.PreOrder(dst))
	sizeBefore := store.Size()

	_, err := NewChawatheGenerator().Generate(src, dst, store)
	require.NoError(t, err)

	assert.Equal(t, srcBefore, labelsOf(tree.PreOrder(src)))
	assert.Equal(t, dstBefore, labelsOf(tree.PreOrder(dst)))
	assert.Equal(t, sizeBefore, store.Size())
}
