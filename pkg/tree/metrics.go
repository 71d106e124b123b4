package tree

import (
	"encoding/binary"

	"github.com/minio/highwayhash"

	"github.com/Sumatoshi-tech/astdiff/pkg/safeconv"
)

// Metrics holds the structural metrics of one subtree, assigned once per
// node by ComputeMetrics.
type Metrics struct {
	// Size is the number of nodes in the subtree, including the node itself.
	Size int

	// Height is the number of nodes on the longest downward path; a leaf
	// has height 1, so single leaves participate at the default matching
	// threshold.
	Height int

	// Depth is the number of edges from the tree root; the root has depth 0.
	Depth int

	// Hash is the structural hash over the node type, the normalized label
	// and the ordered child hashes.
	Hash uint64
}

// structuralHashKey keys the HighwayHash used for structural hashing.
// The key is fixed so hashes are stable across processes.
//
//nolint:gochecknoglobals // Fixed hashing key.
var structuralHashKey = []byte("astdiff-structural-hash-key-0001")

// ComputeMetrics assigns size, height, depth and structural hash to every
// node of the subtree rooted at root. Depth is computed relative to root.
// The pass is linear and may be re-run after mutations; results are
// deterministic for a given tree.
func ComputeMetrics(root *Node) {
	if root == nil {
		return
	}

	order := PreOrder(root)

	root.metrics.Depth = 0
	for _, n := range order[1:] {
		n.metrics.Depth = n.parent.metrics.Depth + 1
	}

	// Pre-order lists parents before children, so the reversed sweep sees
	// every child's metrics before its parent's.
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]

		size := 1
		height := 0

		for _, child := range n.children {
			size += child.metrics.Size

			if child.metrics.Height > height {
				height = child.metrics.Height
			}
		}

		n.metrics.Size = size
		n.metrics.Height = height + 1
		n.metrics.Hash = structuralHash(n)
	}
}

// structuralHash hashes the node type name, the normalized label and the
// already-computed child hashes. Strings are length-prefixed so adjacent
// fields cannot alias.
func structuralHash(n *Node) uint64 {
	typeName := n.typ.String()

	buf := make([]byte, 0, 8+len(typeName)+len(n.normLabel)+8*len(n.children))
	buf = binary.LittleEndian.AppendUint32(buf, safeconv.MustIntToUint32(len(typeName)))
	buf = append(buf, typeName...)
	buf = binary.LittleEndian.AppendUint32(buf, safeconv.MustIntToUint32(len(n.normLabel)))
	buf = append(buf, n.normLabel...)

	for _, child := range n.children {
		buf = binary.LittleEndian.AppendUint64(buf, child.metrics.Hash)
	}

	return highwayhash.Sum64(buf, structuralHashKey)
}
