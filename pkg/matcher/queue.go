package matcher

import (
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/astdiff/pkg/tree"
)

// Metric selects the scalar used to prioritize subtree comparison.
type Metric int

const (
	// MetricHeight prioritizes by subtree height. The default.
	MetricHeight Metric = iota

	// MetricSize prioritizes by subtree node count.
	MetricSize
)

// String returns the metric's configuration name.
func (m Metric) String() string {
	if m == MetricSize {
		return "size"
	}

	return "height"
}

// MetricFromString resolves a configuration name to a Metric. Unknown names
// fall back to MetricHeight; the second result reports whether the name was
// recognized, so callers can log the fallback. The empty name selects the
// default without complaint.
func MetricFromString(name string) (Metric, bool) {
	switch strings.ToLower(name) {
	case "", "height":
		return MetricHeight, true
	case "size":
		return MetricSize, true
	default:
		return MetricHeight, false
	}
}

// Priority computes the node's priority under this metric.
func (m Metric) Priority(n *tree.Node) int {
	if m == MetricSize {
		return n.Metrics().Size
	}

	return n.Metrics().Height
}

// PriorityQueue visits the nodes of one tree in descending priority order,
// batching all nodes sharing the current top priority into one bucket.
// Within a bucket, nodes keep their insertion (encounter) order, which makes
// the whole traversal deterministic.
//
// Nodes whose priority falls below the configured minimum never enter the
// queue; they are left for finer-grained matching stages.
type PriorityQueue struct {
	buckets     map[int][]*tree.Node
	priorities  []int
	minPriority int
	metric      Metric
}

// NewPriorityQueue creates an empty queue with the given minimum priority
// threshold and priority metric.
func NewPriorityQueue(minPriority int, metric Metric) *PriorityQueue {
	return &PriorityQueue{
		buckets:     make(map[int][]*tree.Node),
		minPriority: minPriority,
		metric:      metric,
	}
}

// Push enqueues n at its own priority. Nodes below the minimum priority are
// dropped.
func (q *PriorityQueue) Push(n *tree.Node) {
	priority := q.metric.Priority(n)
	if priority < q.minPriority {
		return
	}

	if _, ok := q.buckets[priority]; !ok {
		// Keep the priority index sorted descending.
		at := sort.Search(len(q.priorities), func(i int) bool {
			return q.priorities[i] < priority
		})

		q.priorities = append(q.priorities, 0)
		copy(q.priorities[at+1:], q.priorities[at:])
		q.priorities[at] = priority
	}

	q.buckets[priority] = append(q.buckets[priority], n)
}

// Open enqueues every child of n at the child's own priority.
func (q *PriorityQueue) Open(n *tree.Node) {
	for _, child := range n.Children() {
		q.Push(child)
	}
}

// Peek returns the highest remaining priority, or 0 when the queue is empty.
func (q *PriorityQueue) Peek() int {
	if len(q.priorities) == 0 {
		return 0
	}

	return q.priorities[0]
}

// Pop removes and returns the whole bucket at the current top priority, in
// encounter order. It returns nil when the queue is empty.
func (q *PriorityQueue) Pop() []*tree.Node {
	if len(q.priorities) == 0 {
		return nil
	}

	top := q.priorities[0]
	q.priorities = q.priorities[1:]

	bucket := q.buckets[top]
	delete(q.buckets, top)

	return bucket
}

// IsEmpty reports whether no buckets remain.
func (q *PriorityQueue) IsEmpty() bool {
	return len(q.priorities) == 0
}

// Clear drops all remaining buckets.
func (q *PriorityQueue) Clear() {
	q.buckets = make(map[int][]*tree.Node)
	q.priorities = nil
}

// popOpen consumes the top bucket and re-queues each popped node's children
// at their own priorities.
func (q *PriorityQueue) popOpen() {
	for _, n := range q.Pop() {
		q.Open(n)
	}
}

// Synchronize drives two queues to a common top priority. While both queues
// are non-empty and their top priorities differ, the higher one's top bucket
// is consumed and replaced by its children. It returns true once both expose
// the same top priority, and clears both queues and returns false when
// either runs out.
func Synchronize(src, dst *PriorityQueue) bool {
	for !src.IsEmpty() && !dst.IsEmpty() {
		srcTop, dstTop := src.Peek(), dst.Peek()

		switch {
		case srcTop == dstTop:
			return true
		case srcTop > dstTop:
			src.popOpen()
		default:
			dst.popOpen()
		}
	}

	src.Clear()
	dst.Clear()

	return false
}
