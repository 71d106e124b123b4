package tree

// PreOrder returns the nodes of the subtree rooted at root in depth-first
// pre-order: parents before children, children left to right.
func PreOrder(root *Node) []*Node {
	if root == nil {
		return nil
	}

	result := make([]*Node, 0, root.metrics.Size)
	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, n)

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}

	return result
}

// PostOrder returns the nodes of the subtree rooted at root in depth-first
// post-order: children left to right, then the parent.
func PostOrder(root *Node) []*Node {
	if root == nil {
		return nil
	}

	result := make([]*Node, 0, root.metrics.Size)
	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, n)

		stack = append(stack, n.children...)
	}

	// The sweep above emits parents before children, rightmost child first.
	// Reversing yields left-to-right post-order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result
}

// BreadthFirst returns the nodes of the subtree rooted at root level by
// level, each level left to right.
func BreadthFirst(root *Node) []*Node {
	if root == nil {
		return nil
	}

	result := make([]*Node, 0, root.metrics.Size)
	queue := []*Node{root}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		queue = append(queue, n.children...)
	}

	return result
}

// Walk visits the subtree rooted at root in pre-order, calling visit for
// every node. Returning false from visit skips the node's children.
func Walk(root *Node, visit func(*Node) bool) {
	if root == nil {
		return
	}

	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(n) {
			continue
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Descendants returns every node strictly below n, in pre-order.
func Descendants(n *Node) []*Node {
	order := PreOrder(n)

	return order[1:]
}

// Ancestors returns the chain of parents from n's parent up to the root.
func Ancestors(n *Node) []*Node {
	var result []*Node

	for p := n.parent; p != nil; p = p.parent {
		result = append(result, p)
	}

	return result
}
