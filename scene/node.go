package scene

import (
	"slices"

	"github.com/google/uuid"
)

// Node is an element of the scene hierarchy. Names are not unique; use ID to
// tell nodes apart.
type Node struct {
	id         uuid.UUID
	name       string
	world      *World
	partition  *Partition
	parent     *Node
	children   []*Node
	components []any
	destroyed  bool
}

// ID returns the node's unique identifier.
func (n *Node) ID() uuid.UUID { return n.id }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName renames the node.
func (n *Node) SetName(name string) { n.name = name }

// World returns the world the node belongs to.
func (n *Node) World() *World { return n.world }

// Partition returns the partition holding the node's forest.
func (n *Node) Partition() *Partition { return n.partition }

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Alive reports whether the node has not been destroyed.
func (n *Node) Alive() bool { return n != nil && !n.destroyed }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the node's children in sibling order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Root returns the root of the node's forest.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth returns the number of ancestors of the node.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path returns the slash separated names from the root down to the node.
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "/" + n.name
}

// IsDescendantOf reports whether n lies in the subtree of ancestor (n itself
// included).
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for c := n; c != nil; c = c.parent {
		if c == ancestor {
			return true
		}
	}
	return false
}

// SiblingIndex returns the node's index among its parent's children, or among
// its partition's roots in host order.
func (n *Node) SiblingIndex() int {
	if n.parent != nil {
		return slices.Index(n.parent.children, n)
	}
	if n.partition != nil {
		return slices.Index(n.partition.roots, n)
	}
	return -1
}

// SetSiblingIndex moves the node to index i among its siblings. Indices are
// clamped to the valid range.
func (n *Node) SetSiblingIndex(i int) {
	list := n.siblingList()
	if list == nil {
		return
	}
	cur := slices.Index(*list, n)
	if cur < 0 {
		return
	}
	*list = slices.Delete(*list, cur, cur+1)
	i = min(max(i, 0), len(*list))
	*list = slices.Insert(*list, i, n)
}

func (n *Node) siblingList() *[]*Node {
	if n.parent != nil {
		return &n.parent.children
	}
	if n.partition != nil {
		return &n.partition.roots
	}
	return nil
}

// SetParent moves the node under parent, appended as the last child. A nil
// parent detaches the node and makes it the last root of its current
// partition. Moves that would create a cycle are ignored.
func (n *Node) SetParent(parent *Node) {
	if parent == n.parent || n.destroyed {
		return
	}
	if parent != nil && parent.IsDescendantOf(n) {
		return
	}
	n.detach()
	if parent == nil {
		if n.partition == nil {
			n.partition = n.world.Active()
		}
		n.partition.roots = append(n.partition.roots, n)
		return
	}
	n.parent = parent
	parent.children = append(parent.children, n)
	n.setPartition(parent.partition)
}

func (n *Node) detach() {
	if list := n.siblingList(); list != nil {
		if i := slices.Index(*list, n); i >= 0 {
			*list = slices.Delete(*list, i, i+1)
		}
	}
	n.parent = nil
}

func (n *Node) setPartition(p *Partition) {
	n.partition = p
	for _, c := range n.children {
		c.setPartition(p)
	}
}

// Destroy removes the node and its subtree from the world. Observers are
// notified for every destroyed node, children first.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	for _, c := range slices.Clone(n.children) {
		c.Destroy()
	}
	n.detach()
	n.destroyed = true
	n.world.notifyDestroyed(n)
}

// String returns the node's path.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Path()
}
