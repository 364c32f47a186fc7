package thicket

import (
	"slices"
	"strings"

	"github.com/ARTM2000/thicket/scene"
)

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

// OffsetTransform walks n generations from node: toward the root for n > 0,
// stopping at the forest root, and into first children for n < 0, stopping
// at a leaf. It returns nil only for a nil node.
func OffsetTransform(node *scene.Node, n int) *scene.Node {
	t, _ := climb(node, n)
	return t
}

// climb is OffsetTransform that also reports whether an upward walk ran out
// of ancestors before completing n steps.
func climb(node *scene.Node, n int) (*scene.Node, bool) {
	if node == nil {
		return nil, false
	}
	t := node
	for ; n > 0; n-- {
		if t.Parent() == nil {
			return t, true
		}
		t = t.Parent()
	}
	for ; n < 0; n++ {
		if t.ChildCount() == 0 {
			break
		}
		t = t.Child(0)
	}
	return t, false
}

// levelFromTop returns the ancestor of node lying k levels below its forest
// root. k is clamped to node's depth, so k >= depth yields node itself.
func levelFromTop(node *scene.Node, k int) *scene.Node {
	if k < 0 {
		k = -k
	}
	depth := node.Depth()
	return OffsetTransform(node, depth-min(k, depth))
}

// pathFromTop returns the nodes strictly below level down to node inclusive,
// ordered top first. level must be an ancestor of node.
func pathFromTop(level, node *scene.Node) []*scene.Node {
	var path []*scene.Node
	for t := node; t != nil && t != level; t = t.Parent() {
		path = append(path, t)
	}
	slices.Reverse(path)
	return path
}

// ---------------------------------------------------------------------------
// Name search
// ---------------------------------------------------------------------------

// FindDescendant searches root's descendants for a node called name: first
// the direct children in sibling order, then each child's subtree depth
// first. skip and its subtree are excluded; root itself is never returned.
func FindDescendant(root *scene.Node, name string, skip *scene.Node) *scene.Node {
	if root == nil {
		return nil
	}
	children := root.Children()
	for _, c := range children {
		if c != skip && c.Name() == name {
			return c
		}
	}
	for _, c := range children {
		if c == skip {
			continue
		}
		if found := FindDescendant(c, name, skip); found != nil {
			return found
		}
	}
	return nil
}

// findIn is FindDescendant that also considers root itself.
func findIn(root *scene.Node, name string) *scene.Node {
	if root.Name() == name {
		return root
	}
	return FindDescendant(root, name, nil)
}

// ---------------------------------------------------------------------------
// Component search
// ---------------------------------------------------------------------------

type matcher func(any) bool

// componentOn is a shallow lookup on a single node.
func componentOn(n *scene.Node, match matcher, skip *scene.Node) any {
	if n == nil || n == skip {
		return nil
	}
	c, _ := n.Find(match)
	return c
}

// componentInChildren searches the descendants of parent top-then-deep,
// excluding skip and its subtree.
func componentInChildren(parent *scene.Node, match matcher, skip *scene.Node) any {
	children := parent.Children()
	for _, c := range children {
		if found := componentOn(c, match, skip); found != nil {
			return found
		}
	}
	for _, c := range children {
		if c == skip {
			continue
		}
		if found := componentInChildren(c, match, skip); found != nil {
			return found
		}
	}
	return nil
}

// componentIn searches n and then its descendants.
func componentIn(n *scene.Node, match matcher, skip *scene.Node) any {
	if n == nil || n == skip {
		return nil
	}
	if found := componentOn(n, match, nil); found != nil {
		return found
	}
	return componentInChildren(n, match, skip)
}

// ---------------------------------------------------------------------------
// Partitions and roots
// ---------------------------------------------------------------------------

// EnumeratePartitions returns the partition holding start (when it is a
// regular partition) followed by every other partition in world order, with
// the persistent partition last.
func EnumeratePartitions(world *scene.World, start *scene.Node) []*scene.Partition {
	var first *scene.Partition
	if start != nil && start.Partition() != nil && !start.Partition().IsPersistent() {
		first = start.Partition()
	}

	all := world.Partitions()
	out := make([]*scene.Partition, 0, len(all)+1)
	if first != nil {
		out = append(out, first)
	}
	for _, p := range all {
		if p != first {
			out = append(out, p)
		}
	}
	return append(out, world.Persistent())
}

// EnumerateRoots returns the roots of p sorted by name. Equal names keep
// host order. Host root order differs between environments, so every root
// walk goes through here.
func EnumerateRoots(p *scene.Partition) []*scene.Node {
	roots := p.Roots()
	slices.SortStableFunc(roots, func(a, b *scene.Node) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return roots
}

// IsLoaded reports whether p finished loading.
func IsLoaded(p *scene.Partition) bool { return p.IsLoaded() }

// loading returns the partitions of ps that are still loading.
func loading(ps []*scene.Partition) []*scene.Partition {
	var out []*scene.Partition
	for _, p := range ps {
		if !p.IsLoaded() {
			out = append(out, p)
		}
	}
	return out
}

// rootPass visits every root of ps in order. visit returns a non-zero value
// to stop. A partition still loading stops the walk before its roots are
// visited, and the loading partitions are returned so the caller can wait:
// a match in a later partition must not win over one that is not there yet.
func rootPass[T comparable](ps []*scene.Partition, visit func(*scene.Node) T) (T, []*scene.Partition) {
	var zero T
	for i, p := range ps {
		if !p.IsLoaded() {
			return zero, loading(ps[i:])
		}
		for _, r := range EnumerateRoots(p) {
			if found := visit(r); found != zero {
				return found, nil
			}
		}
	}
	return zero, nil
}

// searchRoots runs a shallow pass over all roots of ps, then a pass over
// their subtrees.
func searchRoots[T comparable](ps []*scene.Partition, shallow, deep func(*scene.Node) T) (T, []*scene.Partition) {
	found, wait := rootPass(ps, shallow)
	var zero T
	if found != zero || wait != nil {
		return found, wait
	}
	return rootPass(ps, deep)
}
