package scene

import "slices"

// Base is embedded by components that need to know the node they are attached
// to.
type Base struct {
	node *Node
}

// Node returns the node the component is attached to, or nil before Add.
func (b *Base) Node() *Node { return b.node }

func (b *Base) attach(n *Node) { b.node = n }

type attachable interface {
	attach(*Node)
}

// Add attaches a component to the node. Components embedding [Base] learn
// their node.
func (n *Node) Add(c any) {
	if a, ok := c.(attachable); ok {
		a.attach(n)
	}
	n.components = append(n.components, c)
}

// Remove detaches a component from the node.
func (n *Node) Remove(c any) {
	if i := slices.Index(n.components, c); i >= 0 {
		n.components = slices.Delete(n.components, i, i+1)
	}
}

// Components returns a copy of the attached components in attach order.
func (n *Node) Components() []any { return slices.Clone(n.components) }

// Find returns the first component on the node accepted by match.
func (n *Node) Find(match func(any) bool) (any, bool) {
	for _, c := range n.components {
		if match(c) {
			return c, true
		}
	}
	return nil, false
}

// Is returns a matcher accepting components assignable to T, so interface
// types match every implementation.
func Is[T any]() func(any) bool {
	return func(c any) bool {
		_, ok := c.(T)
		return ok
	}
}

// Get returns the first component of type T on the node.
func Get[T any](n *Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	c, ok := n.Find(Is[T]())
	if !ok {
		return zero, false
	}
	return c.(T), true
}
