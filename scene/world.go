package scene

import (
	"slices"

	"github.com/google/uuid"
)

// LoadState is the load state of a partition.
type LoadState int

const (
	// Loading partitions may still receive roots.
	Loading LoadState = iota
	// Loaded partitions are complete.
	Loaded
)

// String returns the human-readable name of the state.
func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Partition is a collection of root nodes, the engine's "scene".
type Partition struct {
	name       string
	world      *World
	roots      []*Node
	state      LoadState
	persistent bool
}

// Name returns the partition's name.
func (p *Partition) Name() string { return p.name }

// State returns the current load state.
func (p *Partition) State() LoadState { return p.state }

// IsLoaded reports whether the partition finished loading. The persistent
// partition is always loaded.
func (p *Partition) IsLoaded() bool { return p.persistent || p.state == Loaded }

// IsPersistent reports whether this is the world's persistent partition.
func (p *Partition) IsPersistent() bool { return p.persistent }

// SetLoaded marks the partition as loaded.
func (p *Partition) SetLoaded() { p.state = Loaded }

// Roots returns the partition's roots in host order. Host order carries no
// meaning; callers that need determinism sort the result.
func (p *Partition) Roots() []*Node { return slices.Clone(p.roots) }

// RootCount returns the number of roots.
func (p *Partition) RootCount() int { return len(p.roots) }

// NewNode creates a root node in the partition.
func (p *Partition) NewNode(name string) *Node {
	n := &Node{id: uuid.New(), name: name, world: p.world, partition: p}
	p.roots = append(p.roots, n)
	return n
}

func (p *Partition) String() string { return p.name }

// Observer is notified of structural events in a [World].
type Observer interface {
	NodeDestroyed(n *Node)
}

// World holds the ordered partitions and the persistent partition.
//
// A World is not safe for concurrent use.
type World struct {
	partitions []*Partition
	persistent *Partition
	active     *Partition
	observers  []Observer
}

// NewWorld creates a world with no partitions besides the persistent one.
func NewWorld() *World {
	w := &World{}
	w.persistent = &Partition{name: "Persistent", world: w, state: Loaded, persistent: true}
	return w
}

// AddPartition appends a partition in the given state. The first partition
// added becomes the active one.
func (w *World) AddPartition(name string, state LoadState) *Partition {
	p := &Partition{name: name, world: w, state: state}
	w.partitions = append(w.partitions, p)
	if w.active == nil {
		w.active = p
	}
	return p
}

// Partitions returns the regular partitions in world order.
func (w *World) Partitions() []*Partition { return slices.Clone(w.partitions) }

// Persistent returns the persistent partition.
func (w *World) Persistent() *Partition { return w.persistent }

// Active returns the partition receiving nodes created without a location,
// falling back to the persistent partition when no partition exists.
func (w *World) Active() *Partition {
	if w.active == nil {
		return w.persistent
	}
	return w.active
}

// SetActive changes the active partition.
func (w *World) SetActive(p *Partition) { w.active = p }

// NewNode creates a root node in the active partition.
func (w *World) NewNode(name string) *Node {
	return w.Active().NewNode(name)
}

// MakePersistent moves the forest containing n into the persistent partition.
func (w *World) MakePersistent(n *Node) {
	root := n.Root()
	if root.partition == w.persistent {
		return
	}
	root.detach()
	root.setPartition(w.persistent)
	w.persistent.roots = append(w.persistent.roots, root)
}

// Unload destroys every root of p and removes it from the world.
func (w *World) Unload(p *Partition) {
	if p.persistent {
		return
	}
	for _, r := range slices.Clone(p.roots) {
		r.Destroy()
	}
	w.partitions = slices.DeleteFunc(w.partitions, func(q *Partition) bool { return q == p })
	if w.active == p {
		w.active = nil
		if len(w.partitions) > 0 {
			w.active = w.partitions[0]
		}
	}
}

// AllLoaded reports whether every regular partition has finished loading.
func (w *World) AllLoaded() bool {
	for _, p := range w.partitions {
		if !p.IsLoaded() {
			return false
		}
	}
	return true
}

// Observe registers an observer for structural events.
func (w *World) Observe(o Observer) {
	w.observers = append(w.observers, o)
}

func (w *World) notifyDestroyed(n *Node) {
	for _, o := range w.observers {
		o.NodeDestroyed(n)
	}
}
