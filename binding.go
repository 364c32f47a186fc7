package thicket

import (
	"reflect"

	"github.com/ARTM2000/thicket/scene"
)

// Behaviour is a component whose dependencies are injected when it
// activates. Embed [scene.Base] to provide Node.
type Behaviour interface {
	Node() *scene.Node
	Dependencies() []*Binding
}

// Target describes a component slot without static typing. [Field] builds
// one from a typed pointer; [Custom] accepts one directly for slots whose
// type is only known at run time.
type Target struct {
	// Type names the component type in log records and names nodes created
	// to carry a new component.
	Type string

	// Match accepts the components that may fill the slot.
	Match func(any) bool

	// New constructs a component for auto-creation. When nil, the context's
	// providers are consulted.
	New func() any

	// Set stores a resolved component.
	Set func(any)

	// IsSet reports whether the slot already holds a value.
	IsSet func() bool

	typ       reflect.Type
	singleton bool
}

// Binding is one injectable slot of a behaviour together with its ordered
// descriptor chain.
type Binding struct {
	name string

	target     Target
	components []descriptor

	setNode   func(*scene.Node)
	getNode   func() *scene.Node
	nodes     []descriptor
	reference bool
}

// Field binds a component slot. T is usually a pointer to a component type
// or an interface implemented by components; the first component assignable
// to T wins.
//
//	thicket.Field("weapon", &p.weapon, thicket.ChildComponent().SkipSelf())
func Field[T comparable](name string, dst *T, descs ...ComponentDescriptor) *Binding {
	var zero T
	typ := reflect.TypeFor[T]()
	_, single := any(zero).(singleton)

	t := Target{
		Type:      typeName(typ),
		Match:     scene.Is[T](),
		Set:       func(v any) { *dst = v.(T) },
		IsSet:     func() bool { return *dst != zero },
		typ:       typ,
		singleton: single,
	}
	return Custom(name, t, descs...)
}

// Custom binds a component slot described by t.
func Custom(name string, t Target, descs ...ComponentDescriptor) *Binding {
	b := &Binding{name: name, target: t}
	for _, d := range descs {
		b.components = append(b.components, d.d)
	}
	return b
}

// NodeField binds a node slot.
//
//	thicket.NodeField("team", &p.team, thicket.ParentNamed("Blue team"))
func NodeField(name string, dst **scene.Node, descs ...NodeDescriptor) *Binding {
	b := &Binding{
		name:    name,
		setNode: func(n *scene.Node) { *dst = n },
		getNode: func() *scene.Node { return *dst },
	}
	for _, d := range descs {
		b.nodes = append(b.nodes, d.d)
	}
	return b
}

// ReferencePoint marks a node binding as a reference point: once resolved,
// its node is consulted by reference strategies and by Of lookups naming
// this binding. A node binding without descriptors is a reference point
// assigned before activation.
func (b *Binding) ReferencePoint() *Binding {
	b.reference = true
	return b
}

// Name returns the binding's name.
func (b *Binding) Name() string { return b.name }

// IsNode reports whether the binding holds a node.
func (b *Binding) IsNode() bool { return b.setNode != nil }

func (b *Binding) isSet() bool {
	if b.IsNode() {
		return b.getNode() != nil
	}
	return b.target.IsSet != nil && b.target.IsSet()
}

func (b *Binding) chain() []descriptor {
	if b.IsNode() {
		return b.nodes
	}
	return b.components
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
