package scenefile

import (
	"fmt"

	"github.com/ARTM2000/thicket"
	"github.com/ARTM2000/thicket/scene"
)

// Probe is a behaviour whose bindings come from a fixture. Component slots
// are filled with [Tag]s of the declared type.
type Probe struct {
	scene.Base
	Name string

	bindings []*thicket.Binding
	order    []string
	kinds    map[string]string
	nodes    map[string]**scene.Node
	tags     map[string]*Tag
}

// NewProbe builds a probe from its declaration.
func NewProbe(spec ProbeSpec) (*Probe, error) {
	p := &Probe{
		Name:  spec.Name,
		kinds: make(map[string]string),
		nodes: make(map[string]**scene.Node),
		tags:  make(map[string]*Tag),
	}
	for _, bs := range spec.Bindings {
		if _, dup := p.kinds[bs.Field]; dup {
			return nil, fmt.Errorf("probe %q: duplicate field %q", spec.Name, bs.Field)
		}
		b, err := p.bind(bs)
		if err != nil {
			return nil, fmt.Errorf("probe %q field %q: %w", spec.Name, bs.Field, err)
		}
		if bs.ReferencePoint {
			b.ReferencePoint()
		}
		p.bindings = append(p.bindings, b)
		p.order = append(p.order, bs.Field)
	}
	return p, nil
}

func (p *Probe) bind(bs BindingSpec) (*thicket.Binding, error) {
	if bs.Type == "" {
		var descs []thicket.NodeDescriptor
		for _, st := range bs.Strategies {
			d, err := st.NodeDescriptor()
			if err != nil {
				return nil, err
			}
			descs = append(descs, d)
		}
		slot := new(*scene.Node)
		p.nodes[bs.Field] = slot
		p.kinds[bs.Field] = "node"
		return thicket.NodeField(bs.Field, slot, descs...), nil
	}

	var descs []thicket.ComponentDescriptor
	for _, st := range bs.Strategies {
		d, err := st.ComponentDescriptor()
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	field, typ := bs.Field, bs.Type
	p.kinds[field] = typ
	return thicket.Custom(field, thicket.Target{
		Type: typ,
		Match: func(c any) bool {
			t, ok := c.(*Tag)
			return ok && t.Type == typ
		},
		New:   func() any { return &Tag{Type: typ} },
		Set:   func(c any) { p.tags[field] = c.(*Tag) },
		IsSet: func() bool { return p.tags[field] != nil },
	}, descs...), nil
}

// Dependencies implements [thicket.Behaviour].
func (p *Probe) Dependencies() []*thicket.Binding { return p.bindings }

// Result is the outcome of one probe field. Paths are for display; two
// nodes may share a path, so identity is carried by the IDs.
type Result struct {
	Probe    string `json:"probe"`
	Node     string `json:"node"`
	NodeID   string `json:"node_id"`
	Field    string `json:"field"`
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}

// Resolved reports whether the field holds a value.
func (r Result) Resolved() bool { return r.TargetID != "" }

// Results returns the state of every field in declaration order.
func (p *Probe) Results() []Result {
	out := make([]Result, 0, len(p.order))
	for _, field := range p.order {
		r := Result{Probe: p.Name, Field: field, Type: p.kinds[field]}
		if n := p.Node(); n != nil {
			r.Node, r.NodeID = n.Path(), n.ID().String()
		}
		if t := p.Target(field); t != nil {
			r.Target, r.TargetID = t.Path(), t.ID().String()
		}
		out = append(out, r)
	}
	return out
}

// Target returns the node a field resolved to, or nil.
func (p *Probe) Target(field string) *scene.Node {
	if slot, ok := p.nodes[field]; ok {
		return *slot
	}
	if t := p.tags[field]; t != nil {
		return t.Node()
	}
	return nil
}
