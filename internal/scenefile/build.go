package scenefile

import (
	"errors"
	"fmt"

	"github.com/ARTM2000/thicket"
	"github.com/ARTM2000/thicket/scene"
)

// Tag is a component identified only by its type name.
type Tag struct {
	scene.Base
	Type string
}

// Scene is a fixture instantiated into a world.
type Scene struct {
	World  *scene.World
	Probes []*Probe

	loadAt map[*scene.Partition]int
}

// Build instantiates the fixture. Partitions with a positive LoadAfter start
// out loading; see [Scene.Advance].
func (f *File) Build() (*Scene, error) {
	s := &Scene{World: scene.NewWorld(), loadAt: make(map[*scene.Partition]int)}

	for _, ps := range f.Partitions {
		if ps.Name == "" {
			return nil, errors.New("partition without a name")
		}
		state := scene.Loaded
		if ps.LoadAfter > 0 {
			state = scene.Loading
		}
		p := s.World.AddPartition(ps.Name, state)
		if ps.LoadAfter > 0 {
			s.loadAt[p] = ps.LoadAfter
		}
		for _, ns := range ps.Roots {
			if err := s.buildNode(p, nil, ns); err != nil {
				return nil, fmt.Errorf("partition %q: %w", ps.Name, err)
			}
		}
	}

	if f.Persistent != nil {
		for _, ns := range f.Persistent.Roots {
			if err := s.buildNode(s.World.Persistent(), nil, ns); err != nil {
				return nil, fmt.Errorf("persistent partition: %w", err)
			}
		}
	}
	return s, nil
}

func (s *Scene) buildNode(p *scene.Partition, parent *scene.Node, ns NodeSpec) error {
	n := p.NewNode(ns.Name)
	if parent != nil {
		n.SetParent(parent)
	}
	for _, typ := range ns.Components {
		n.Add(&Tag{Type: typ})
	}
	for _, spec := range ns.Probes {
		probe, err := NewProbe(spec)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Path(), err)
		}
		n.Add(probe)
		s.Probes = append(s.Probes, probe)
	}
	for _, child := range ns.Children {
		if err := s.buildNode(p, n, child); err != nil {
			return err
		}
	}
	return nil
}

// Advance marks as loaded every partition whose LoadAfter tick has been
// reached and returns them.
func (s *Scene) Advance(tick int) []*scene.Partition {
	var loaded []*scene.Partition
	for _, p := range s.World.Partitions() {
		at, ok := s.loadAt[p]
		if ok && !p.IsLoaded() && at <= tick {
			p.SetLoaded()
			loaded = append(loaded, p)
		}
	}
	return loaded
}

// Settled reports whether every deferred partition has loaded.
func (s *Scene) Settled() bool {
	for p := range s.loadAt {
		if !p.IsLoaded() {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Descriptors
// ---------------------------------------------------------------------------

// ComponentDescriptor converts a strategy declaration for a component slot.
func (st StrategySpec) ComponentDescriptor() (thicket.ComponentDescriptor, error) {
	kind, ok := thicket.ParseKind(st.Kind)
	if !ok || !kind.IsComponent() {
		return thicket.ComponentDescriptor{}, fmt.Errorf("%w: %q is not a component strategy", thicket.ErrMisconfigured, st.Kind)
	}

	var d thicket.ComponentDescriptor
	switch kind {
	case thicket.KindOwnComponent:
		d = thicket.OwnComponent()
	case thicket.KindComponent:
		d = thicket.Component()
	case thicket.KindGlobalComponent:
		d = thicket.GlobalComponent()
	case thicket.KindReferenceComponent:
		d = thicket.ReferenceComponent()
	case thicket.KindChildComponent:
		d = thicket.ChildComponent()
	case thicket.KindParentComponent:
		d = thicket.ParentComponent()
	case thicket.KindSiblingComponent:
		d = thicket.SiblingComponent()
	case thicket.KindFamilyComponent:
		gens := 1
		if st.Generations != nil {
			gens = *st.Generations
		}
		if st.FromRoot {
			d = thicket.FamilyFromRoot(gens)
		} else {
			d = thicket.FamilyComponent(gens)
		}
	}

	if st.Of != "" {
		d = d.Of(st.Of)
	}
	if st.Offset != 0 {
		d = d.Offset(st.Offset)
	}
	if st.Optional {
		d = d.Optional()
	}
	if st.SkipSelf {
		d = d.SkipSelf()
	}
	if st.Deep {
		d = d.Deep()
	}
	return d, nil
}

// NodeDescriptor converts a strategy declaration for a node slot.
func (st StrategySpec) NodeDescriptor() (thicket.NodeDescriptor, error) {
	kind, ok := thicket.ParseKind(st.Kind)
	if !ok || kind.IsComponent() {
		return thicket.NodeDescriptor{}, fmt.Errorf("%w: %q is not a node strategy", thicket.ErrMisconfigured, st.Kind)
	}

	var d thicket.NodeDescriptor
	switch kind {
	case thicket.KindChild:
		d = thicket.Child(st.Index)
		if st.Name != "" {
			d = thicket.ChildNamed(st.Name)
		}
	case thicket.KindParent:
		d = thicket.Parent(st.Index)
		if st.Name != "" {
			d = thicket.ParentNamed(st.Name)
		}
	case thicket.KindSibling:
		d = thicket.Sibling(st.Index)
		if st.Name != "" {
			d = thicket.SiblingNamed(st.Name)
		}
	case thicket.KindRoot:
		d = thicket.Root(st.FromTop)
		if st.Name != "" {
			d = thicket.RootNamed(st.Name).FromTop(st.FromTop)
		}
	case thicket.KindReference:
		name := st.Name
		if name == "" {
			name = st.Of
		}
		d = thicket.Reference(name)
	}

	if st.Of != "" && kind != thicket.KindReference {
		d = d.Of(st.Of)
	}
	if st.Offset != 0 {
		d = d.Offset(st.Offset)
	}
	if st.Optional {
		d = d.Optional()
	}
	return d, nil
}
