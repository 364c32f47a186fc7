package thicket

import (
	"fmt"
	"log/slog"

	"github.com/ARTM2000/thicket/scene"
)

// createNode materializes a missing node where the descriptor expected it
// and stores it in the binding.
func (a *activation) createNode(b *Binding, d descriptor, s *scene.Node, log *slog.Logger) {
	name := d.named
	if name == "" {
		name = b.name
	}
	part := s.Partition()
	n := part.NewNode(name)

	switch d.kind {
	case KindParent:
		// Take s's place and adopt it.
		parent, index := s.Parent(), s.SiblingIndex()
		if parent != nil {
			n.SetParent(parent)
		}
		n.SetSiblingIndex(index)
		s.SetParent(n)

	case KindChild:
		for count := s.ChildCount(); count < d.index; count++ {
			part.NewNode(fmt.Sprintf("Child%d", count+1)).SetParent(s)
		}
		n.SetParent(s)
		if d.named == "" {
			n.SetSiblingIndex(d.index)
		}

	case KindSibling:
		parent := s.Parent()
		count := part.RootCount() - 1
		if parent != nil {
			count = parent.ChildCount()
		}
		for ; count < d.index; count++ {
			pad := part.NewNode(fmt.Sprintf("Sibling%d", count+1))
			if parent != nil {
				pad.SetParent(parent)
			}
		}
		if parent != nil {
			n.SetParent(parent)
		}
		if d.named == "" {
			n.SetSiblingIndex(d.index)
		}

	case KindRoot:
		if d.fromTop != 0 {
			if parent := levelFromTop(s, d.fromTop).Parent(); parent != nil {
				n.SetParent(parent)
			}
		}
	}

	b.setNode(n)
	log.Debug("node created", slog.String("target", n.Path()))
}

// createComponent constructs the missing component, attaches it where the
// descriptor's family implies and stores it in the binding.
func (a *activation) createComponent(b *Binding, d descriptor, s *scene.Node, log *slog.Logger) {
	v, err := a.c.construct(b.target)
	if err != nil {
		log.Error("dependency cannot be created", slog.Any("err", err))
		return
	}

	var holder *scene.Node
	switch d.kind {
	case KindChildComponent, KindFamilyComponent:
		holder = s.Partition().NewNode(b.target.Type)
		holder.SetParent(s)

	case KindSiblingComponent:
		holder = s.Partition().NewNode(b.target.Type)
		if parent := s.Parent(); parent != nil {
			holder.SetParent(parent)
		}

	case KindReferenceComponent:
		holder = s
		if d.of == "" && len(a.refs) > 0 {
			holder = a.refs[min(max(d.offset, 0), len(a.refs)-1)]
		}

	default:
		holder = s
	}

	b.target.Set(v)
	a.c.Attach(holder, v)
	log.Debug("component created", slog.String("type", b.target.Type), slog.String("target", holder.Path()))
}
