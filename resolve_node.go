package thicket

import (
	"log/slog"

	"github.com/ARTM2000/thicket/scene"
)

// ---------------------------------------------------------------------------
// Node strategies
// ---------------------------------------------------------------------------

func (a *activation) resolveNode(b *Binding, d descriptor, start *scene.Node, log *slog.Logger) []*scene.Partition {
	var target *scene.Node
	switch {
	case d.kind == KindReference:
		target = start
	case d.named == "":
		target = a.nodeAt(d, start)
	default:
		var wait []*scene.Partition
		target, wait = a.nodeNamed(d, start)
		if wait != nil {
			return wait
		}
	}

	switch {
	case target != nil:
		b.setNode(target)
		log.Debug("dependency resolved", slog.String("target", target.Path()))
	case d.optional:
		log.Info("optional node not found")
	default:
		log.Warn("node not found, creating it", slog.Any("err", ErrNotFound))
		a.createNode(b, d, start, log)
	}
	return nil
}

// nodeAt resolves position based descriptors. Out of range indexes yield
// nil.
func (a *activation) nodeAt(d descriptor, s *scene.Node) *scene.Node {
	switch d.kind {
	case KindParent:
		return s.Parent()
	case KindChild:
		return s.Child(d.index)
	case KindSibling:
		if parent := s.Parent(); parent != nil {
			return parent.Child(d.index)
		}
		roots := EnumerateRoots(s.Partition())
		if d.index < 0 || d.index >= len(roots) {
			return nil
		}
		return roots[d.index]
	case KindRoot:
		return levelFromTop(s, d.fromTop)
	}
	return nil
}

// nodeNamed resolves name based descriptors.
func (a *activation) nodeNamed(d descriptor, s *scene.Node) (*scene.Node, []*scene.Partition) {
	name := d.named
	switch d.kind {
	case KindParent:
		for p := s.Parent(); p != nil; p = p.Parent() {
			if p.Name() == name {
				return p, nil
			}
		}
		return nil, nil

	case KindChild:
		return FindDescendant(s, name, nil), nil

	case KindSibling:
		return a.siblingNamed(s, name)

	case KindRoot:
		level := levelFromTop(s, d.fromTop)
		if level.Name() == name {
			return level, nil
		}
		if n, wait := a.siblingNamed(level, name); n != nil || wait != nil {
			return n, wait
		}
		for _, t := range pathFromTop(level, s) {
			if t.Name() == name {
				return t, nil
			}
		}
	}
	return nil, nil
}

// siblingNamed looks for name among s and its siblings; at root level the
// roots of every partition are the siblings.
func (a *activation) siblingNamed(s *scene.Node, name string) (*scene.Node, []*scene.Partition) {
	if parent := s.Parent(); parent != nil {
		for _, c := range parent.Children() {
			if c.Name() == name {
				return c, nil
			}
		}
		return nil, nil
	}
	return rootPass(EnumeratePartitions(a.c.world, s), named(name, nil))
}

// named returns a root visitor matching name, ignoring skip.
func named(name string, skip *scene.Node) func(*scene.Node) *scene.Node {
	return func(r *scene.Node) *scene.Node {
		if r != skip && r.Name() == name {
			return r
		}
		return nil
	}
}

// ---------------------------------------------------------------------------
// Origin lookup
// ---------------------------------------------------------------------------

// origin finds the node a descriptor's Of names: a reference point bound
// under that name, a reference point node with that name, then the outward
// search. A required origin that does not exist is created as a root.
func (a *activation) origin(d descriptor, log *slog.Logger) (*scene.Node, []*scene.Partition) {
	name := d.of
	if n, ok := a.named[name]; ok && n.Alive() {
		return n, nil
	}
	for _, r := range a.refs {
		if r.Alive() && r.Name() == name {
			return r, nil
		}
	}

	n, wait := a.findNamed(name)
	if n != nil || wait != nil {
		return n, wait
	}
	if d.optional {
		log.Info("optional origin not found", slog.String("of", name))
		return nil, nil
	}
	log.Warn("origin not found, creating it", slog.String("of", name), slog.Any("err", ErrNotFound))
	return a.self.Partition().NewNode(name), nil
}

// findNamed searches outward from the behaviour's node: its subtree, then at
// each ancestor level the siblings, their subtrees and the ancestor itself,
// then the roots of every partition and finally their subtrees.
func (a *activation) findNamed(name string) (*scene.Node, []*scene.Partition) {
	s := a.self
	if n := findIn(s, name); n != nil {
		return n, nil
	}

	cur := s
	for p := cur.Parent(); p != nil; cur, p = p, p.Parent() {
		siblings := p.Children()
		for _, c := range siblings {
			if c != cur && c.Name() == name {
				return c, nil
			}
		}
		for _, c := range siblings {
			if c == cur {
				continue
			}
			if n := FindDescendant(c, name, nil); n != nil {
				return n, nil
			}
		}
		if p.Name() == name {
			return p, nil
		}
	}

	own := cur
	return searchRoots(EnumeratePartitions(a.c.world, s),
		named(name, own),
		func(r *scene.Node) *scene.Node {
			if r == own {
				return nil
			}
			return FindDescendant(r, name, nil)
		},
	)
}
