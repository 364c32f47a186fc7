package thicket

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ARTM2000/thicket/scene"
)

// activation is the resolution state of one behaviour. It outlives Awake
// while deferred chains still refer to it.
type activation struct {
	c    *Context
	b    Behaviour
	self *scene.Node

	// refs are the resolved reference points in registration order; named
	// indexes them by binding name for Of lookups.
	refs  []*scene.Node
	named map[string]*scene.Node
}

// ---------------------------------------------------------------------------
// Fallback chain
// ---------------------------------------------------------------------------

// chain evaluates the descriptors of one binding in order. All but the last
// descriptor are optional; the first one that fills the binding ends the
// chain. A descriptor waiting on a loading partition suspends the whole
// chain, which resumes at that same descriptor.
type chain struct {
	act   *activation
	b     *Binding
	descs []descriptor
	next  int
}

func (a *activation) start(b *Binding) {
	(&chain{act: a, b: b, descs: b.chain()}).run()
}

func (ch *chain) run() {
	a, b := ch.act, ch.b
	for ; ch.next < len(ch.descs); ch.next++ {
		if b.isSet() {
			break
		}
		d := ch.descs[ch.next]
		if ch.next < len(ch.descs)-1 {
			d.optional = true
		}
		if wait := a.resolve(b, d); wait != nil {
			a.logger(b, d).Debug("partition still loading, resolution deferred",
				slog.Any("waiting_on", wait))
			a.c.scheduler.Defer(wait, ch.resume)
			return
		}
	}
	ch.finish()
}

// resume continues a deferred chain. A behaviour destroyed meanwhile is left
// alone.
func (ch *chain) resume() {
	if !ch.act.self.Alive() {
		ch.act.c.log.Debug("behaviour destroyed before deferred resolution",
			slog.String("behaviour", behaviourName(ch.act.b)),
			slog.String("binding", ch.b.name))
		return
	}
	ch.run()
}

func (ch *chain) finish() {
	a, b := ch.act, ch.b
	if !b.reference {
		return
	}
	log := a.c.log.With(slog.String("behaviour", behaviourName(a.b)), slog.String("binding", b.name))
	if !b.IsNode() {
		log.Error("only node bindings can be reference points", slog.Any("err", ErrMisconfigured))
		return
	}
	n := b.getNode()
	if n == nil {
		log.Error("reference point is unassigned", slog.Any("err", ErrMisconfigured))
		return
	}
	a.refs = append(a.refs, n)
	a.named[b.name] = n
}

// resolve runs one descriptor. It returns the partitions to wait for when
// the outcome depends on a partition that is still loading.
func (a *activation) resolve(b *Binding, d descriptor) []*scene.Partition {
	log := a.logger(b, d)
	if err := d.validate(); err != nil {
		log.Error("invalid dependency descriptor", slog.Any("err", err))
		return nil
	}
	if !b.IsNode() && (b.target.Match == nil || b.target.Set == nil) {
		log.Error("component binding needs Match and Set", slog.Any("err", ErrMisconfigured))
		return nil
	}

	origin := a.self
	if d.of != "" {
		n, wait := a.origin(d, log)
		if wait != nil || n == nil {
			return wait
		}
		origin = n
	}
	start := OffsetTransform(origin, d.offset)

	if b.IsNode() {
		return a.resolveNode(b, d, start, log)
	}
	return a.resolveComponent(b, d, start, log)
}

func (a *activation) logger(b *Binding, d descriptor) *slog.Logger {
	return a.c.log.With(
		slog.String("behaviour", behaviourName(a.b)),
		slog.String("binding", b.name),
		slog.String("strategy", d.String()),
		slog.String("node", a.self.Path()),
	)
}

// ---------------------------------------------------------------------------
// Component strategies
// ---------------------------------------------------------------------------

func (a *activation) resolveComponent(b *Binding, d descriptor, start *scene.Node, log *slog.Logger) []*scene.Partition {
	v, wait, err := a.findComponent(b.target, d, start)
	switch {
	case v != nil:
		b.target.Set(v)
		log.Debug("dependency resolved", slog.String("type", b.target.Type))
	case wait != nil:
		return wait
	case errors.Is(err, ErrNoReferencePoints) && d.optional:
		log.Info("optional dependency has no reference points to search",
			slog.String("type", b.target.Type),
			slog.Any("err", err))
	case err != nil:
		log.Error("dependency cannot be resolved", slog.Any("err", err))
	case d.optional:
		log.Info("optional dependency not found", slog.String("type", b.target.Type))
	default:
		log.Warn("dependency not found, creating it",
			slog.String("type", b.target.Type),
			slog.Any("err", ErrNotFound))
		a.createComponent(b, d, start, log)
	}
	return nil
}

func (a *activation) findComponent(t Target, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	m := matcher(t.Match)
	switch d.kind {
	case KindOwnComponent:
		return componentOn(s, m, nil), nil, nil

	case KindChildComponent:
		if d.skipSelf {
			return componentInChildren(s, m, nil), nil, nil
		}
		return componentIn(s, m, nil), nil, nil

	case KindParentComponent:
		p := s
		if d.skipSelf {
			p = s.Parent()
		}
		for ; p != nil; p = p.Parent() {
			if v := componentOn(p, m, nil); v != nil {
				return v, nil, nil
			}
		}
		return nil, nil, nil

	case KindSiblingComponent:
		return a.siblingComponent(m, d, s)

	case KindFamilyComponent:
		return a.familyComponent(m, d, s)

	case KindGlobalComponent:
		return a.globalComponent(t, d, s)

	case KindReferenceComponent:
		return a.referenceComponent(m, d, s)

	case KindComponent:
		return a.autoComponent(t, d, s)
	}
	return nil, nil, fmt.Errorf("%w: %s is not a component strategy", ErrMisconfigured, d.kind)
}

func (a *activation) siblingComponent(m matcher, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	var skip *scene.Node
	if d.skipSelf {
		skip = s
	}
	if parent := s.Parent(); parent != nil {
		for _, c := range parent.Children() {
			if v := componentOn(c, m, skip); v != nil {
				return v, nil, nil
			}
		}
		return nil, nil, nil
	}

	v, wait := rootPass(EnumeratePartitions(a.c.world, s), func(r *scene.Node) any {
		return componentOn(r, m, skip)
	})
	return v, wait, nil
}

func (a *activation) familyComponent(m matcher, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	var anchor *scene.Node
	overshot := false
	if d.fromRoot {
		anchor = levelFromTop(s, d.generations)
	} else {
		anchor, overshot = climb(s, d.generations)
	}

	if overshot {
		// The family reaches above the forest root: every forest is family.
		var skip *scene.Node
		if d.skipSelf {
			skip = s
		}
		v, wait := rootPass(EnumeratePartitions(a.c.world, s), func(r *scene.Node) any {
			return componentIn(r, m, skip)
		})
		if v == nil && wait == nil && d.skipSelf {
			v = componentInChildren(s, m, nil)
		}
		return v, wait, nil
	}

	if !d.skipSelf {
		return componentIn(anchor, m, nil), nil, nil
	}

	var v any
	withDetached(s, func() {
		if anchor != s {
			v = componentIn(anchor, m, nil)
		}
		if v == nil && anchor.Root() != s {
			v = componentInChildren(s, m, nil)
		}
	})
	return v, nil, nil
}

// withDetached runs fn with n temporarily detached from its parent, then
// puts n back at its original parent and sibling index.
func withDetached(n *scene.Node, fn func()) {
	parent := n.Parent()
	if parent == nil {
		fn()
		return
	}
	index := n.SiblingIndex()
	n.SetParent(nil)
	defer func() {
		n.SetParent(parent)
		n.SetSiblingIndex(index)
	}()
	fn()
}

func (a *activation) globalComponent(t Target, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	m := matcher(t.Match)
	if d.of != "" {
		if v := componentOn(s, m, nil); v != nil {
			return v, nil, nil
		}
	}

	// A singleton always exists once everything loaded, so optional
	// bindings do not ask for one.
	if !d.optional && t.singleton {
		if v, wait, err := a.c.instance(t); v != nil || wait != nil || err != nil {
			return v, wait, err
		}
	}

	v, wait := searchRoots(EnumeratePartitions(a.c.world, s),
		func(r *scene.Node) any { return componentOn(r, m, nil) },
		func(r *scene.Node) any { return componentInChildren(r, m, nil) },
	)
	return v, wait, nil
}

func (a *activation) referenceComponent(m matcher, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	search := componentOn
	if d.deep {
		search = componentIn
	}
	if d.of != "" {
		return search(s, m, nil), nil, nil
	}
	if len(a.refs) == 0 {
		return nil, nil, fmt.Errorf("%w: use Component for an automatic search", ErrNoReferencePoints)
	}
	for _, r := range a.refs {
		if !r.Alive() {
			continue
		}
		if v := search(r, m, nil); v != nil {
			return v, nil, nil
		}
	}
	return nil, nil, nil
}

func (a *activation) autoComponent(t Target, d descriptor, s *scene.Node) (any, []*scene.Partition, error) {
	m := matcher(t.Match)
	if d.of == "" {
		if !d.optional && t.singleton {
			if v, wait, err := a.c.instance(t); v != nil || wait != nil || err != nil {
				return v, wait, err
			}
		}
		for _, r := range a.refs {
			if v := componentOn(r, m, nil); r.Alive() && v != nil {
				return v, nil, nil
			}
		}
	}

	if v := componentIn(s, m, nil); v != nil {
		return v, nil, nil
	}

	// Climb one level at a time; the subtree already searched is skipped.
	cur := s
	for p := cur.Parent(); p != nil; cur, p = p, p.Parent() {
		siblings := p.Children()
		for _, c := range siblings {
			if v := componentOn(c, m, cur); v != nil {
				return v, nil, nil
			}
		}
		for _, c := range siblings {
			if c == cur {
				continue
			}
			if v := componentInChildren(c, m, nil); v != nil {
				return v, nil, nil
			}
		}
		if v := componentOn(p, m, nil); v != nil {
			return v, nil, nil
		}
	}

	own := cur
	v, wait := rootPass(EnumeratePartitions(a.c.world, s), func(r *scene.Node) any {
		return componentIn(r, m, own)
	})
	return v, wait, nil
}
