package thicket

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/ARTM2000/thicket/scene"
)

// Singleton is embedded by behaviours of which at most one instance should
// be live. The first instance to activate is registered under its type and
// returned by [Instance]; later ones are reported and ignored.
//
//	type AudioManager struct {
//		scene.Base
//		thicket.Singleton
//	}
type Singleton struct{}

func (Singleton) singletonMarker() {}

type singleton interface {
	singletonMarker()
}

// Instance returns the live instance of the singleton type T. When none is
// registered, the loaded partitions are scanned for an instance that has not
// activated yet. While any partition is loading it returns [ErrPending];
// once everything is loaded and nothing was found, a new instance is created
// on a node of the persistent partition.
func Instance[T comparable](c *Context) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]()
	v, wait, err := c.instance(Target{Type: typeName(typ), Match: scene.Is[T](), typ: typ})
	if err != nil {
		return zero, err
	}
	if wait != nil {
		return zero, ErrPending
	}
	return v.(T), nil
}

// Provide registers factory as the constructor used to auto-create
// components of type T.
func Provide[T any](c *Context, factory func() T) {
	c.providers[reflect.TypeFor[T]()] = func() any { return factory() }
}

func (c *Context) instance(t Target) (any, []*scene.Partition, error) {
	if v, ok := c.singletons[t.typ]; ok {
		return v, nil, nil
	}

	// Activation order is not guaranteed, so the instance may exist without
	// having registered yet.
	ps := EnumeratePartitions(c.world, nil)
	for _, p := range ps {
		if !p.IsLoaded() {
			continue
		}
		for _, r := range EnumerateRoots(p) {
			if v := componentIn(r, t.Match, nil); v != nil {
				return v, nil, nil
			}
		}
	}
	if wait := loading(ps); wait != nil {
		return nil, wait, nil
	}

	v, err := c.construct(t)
	if err != nil {
		return nil, nil, err
	}
	c.log.Warn("singleton not found in any partition, creating it", slog.String("type", t.Type))
	n := c.world.Persistent().NewNode(t.Type)
	c.Attach(n, v)
	if _, ok := c.singletons[t.typ]; !ok {
		c.singletons[t.typ] = v
	}
	return v, nil, nil
}

// register stores inst as the instance of its type. It reports false when
// another instance already holds the entry.
func (c *Context) register(inst any) bool {
	t := reflect.TypeOf(inst)
	if cur, ok := c.singletons[t]; ok {
		if cur != inst {
			c.log.Warn("multiple singleton instances, keeping the first",
				slog.String("type", typeName(t)),
				slog.Any("err", fmt.Errorf("%w: %s", ErrDuplicateSingleton, t)))
		}
		return false
	}
	c.singletons[t] = inst
	c.log.Debug("singleton registered", slog.String("type", typeName(t)))
	return true
}

func (c *Context) unregister(inst any) {
	t := reflect.TypeOf(inst)
	if cur, ok := c.singletons[t]; ok && cur == inst {
		delete(c.singletons, t)
		c.log.Debug("singleton unregistered", slog.String("type", typeName(t)))
	}
}

// construct builds a component for auto-creation: the target's own
// constructor, then a registered provider, then a zero struct.
func (c *Context) construct(t Target) (any, error) {
	if t.New != nil {
		return t.New(), nil
	}
	if t.typ != nil {
		if f, ok := c.providers[t.typ]; ok {
			return f(), nil
		}
		if t.typ.Kind() == reflect.Pointer && t.typ.Elem().Kind() == reflect.Struct {
			return reflect.New(t.typ.Elem()).Interface(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotConstructible, t.Type)
}
