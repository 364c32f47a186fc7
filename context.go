package thicket

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/ARTM2000/thicket/scene"
)

// Context owns the resolution state of one [scene.World]: the singleton
// registry, the component providers and the scheduler of deferred
// resolutions. Create one per world with [New]; [Context.Reset] returns it to
// its initial state between scenarios.
//
// A Context is not safe for concurrent use. Activation and deferred
// resolution run on the goroutine driving the host's ticks.
type Context struct {
	world *scene.World
	log   *slog.Logger

	singletons map[reflect.Type]any
	providers  map[reflect.Type]func() any
	awake      map[Behaviour]struct{}

	scheduler Scheduler
}

// New creates a Context for world and subscribes it to the world's destroy
// notifications.
func New(world *scene.World, opts ...Option) *Context {
	c := &Context{
		world:      world,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		singletons: make(map[reflect.Type]any),
		providers:  make(map[reflect.Type]func() any),
		awake:      make(map[Behaviour]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	world.Observe(c)
	return c
}

// World returns the world the context resolves in.
func (c *Context) World() *scene.World { return c.world }

// Attach adds component to n and activates it when it is a [Behaviour].
func (c *Context) Attach(n *scene.Node, component any) {
	n.Add(component)
	if b, ok := component.(Behaviour); ok {
		c.Awake(b)
	}
}

// Awake activates a behaviour: a singleton registers itself, then node
// bindings and reference points resolve in declaration order, followed by
// component bindings. Activating the same behaviour twice is a no-op.
//
// Resolution never fails: misses are logged and either left empty, created,
// or deferred until the partitions they depend on have loaded. Deferred
// bindings are filled on a later [Context.Tick], so they are not available
// while the behaviour is still activating.
func (c *Context) Awake(b Behaviour) {
	if _, done := c.awake[b]; done {
		return
	}
	self := b.Node()
	if self == nil {
		c.log.Error("behaviour is not attached to a node",
			slog.String("behaviour", behaviourName(b)),
			slog.Any("err", ErrMisconfigured))
		return
	}
	c.awake[b] = struct{}{}

	if _, ok := b.(singleton); ok {
		c.register(b)
	}

	act := &activation{c: c, b: b, self: self, named: make(map[string]*scene.Node)}
	bindings := b.Dependencies()
	for _, bd := range bindings {
		if bd.IsNode() {
			act.start(bd)
		}
	}
	for _, bd := range bindings {
		if !bd.IsNode() {
			act.start(bd)
		}
	}
}

// AwakeAll activates every behaviour in the world, visiting partitions in
// world order, roots alphabetically and subtrees depth first.
func (c *Context) AwakeAll() {
	for _, p := range EnumeratePartitions(c.world, nil) {
		c.AwakePartition(p)
	}
}

// AwakePartition activates the behaviours under p's roots, alphabetically
// and depth first. Hosts that stream partitions in call it as each one
// finishes loading.
func (c *Context) AwakePartition(p *scene.Partition) {
	for _, r := range EnumerateRoots(p) {
		c.awakeTree(r)
	}
}

func (c *Context) awakeTree(n *scene.Node) {
	for _, comp := range n.Components() {
		if b, ok := comp.(Behaviour); ok {
			c.Awake(b)
		}
	}
	for _, child := range n.Children() {
		c.awakeTree(child)
	}
}

// Tick resumes deferred resolutions whose partitions have loaded and
// returns how many ran.
func (c *Context) Tick() int {
	return c.scheduler.Tick()
}

// Pending returns the number of deferred resolutions still waiting.
func (c *Context) Pending() int {
	return c.scheduler.Pending()
}

// Scheduler exposes the deferred resolution queue.
func (c *Context) Scheduler() *Scheduler { return &c.scheduler }

// Destroy destroys n and its subtree, unregistering singletons living on
// them.
func (c *Context) Destroy(n *scene.Node) {
	n.Destroy()
}

// NodeDestroyed implements [scene.Observer].
func (c *Context) NodeDestroyed(n *scene.Node) {
	for _, comp := range n.Components() {
		if _, ok := comp.(singleton); ok {
			c.unregister(comp)
		}
		if b, ok := comp.(Behaviour); ok {
			delete(c.awake, b)
		}
	}
}

// Reset clears the singleton registry, the activation record and every
// pending deferred resolution. Providers are kept.
func (c *Context) Reset() {
	clear(c.singletons)
	clear(c.awake)
	c.scheduler.reset()
}

func behaviourName(b any) string {
	return typeName(reflect.TypeOf(b))
}
