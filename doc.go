// Package thicket injects dependencies into scene-graph behaviours by
// searching the hierarchy around them.
//
// A behaviour lists its injectable slots as [Binding]s. Each binding carries
// one or more descriptors naming a search strategy; when the behaviour
// activates, the strategies run against the node tree and the first match is
// written into the slot.
//
// # Quick Start
//
//	type Turret struct {
//		scene.Base
//		gun    *Gun
//		team   *scene.Node
//		radar  *Radar
//	}
//
//	func (t *Turret) Dependencies() []*thicket.Binding {
//		return []*thicket.Binding{
//			thicket.Field("gun", &t.gun, thicket.ChildComponent()),
//			thicket.NodeField("team", &t.team, thicket.Root(0)),
//			thicket.Field("radar", &t.radar, thicket.GlobalComponent()),
//		}
//	}
//
//	ctx := thicket.New(world)
//	ctx.Attach(node, &Turret{})
//
// # Strategies
//
// Component strategies: [OwnComponent], [ChildComponent], [ParentComponent],
// [SiblingComponent], [FamilyComponent], [FamilyFromRoot],
// [GlobalComponent], [ReferenceComponent] and the automatic [Component].
// Node strategies: [Child], [ChildNamed], [Parent], [ParentNamed],
// [Sibling], [SiblingNamed], [Root], [RootNamed] and [Reference].
//
// Every strategy starts from the behaviour's node, or from the node named by
// Of, moved by Offset generations. Roots are always visited in alphabetical
// order.
//
// # Fallback Chains
//
// Several descriptors on one binding are tried in order; all but the last
// are optional, and the first success wins:
//
//	thicket.NodeField("grave", &g.grave,
//		thicket.Sibling(10),
//		thicket.ChildNamed("Dead"),
//		thicket.ParentNamed("Dead"),
//	)
//
// # Missing Dependencies
//
// Optional misses are logged and left empty. Required misses are logged and
// the dependency is created in place. When the outcome depends on a
// partition that is still loading, resolution is deferred and resumed by
// [Context.Tick] once it has loaded.
//
// # Singletons
//
// Behaviours embedding [Singleton] register when they activate; [Instance]
// returns the registered instance, finding or creating one when needed.
package thicket
