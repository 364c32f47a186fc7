// Package scene is a minimal scene-graph host: a [World] of ordered
// [Partition]s, each holding a forest of [Node]s that carry components.
//
// It provides the primitives a hierarchy-aware resolver needs: parent, child
// and sibling-index access and mutation, root enumeration, load state,
// persistent marking, component attach and typed queries.
//
//	w := scene.NewWorld()
//	main := w.AddPartition("Main", scene.Loaded)
//	team := main.NewNode("Blue team")
//	player := main.NewNode("Player")
//	player.SetParent(team)
//	player.Add(&Health{})
//
//	h, ok := scene.Get[*Health](player)
package scene
