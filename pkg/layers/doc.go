// Package layers partitions a topology into layers and derives per-layer views.
//
// # Overview
//
// Every node record carries a 1-based layer number. The [Index] maps each
// node to its zero-based layer index (layer - 1) and counts nodes per layer
// for a configured number of layers L. Nodes whose index falls outside
// [0, L) are unassigned: they appear in no count and no view.
//
// # Views
//
// [Index.View] returns the nodes of one layer and the edges whose endpoints
// both map to that layer. Edges crossing layers, and edges whose endpoints
// are unknown, are dropped silently:
//
//	ix := layers.Build(res.Nodes, res.Edges, 3)
//	fmt.Println(ix.Counts())  // [4 2 0]
//	v := ix.View(0)           // nodes and intra-layer edges of layer 1
//
// # Partitioner
//
// A [Partitioner] keeps the last index and rebuilds it only when it is given
// a different node or edge list, so switching between layers only
// recomputes the view.
//
// # Configuration
//
// [Layer] describes one configured layer (label, icon, description).
// [DefaultLayers] returns the two default layers; [Add] and [Remove] enforce
// the [MinLayers]..[MaxLayers] bounds.
package layers
