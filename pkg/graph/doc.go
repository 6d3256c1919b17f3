// Package graph provides serialization types for extracted topologies.
//
// This package defines the wire format used for JSON files, API responses,
// caching and snapshot storage. It sits at the boundary between the in-memory
// records of package topology and external consumers such as renderers.
//
// # Core Types
//
//   - [Graph]: all nodes and edges of a topology
//   - [LayerView]: the nodes and intra-layer edges of one layer
//   - [Summary]: per-layer node counts
//   - [Stat]: a cell value together with its column name and unit
//
// # Conversion
//
// [FromRecords] turns records into a [Graph]. Column references become
// [Stat] values that carry the cell, the column name and its unit. When a
// column has no unit, the panel-level [Units] fill it in. [Graph.Records]
// converts back, so a cached graph can be partitioned without re-reading the
// original frames.
//
// # Render Defaults
//
// [Node.FillColor], [Edge.StrokeColor] and [Edge.Width] apply the defaults a
// renderer uses when a row has no explicit styling: #4A90E2 for nodes, #999
// for edges and a width of 2.
//
// # Serialization
//
//	data, _ := graph.MarshalGraph(g)        // Graph → []byte
//	g, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//	graph.WriteGraphFile(g, "topo.json")    // Graph → file
//	g, _ = graph.ReadGraphFile("topo.json") // file → Graph
package graph
