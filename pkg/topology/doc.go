// Package topology turns node and edge frames into node and edge records.
//
// # Overview
//
// A topology is described by two tables: a node table with one row per node
// and an edge table with one row per edge. Columns are located by name with
// [frame.Resolve]; the names come from a [ParseConfig], whose zero value means
// "use the canonical names" (id, title, layer, source, target, ...).
//
// # Extraction
//
//	res := topology.Extract(frames, topology.ParseConfig{NodeLayerField: "tier"})
//	for _, d := range res.Diagnostics {
//	    log.Warn(d.Message, "role", d.Role, "available", d.Available)
//	}
//
// [Extract] picks the node table (first frame whose name contains "node" or
// whose RefID is "A", else the first frame) and the edge table (first frame
// whose name contains "edge" or whose RefID is "B", else the second frame),
// then runs [Transformer.ExtractNodes] and [Transformer.ExtractEdges].
//
// # Fallbacks
//
// When the id or title column (source or target for edges) cannot be found
// by name, the string and number columns of the table are used by position:
// the first becomes the id, the second the title. A table without such
// columns yields no records and a [Diagnostic].
//
// # Failure Model
//
// Extraction never fails. Unresolvable columns and values that cannot be
// coerced are reported as [Diagnostic] values next to whatever records could
// be produced. Callers decide whether to log, surface or ignore them.
package topology
