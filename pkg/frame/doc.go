// Package frame provides the columnar table model consumed by topolayer.
//
// # Overview
//
// A [Frame] is an ordered collection of named, typed columns ([Field]) whose
// values are aligned by row index: value i of every field describes the same
// logical record. Frames carry an optional Name and RefID, which the topology
// extractor uses to tell node tables from edge tables.
//
// # Resolving Columns
//
// [Resolve] locates a column by name using an ordered list of [Strategy]
// values. The default order is:
//
//  1. Exact: the names are byte-for-byte equal
//  2. CaseInsensitive: the names are equal after lower-casing
//  3. Normalized: the names are equal after [Normalize], which lower-cases
//     and strips underscores, hyphens and whitespace
//
// The first strategy that finds a column wins, so an exactly named column is
// always preferred over one that only matches after normalization:
//
//	f, ok := frame.Resolve(fr, "main_stat") // matches "main_stat", "Main Stat", "mainStat"
//
// # Reading Frames
//
// [ReadJSON] accepts a frame document ({"frames": [...]}), a bare array of
// frames, or the host's data-frame JSON where each element has a "schema"
// and a "data" object. [ReadCSV] turns one CSV file into one frame and infers
// number columns from their content.
package frame
