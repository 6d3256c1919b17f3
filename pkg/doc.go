// Package pkg provides the core libraries for Topolayer.
//
// # Overview
//
// Topolayer turns a pair of tables, one row per service and one row per
// connection, into a topology that can be viewed one layer at a time. Which
// layer a node belongs to is itself a column of the node table. The pkg
// directory is organized into four areas:
//
//  1. [frame], [topology] - Input tables and record extraction
//  2. [layers], [graph] - Layer configuration, partitioning and wire types
//  3. [cache], [store], [observability] - Infrastructure
//  4. [pipeline], [render] - Orchestration and export
//
// # Architecture
//
// The typical data flow:
//
//	JSON frames / CSV files
//	         ↓
//	    [frame] package (tables, column resolution)
//	         ↓
//	    [topology] package (node and edge records, diagnostics)
//	         ↓
//	    [layers] package (node → layer index, per-layer views)
//	         ↓
//	    [graph] package (JSON/BSON wire format)
//	         ↓
//	    JSON / DOT / SVG / PNG / PDF output
//
// # Quick Start
//
// Extract a topology and render its first layer:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/topolayer/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    Inputs:  []string{"nodes.csv", "edges.csv"},
//	    Layer:   1,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Input and Extraction
//
// [frame] - Column-oriented tables read from frame JSON (plain frames or the
// schema/data form) and CSV. Column names are resolved exactly, then
// case-insensitively, then after normalization.
//
// [topology] - Turns the node and edge tables into records according to a
// [topology.ParseConfig]. Missing columns never fail the run; they produce
// [topology.Diagnostic] values instead.
//
// ## Layers and Wire Format
//
// [layers] - Layer labels (2 to 10), the sidebar order and the partition of
// nodes by layer. An edge is part of a layer's view only when both of its
// endpoints sit in that layer.
//
// [graph] - Serialization types shared by the CLI, the HTTP API and the
// snapshot store.
//
// [config] - Panel configuration files (TOML, YAML or JSON).
//
// ## Infrastructure
//
// [cache] - Content-addressed caching of extraction results. FileCache for
// the CLI, MemoryCache and RedisCache for the server.
//
// [store] - Snapshot persistence in memory or MongoDB.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [errors] - Coded errors shared by every entry point.
//
// ## Orchestration and Export
//
// [pipeline] - Load → extract → partition → view → render, used by both the
// CLI and the HTTP API.
//
// [render/nodelink] - DOT export of a layer view and SVG rendering with
// Graphviz.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/topology/...           # Specific package
//	go test -run Properties ./pkg/...    # Property tests only
//
// [frame]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/frame
// [topology]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/topology
// [layers]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/layers
// [graph]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/graph
// [config]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/topolayer/pkg/render/nodelink
package pkg
