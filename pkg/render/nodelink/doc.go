// Package nodelink draws one layer of a topology as a node-link diagram.
//
// [ToDOT] emits Graphviz DOT for a [graph.LayerView]: nodes are filled with
// their background color (or the default blue), edges carry their color,
// width and dash pattern, and the graph asks for the circular `circo`
// layout. [RenderSVG] runs Graphviz in-process through
// [github.com/goccy/go-graphviz]:
//
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG go through SVG and need rsvg-convert on the PATH.
package nodelink
