package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/render"
)

// pointsPerInch converts panel pixel spacing to Graphviz inches.
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// Detailed adds the subtitle, stats and metadata to node labels.
	Detailed bool
	// NodeSpacing is the minimum node distance in pixels. Zero leaves the
	// Graphviz default.
	NodeSpacing float64
}

// ToDOT converts a layer view to Graphviz DOT. Edges whose endpoints are not
// both in the view are skipped.
func ToDOT(v graph.LayerView, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", v.Label)
	if opts.NodeSpacing > 0 {
		fmt.Fprintf(&buf, "  mindist=%.2f;\n", opts.NodeSpacing/pointsPerInch)
	}
	buf.WriteString("  node [shape=circle, style=filled, fontcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	present := make(map[string]bool, len(v.Nodes))
	for i := range v.Nodes {
		n := &v.Nodes[i]
		present[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for i := range v.Edges {
		e := &v.Edges[i]
		if !present[e.Source] || !present[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", n.FillColor()),
	}
	if c := n.BorderColor.String(); c != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	if c := n.IconColor.String(); c != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", c))
	}
	if n.LinkURL != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", n.LinkURL))
	}
	if n.Type != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Type))
	}
	return attrs
}

func nodeLabel(n *graph.Node, detailed bool) string {
	title := n.Title
	if title == "" {
		title = n.ID
	}
	if !detailed {
		return title
	}

	parts := []string{title}
	if n.SubTitle != "" {
		parts = append(parts, n.SubTitle)
	}
	for _, s := range []*graph.Stat{n.MainStat, n.SecondaryStat} {
		if v := statText(s); v != "" {
			parts = append(parts, v)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e *graph.Edge) []string {
	attrs := []string{
		fmt.Sprintf("color=%q", e.StrokeColor()),
		"penwidth=" + strconv.FormatFloat(e.Width(), 'f', -1, 64),
	}
	if e.StrokeDasharray != "" {
		attrs = append(attrs, "style=dashed")
	}
	if v := statText(e.MainStat); v != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", v))
	}
	return attrs
}

func statText(s *graph.Stat) string {
	v := s.String()
	if v == "" {
		return ""
	}
	if s.Unit != "" {
		return v + " " + s.Unit
	}
	return v
}

// RenderSVG lays out dot with circo and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.CIRCO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders dot as PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders dot as PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
