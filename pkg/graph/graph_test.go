package graph

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

func sampleRecords() ([]topology.NodeRecord, []topology.EdgeRecord) {
	stat := frame.NewField("latency", frame.FieldTypeNumber, 12.5, 40.0)
	stat.Config.Unit = "ms"
	count := frame.NewField("calls", frame.FieldTypeNumber, 3.0, 4.0)
	bg := frame.NewField("backgroundColor", frame.FieldTypeString, "#fff", "#000")
	width := 4.0

	nodes := []topology.NodeRecord{
		{
			ID: "a", Title: "A", Layer: 1,
			MainStat:        &topology.FieldRef{Field: stat, Row: 0},
			SecondaryStat:   &topology.FieldRef{Field: count, Row: 0},
			BackgroundColor: bg.Slice(0),
			Metadata:        map[string]any{"region": "us"},
		},
		{ID: "b", Title: "B", Layer: 2},
	}
	edges := []topology.EdgeRecord{
		{ID: "a-b-0", Source: "a", Target: "b", Thickness: &width, MainStat: &topology.FieldRef{Field: count, Row: 1}},
		{ID: "e2", Source: "b", Target: "a", Color: "red"},
	}
	return nodes, edges
}

func TestFromRecords(t *testing.T) {
	nodes, edges := sampleRecords()
	g := FromRecords(nodes, edges, Units{NodeSecondaryStat: "req", NodeMainStat: "s", EdgeMainStat: "ops"})

	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Fatalf("graph = %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	a := g.Nodes[0]
	if a.MainStat.Value != 12.5 || a.MainStat.Unit != "ms" || a.MainStat.Field != "latency" {
		t.Errorf("MainStat = %+v, column unit should win", a.MainStat)
	}
	if a.SecondaryStat.Unit != "req" {
		t.Errorf("SecondaryStat.Unit = %q, want panel unit req", a.SecondaryStat.Unit)
	}
	if a.FillColor() != "#fff" {
		t.Errorf("FillColor() = %q, want #fff", a.FillColor())
	}
	if g.Nodes[1].FillColor() != DefaultNodeColor {
		t.Errorf("FillColor() = %q, want %q", g.Nodes[1].FillColor(), DefaultNodeColor)
	}
	if g.Nodes[1].MainStat != nil {
		t.Errorf("MainStat = %+v, want nil", g.Nodes[1].MainStat)
	}

	e0, e1 := g.Edges[0], g.Edges[1]
	if e0.Width() != 4 || e1.Width() != DefaultEdgeWidth {
		t.Errorf("Width() = %v/%v, want 4/%v", e0.Width(), e1.Width(), DefaultEdgeWidth)
	}
	if e0.StrokeColor() != DefaultEdgeColor || e1.StrokeColor() != "red" {
		t.Errorf("StrokeColor() = %q/%q", e0.StrokeColor(), e1.StrokeColor())
	}
	if e0.MainStat.Value != 4.0 || e0.MainStat.Unit != "ops" {
		t.Errorf("edge MainStat = %+v", e0.MainStat)
	}

	nodes[0].Metadata["region"] = "changed"
	if a.Meta["region"] != "us" {
		t.Error("FromRecords should copy metadata")
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	nodes, edges := sampleRecords()
	g := FromRecords(nodes, edges, Units{})

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	parsed, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}

	gotNodes, gotEdges := parsed.Records()
	if len(gotNodes) != 2 || len(gotEdges) != 2 {
		t.Fatalf("Records() = %d nodes, %d edges", len(gotNodes), len(gotEdges))
	}
	if gotNodes[0].MainStat.Value() != 12.5 || gotNodes[0].MainStat.Unit() != "ms" {
		t.Errorf("MainStat = %v %q", gotNodes[0].MainStat.Value(), gotNodes[0].MainStat.Unit())
	}
	if gotNodes[0].BackgroundColor.Values[0] != "#fff" {
		t.Errorf("BackgroundColor = %v", gotNodes[0].BackgroundColor.Values)
	}
	if gotNodes[0].Layer != 1 || gotNodes[1].Layer != 2 {
		t.Errorf("layers = %d/%d", gotNodes[0].Layer, gotNodes[1].Layer)
	}
	if *gotEdges[0].Thickness != 4 || gotEdges[1].Color != "red" {
		t.Errorf("edges = %+v", gotEdges)
	}

	// Converting again yields the same graph.
	if again := FromRecords(gotNodes, gotEdges, Units{}); !reflect.DeepEqual(again, parsed) {
		t.Errorf("second conversion differs:\n%+v\n%+v", again, parsed)
	}
}

func TestGraphFile(t *testing.T) {
	nodes, edges := sampleRecords()
	g := FromRecords(nodes, edges, Units{})
	path := filepath.Join(t.TempDir(), "topology.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	read, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(read.Nodes) != 2 || read.Nodes[0].Meta["region"] != "us" {
		t.Errorf("read = %+v", read)
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadGraphInvalid(t *testing.T) {
	if _, err := ReadGraph(strings.NewReader("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestSummaryAndView(t *testing.T) {
	nodes, edges := sampleRecords()
	nodes = append(nodes, topology.NodeRecord{ID: "c", Title: "C", Layer: 0})
	ls := []layers.Layer{{Label: "Edge", Icon: "cloud"}, {Label: "Core"}}
	ix := layers.Build(nodes, edges, 3)

	s := NewSummary(ix, ls)
	if len(s.Layers) != 3 {
		t.Fatalf("len(Layers) = %d, want 3", len(s.Layers))
	}
	if s.Layers[0].Label != "Edge" || s.Layers[0].Icon != "cloud" || s.Layers[0].Count != 1 {
		t.Errorf("Layers[0] = %+v", s.Layers[0])
	}
	if s.Layers[2].Label != "Layer 3" || s.Layers[2].Count != 0 {
		t.Errorf("Layers[2] = %+v", s.Layers[2])
	}
	if s.Unassigned != 1 || s.Nodes != 3 || s.Edges != 2 {
		t.Errorf("Summary = %+v", s)
	}

	v := NewLayerView(ix, 1, ls, Units{})
	if v.Layer != 2 || v.Label != "Core" || len(v.Nodes) != 1 || v.Nodes[0].ID != "b" {
		t.Errorf("LayerView = %+v", v)
	}
	if len(v.Edges) != 0 {
		t.Errorf("cross-layer edges leaked into view: %+v", v.Edges)
	}

	var buf bytes.Buffer
	if err := WriteLayerView(v, &buf); err != nil {
		t.Fatalf("WriteLayerView: %v", err)
	}
	if !strings.Contains(buf.String(), `"label": "Core"`) {
		t.Errorf("WriteLayerView output = %s", buf.String())
	}
}
