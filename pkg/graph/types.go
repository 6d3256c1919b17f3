package graph

import (
	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/topology"
)

// =============================================================================
// Constants
// =============================================================================

// Render defaults.
const (
	DefaultNodeColor = "#4A90E2"
	DefaultEdgeColor = "#999"
	DefaultEdgeWidth = 2.0
)

// =============================================================================
// Graph
// =============================================================================

// Graph is the serialization format for a whole topology.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Units are panel-level display units for stats whose column has none.
type Units struct {
	NodeMainStat      string `json:"nodeMainStat,omitempty" toml:"nodeMainStat" yaml:"nodeMainStat,omitempty" bson:"node_main_stat,omitempty"`
	NodeSecondaryStat string `json:"nodeSecondaryStat,omitempty" toml:"nodeSecondaryStat" yaml:"nodeSecondaryStat,omitempty" bson:"node_secondary_stat,omitempty"`
	EdgeMainStat      string `json:"edgeMainStat,omitempty" toml:"edgeMainStat" yaml:"edgeMainStat,omitempty" bson:"edge_main_stat,omitempty"`
	EdgeSecondaryStat string `json:"edgeSecondaryStat,omitempty" toml:"edgeSecondaryStat" yaml:"edgeSecondaryStat,omitempty" bson:"edge_secondary_stat,omitempty"`
}

// =============================================================================
// Stat
// =============================================================================

// Stat is one cell of a referenced column.
type Stat struct {
	Field string `json:"field" bson:"field"`
	Type  string `json:"type,omitempty" bson:"type,omitempty"`
	Unit  string `json:"unit,omitempty" bson:"unit,omitempty"`
	Value any    `json:"value" bson:"value"`
}

// String returns the value as text.
func (s *Stat) String() string {
	if s == nil || s.Value == nil {
		return ""
	}
	return topology.Stringify(s.Value)
}

// =============================================================================
// Node
// =============================================================================

// Node is the serialization format for a node record.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Title    string `json:"title" bson:"title"`
	Layer    int    `json:"layer" bson:"layer"`
	SubTitle string `json:"subTitle,omitempty" bson:"sub_title,omitempty"`
	Type     string `json:"type,omitempty" bson:"type,omitempty"`

	MainStat        *Stat `json:"mainStat,omitempty" bson:"main_stat,omitempty"`
	SecondaryStat   *Stat `json:"secondaryStat,omitempty" bson:"secondary_stat,omitempty"`
	Color           *Stat `json:"color,omitempty" bson:"color,omitempty"`
	BorderColor     *Stat `json:"borderColor,omitempty" bson:"border_color,omitempty"`
	BackgroundColor *Stat `json:"backgroundColor,omitempty" bson:"background_color,omitempty"`
	IconColor       *Stat `json:"iconColor,omitempty" bson:"icon_color,omitempty"`

	Icon    string         `json:"icon,omitempty" bson:"icon,omitempty"`
	LinkURL string         `json:"linkURL,omitempty" bson:"link_url,omitempty"`
	Meta    map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// FillColor returns the background color, or [DefaultNodeColor].
func (n *Node) FillColor() string {
	if c := n.BackgroundColor.String(); c != "" {
		return c
	}
	return DefaultNodeColor
}

// =============================================================================
// Edge
// =============================================================================

// Edge is the serialization format for an edge record.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`

	MainStat      *Stat `json:"mainStat,omitempty" bson:"main_stat,omitempty"`
	SecondaryStat *Stat `json:"secondaryStat,omitempty" bson:"secondary_stat,omitempty"`

	Color           string   `json:"color,omitempty" bson:"color,omitempty"`
	Thickness       *float64 `json:"thickness,omitempty" bson:"thickness,omitempty"`
	StrokeDasharray string   `json:"strokeDasharray,omitempty" bson:"stroke_dasharray,omitempty"`
}

// StrokeColor returns the edge color, or [DefaultEdgeColor].
func (e *Edge) StrokeColor() string {
	if e.Color != "" {
		return e.Color
	}
	return DefaultEdgeColor
}

// Width returns the thickness, or [DefaultEdgeWidth] when unset or zero.
func (e *Edge) Width() float64 {
	if e.Thickness != nil && *e.Thickness > 0 {
		return *e.Thickness
	}
	return DefaultEdgeWidth
}

// =============================================================================
// Records ↔ Graph Conversion
// =============================================================================

// FromRecords converts node and edge records to their serialization format.
func FromRecords(nodes []topology.NodeRecord, edges []topology.EdgeRecord, units Units) Graph {
	g := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		g.Nodes[i] = nodeFromRecord(n, units)
	}
	for i, e := range edges {
		g.Edges[i] = edgeFromRecord(e, units)
	}
	return g
}

// Records converts the graph back to records. Column references point at
// one-row columns rebuilt from each [Stat].
func (g Graph) Records() ([]topology.NodeRecord, []topology.EdgeRecord) {
	nodes := make([]topology.NodeRecord, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = topology.NodeRecord{
			ID:              n.ID,
			Title:           n.Title,
			Layer:           n.Layer,
			SubTitle:        n.SubTitle,
			Type:            n.Type,
			MainStat:        refFromStat(n.MainStat),
			SecondaryStat:   refFromStat(n.SecondaryStat),
			Color:           refFromStat(n.Color),
			BorderColor:     fieldFromStat(n.BorderColor),
			BackgroundColor: fieldFromStat(n.BackgroundColor),
			IconColor:       fieldFromStat(n.IconColor),
			Icon:            n.Icon,
			LinkURL:         n.LinkURL,
			Metadata:        copyMeta(n.Meta),
		}
	}
	edges := make([]topology.EdgeRecord, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = topology.EdgeRecord{
			ID:              e.ID,
			Source:          e.Source,
			Target:          e.Target,
			MainStat:        refFromStat(e.MainStat),
			SecondaryStat:   refFromStat(e.SecondaryStat),
			Color:           e.Color,
			Thickness:       e.Thickness,
			StrokeDasharray: e.StrokeDasharray,
		}
	}
	return nodes, edges
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFromRecord(n topology.NodeRecord, units Units) Node {
	return Node{
		ID:              n.ID,
		Title:           n.Title,
		Layer:           n.Layer,
		SubTitle:        n.SubTitle,
		Type:            n.Type,
		MainStat:        statFromRef(n.MainStat, units.NodeMainStat),
		SecondaryStat:   statFromRef(n.SecondaryStat, units.NodeSecondaryStat),
		Color:           statFromRef(n.Color, ""),
		BorderColor:     statFromField(n.BorderColor),
		BackgroundColor: statFromField(n.BackgroundColor),
		IconColor:       statFromField(n.IconColor),
		Icon:            n.Icon,
		LinkURL:         n.LinkURL,
		Meta:            copyMeta(n.Metadata),
	}
}

func edgeFromRecord(e topology.EdgeRecord, units Units) Edge {
	return Edge{
		ID:              e.ID,
		Source:          e.Source,
		Target:          e.Target,
		MainStat:        statFromRef(e.MainStat, units.EdgeMainStat),
		SecondaryStat:   statFromRef(e.SecondaryStat, units.EdgeSecondaryStat),
		Color:           e.Color,
		Thickness:       e.Thickness,
		StrokeDasharray: e.StrokeDasharray,
	}
}

// statFromRef converts a column reference. fallbackUnit applies when the
// column itself has no unit.
func statFromRef(r *topology.FieldRef, fallbackUnit string) *Stat {
	if r == nil || r.Field == nil {
		return nil
	}
	unit := r.Unit()
	if unit == "" {
		unit = fallbackUnit
	}
	return &Stat{
		Field: r.Field.Name,
		Type:  string(r.Field.Type),
		Unit:  unit,
		Value: r.Value(),
	}
}

// statFromField converts a one-row column slice.
func statFromField(f *frame.Field) *Stat {
	if f == nil {
		return nil
	}
	return statFromRef(&topology.FieldRef{Field: f, Row: 0}, "")
}

func fieldFromStat(s *Stat) *frame.Field {
	if s == nil {
		return nil
	}
	return &frame.Field{
		Name:   s.Field,
		Type:   frame.FieldType(s.Type),
		Config: frame.FieldConfig{Unit: s.Unit},
		Values: []any{s.Value},
	}
}

func refFromStat(s *Stat) *topology.FieldRef {
	f := fieldFromStat(s)
	if f == nil {
		return nil
	}
	return &topology.FieldRef{Field: f, Row: 0}
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
