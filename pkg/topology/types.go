package topology

import (
	"encoding/json"

	"github.com/matzehuels/topolayer/pkg/frame"
)

// FieldRef points at one row of a column while keeping the column's type
// and display config. Stats and the node color are carried this way so a
// renderer can format the value with the column's unit.
type FieldRef struct {
	Field *frame.Field
	Row   int
}

// Value returns the referenced cell, or nil.
func (r *FieldRef) Value() any {
	if r == nil {
		return nil
	}
	return r.Field.At(r.Row)
}

// Name returns the referenced column name.
func (r *FieldRef) Name() string {
	if r == nil || r.Field == nil {
		return ""
	}
	return r.Field.Name
}

// Unit returns the referenced column's unit.
func (r *FieldRef) Unit() string {
	if r == nil || r.Field == nil {
		return ""
	}
	return r.Field.Config.Unit
}

// MarshalJSON encodes the column metadata and the referenced value only.
func (r *FieldRef) MarshalJSON() ([]byte, error) {
	if r == nil || r.Field == nil {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Name   string            `json:"name"`
		Type   frame.FieldType   `json:"type,omitempty"`
		Config frame.FieldConfig `json:"config,omitzero"`
		Value  any               `json:"value"`
	}{r.Field.Name, r.Field.Type, r.Field.Config, r.Value()})
}

// ref returns a reference to row i of f, or nil when f is nil.
func ref(f *frame.Field, i int) *FieldRef {
	if f == nil {
		return nil
	}
	return &FieldRef{Field: f, Row: i}
}

// NodeRecord is one node extracted from a node table row.
type NodeRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Layer    int    `json:"layer"`
	SubTitle string `json:"subTitle,omitempty"`
	Type     string `json:"type,omitempty"`

	MainStat      *FieldRef `json:"mainStat,omitempty"`
	SecondaryStat *FieldRef `json:"secondaryStat,omitempty"`
	Color         *FieldRef `json:"color,omitempty"`

	// One-row slices of the color columns.
	BorderColor     *frame.Field `json:"borderColor,omitempty"`
	BackgroundColor *frame.Field `json:"backgroundColor,omitempty"`
	IconColor       *frame.Field `json:"iconColor,omitempty"`

	Icon    string `json:"icon,omitempty"`
	LinkURL string `json:"linkURL,omitempty"`

	// Metadata holds the non-null values of unmapped columns, keyed by
	// column name. It is nil when the table has no unmapped columns.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LayerIndex returns the zero-based layer index of the node.
func (n NodeRecord) LayerIndex() int {
	return n.Layer - 1
}

// EdgeRecord is one edge extracted from an edge table row.
type EdgeRecord struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`

	MainStat      *FieldRef `json:"mainStat,omitempty"`
	SecondaryStat *FieldRef `json:"secondaryStat,omitempty"`

	Color           string   `json:"color,omitempty"`
	Thickness       *float64 `json:"thickness,omitempty"`
	StrokeDasharray string   `json:"strokeDasharray,omitempty"`
}
