package graph

import (
	"github.com/matzehuels/topolayer/pkg/layers"
)

// LayerView is the serialization format for one layer of a topology.
type LayerView struct {
	Layer       int    `json:"layer" bson:"layer"` // 1-based
	Label       string `json:"label" bson:"label"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Nodes       []Node `json:"nodes" bson:"nodes"`
	Edges       []Edge `json:"edges" bson:"edges"`
}

// LayerSummary describes one configured layer and its node count.
type LayerSummary struct {
	Layer       int    `json:"layer" bson:"layer"` // 1-based
	Label       string `json:"label" bson:"label"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Count       int    `json:"count" bson:"count"`
}

// Summary is the per-layer breakdown of a topology.
type Summary struct {
	Layers     []LayerSummary `json:"layers" bson:"layers"`
	Unassigned int            `json:"unassigned" bson:"unassigned"`
	Nodes      int            `json:"nodes" bson:"nodes"`
	Edges      int            `json:"edges" bson:"edges"`
}

// NewSummary summarizes ix using the labels of ls.
func NewSummary(ix *layers.Index, ls []layers.Layer) Summary {
	counts := ix.Counts()
	s := Summary{
		Layers:     make([]LayerSummary, len(counts)),
		Unassigned: ix.Unassigned(),
		Nodes:      len(ix.Nodes()),
		Edges:      len(ix.Edges()),
	}
	for i, c := range counts {
		s.Layers[i] = LayerSummary{
			Layer: i + 1,
			Label: layers.Label(ls, i),
			Count: c,
		}
		if i < len(ls) {
			s.Layers[i].Icon = ls[i].Icon
			s.Layers[i].Description = ls[i].Description
		}
	}
	return s
}

// NewLayerView converts the view of zero-based layer pick.
func NewLayerView(ix *layers.Index, pick int, ls []layers.Layer, units Units) LayerView {
	v := ix.View(pick)
	g := FromRecords(v.Nodes, v.Edges, units)
	lv := LayerView{
		Layer: pick + 1,
		Label: layers.Label(ls, pick),
		Nodes: g.Nodes,
		Edges: g.Edges,
	}
	if pick >= 0 && pick < len(ls) {
		lv.Icon = ls[pick].Icon
		lv.Description = ls[pick].Description
	}
	return lv
}
