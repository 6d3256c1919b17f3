package topology

import (
	"fmt"

	"github.com/matzehuels/topolayer/pkg/frame"
)

// Table labels used in diagnostics.
const (
	TableNodes = "nodes"
	TableEdges = "edges"
)

// NodeResult is the outcome of extracting a node table.
type NodeResult struct {
	Nodes       []NodeRecord
	Diagnostics []Diagnostic
}

// EdgeResult is the outcome of extracting an edge table.
type EdgeResult struct {
	Edges       []EdgeRecord
	Diagnostics []Diagnostic
}

// Transformer extracts records using a fixed column configuration.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	cfg ParseConfig
}

// NewTransformer creates a transformer. Empty entries in cfg use the
// canonical column names.
func NewTransformer(cfg ParseConfig) *Transformer {
	return &Transformer{cfg: cfg.WithDefaults()}
}

// Config returns the effective column configuration.
func (t *Transformer) Config() ParseConfig {
	return t.cfg
}

// ExtractNodes converts a node table into node records, one per row whose
// id and title are both non-empty, in row order.
func (t *Transformer) ExtractNodes(fr *frame.Frame) NodeResult {
	res := NodeResult{Nodes: []NodeRecord{}}
	if fr == nil {
		return res
	}
	c := t.cfg

	idField, titleField, diags := resolveRequired(fr, TableNodes,
		requiredColumn{"id", c.NodeIDField},
		requiredColumn{"title", c.NodeTitleField},
	)
	if diags != nil {
		res.Diagnostics = diags
		return res
	}

	find := func(name string) *frame.Field {
		f, _ := frame.Resolve(fr, name)
		return f
	}
	var (
		layerField           = find(c.NodeLayerField)
		subTitleField        = find(c.NodeSubTitleField)
		typeField            = find(c.NodeTypeField)
		mainStatField        = find(c.NodeMainStatField)
		secondaryStatField   = find(c.NodeSecondaryStatField)
		colorField           = find(c.NodeColorField)
		borderColorField     = find(c.NodeBorderColorField)
		backgroundColorField = find(c.NodeBackgroundColorField)
		iconColorField       = find(c.NodeIconColorField)
		iconField            = find(c.NodeIconField)
		linkURLField         = find(c.NodeLinkURLField)
	)
	metaFields := unmappedFields(fr, c.nodeFieldNames())

	var badLayers []int
	for i := 0; i < idField.Len(); i++ {
		id := Stringify(idField.At(i))
		title := Stringify(titleField.At(i))
		if id == "" || title == "" {
			continue
		}

		n := NodeRecord{
			ID:            id,
			Title:         title,
			MainStat:      ref(mainStatField, i),
			SecondaryStat: ref(secondaryStatField, i),
			Color:         ref(colorField, i),
		}
		if layerField != nil {
			layer, ok := toLayer(layerField.At(i))
			if !ok {
				badLayers = append(badLayers, i)
			}
			n.Layer = layer
		}
		n.SubTitle = optionalString(subTitleField, i)
		n.Type = optionalString(typeField, i)
		n.LinkURL = optionalString(linkURLField, i)
		if iconField != nil {
			n.Icon = Stringify(iconField.At(i))
		}
		if borderColorField != nil {
			n.BorderColor = borderColorField.Slice(i)
		}
		if backgroundColorField != nil {
			n.BackgroundColor = backgroundColorField.Slice(i)
		}
		if iconColorField != nil {
			n.IconColor = iconColorField.Slice(i)
		}
		n.Metadata = metadata(metaFields, i)

		res.Nodes = append(res.Nodes, n)
	}

	if len(badLayers) > 0 {
		res.Diagnostics = append(res.Diagnostics, coercionDiag(TableNodes, "layer", layerField.Name, badLayers))
	}
	return res
}

// ExtractEdges converts an edge table into edge records, one per row whose
// source and target are both non-empty, in row order.
func (t *Transformer) ExtractEdges(fr *frame.Frame) EdgeResult {
	res := EdgeResult{Edges: []EdgeRecord{}}
	if fr == nil {
		return res
	}
	c := t.cfg

	sourceField, targetField, diags := resolveRequired(fr, TableEdges,
		requiredColumn{"source", c.EdgeSourceField},
		requiredColumn{"target", c.EdgeTargetField},
	)
	if diags != nil {
		res.Diagnostics = diags
		return res
	}

	find := func(name string) *frame.Field {
		f, _ := frame.Resolve(fr, name)
		return f
	}
	var (
		idField              = find(c.EdgeIDField)
		mainStatField        = find(c.EdgeMainStatField)
		secondaryStatField   = find(c.EdgeSecondaryStatField)
		colorField           = find(c.EdgeColorField)
		thicknessField       = find(c.EdgeThicknessField)
		strokeDasharrayField = find(c.EdgeStrokeDasharrayField)
	)

	var badThickness []int
	for i := 0; i < sourceField.Len(); i++ {
		source := Stringify(sourceField.At(i))
		target := Stringify(targetField.At(i))
		if source == "" || target == "" {
			continue
		}

		e := EdgeRecord{
			Source:        source,
			Target:        target,
			MainStat:      ref(mainStatField, i),
			SecondaryStat: ref(secondaryStatField, i),
		}
		if idField != nil {
			e.ID = Stringify(idField.At(i))
		} else {
			e.ID = fmt.Sprintf("%s-%s-%d", source, target, i)
		}
		if thicknessField != nil {
			if v, ok := toThickness(thicknessField.At(i)); ok {
				e.Thickness = &v
			} else {
				badThickness = append(badThickness, i)
			}
		}
		if colorField != nil {
			e.Color = Stringify(colorField.At(i))
		}
		if strokeDasharrayField != nil {
			e.StrokeDasharray = Stringify(strokeDasharrayField.At(i))
		}

		res.Edges = append(res.Edges, e)
	}

	if len(badThickness) > 0 {
		res.Diagnostics = append(res.Diagnostics, coercionDiag(TableEdges, "thickness", thicknessField.Name, badThickness))
	}
	return res
}

type requiredColumn struct {
	role string
	name string
}

// resolveRequired resolves two required columns by name. If either is
// missing, the table's string and number columns stand in by position:
// the first for a, the second (or the first again) for b.
func resolveRequired(fr *frame.Frame, table string, a, b requiredColumn) (fa, fb *frame.Field, diags []Diagnostic) {
	fa, _ = frame.Resolve(fr, a.name)
	fb, _ = frame.Resolve(fr, b.name)
	if fa != nil && fb != nil {
		return fa, fb, nil
	}

	candidates := fr.ScalarFields()
	if len(candidates) == 0 {
		for _, rc := range []struct {
			col requiredColumn
			f   *frame.Field
		}{{a, fa}, {b, fb}} {
			if rc.f == nil {
				diags = append(diags, missingDiag(DiagNoCandidates, table, rc.col.role, fr.FieldNames()))
			}
		}
		return nil, nil, diags
	}

	if fa == nil {
		fa = candidates[0]
	}
	if fb == nil {
		if len(candidates) > 1 {
			fb = candidates[1]
		} else {
			fb = candidates[0]
		}
	}
	return fa, fb, nil
}

// unmappedFields returns the fields whose names match none of the
// configured names.
func unmappedFields(fr *frame.Frame, configured []string) []*frame.Field {
	var out []*frame.Field
	for _, f := range fr.Fields {
		mapped := false
		for _, name := range configured {
			if name != "" && frame.Equivalent(f.Name, name) {
				mapped = true
				break
			}
		}
		if !mapped {
			out = append(out, f)
		}
	}
	return out
}

// metadata collects the non-null values of fields at row i, or nil when
// there are none.
func metadata(fields []*frame.Field, i int) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	meta := make(map[string]any, len(fields))
	for _, f := range fields {
		if v := f.At(i); v != nil {
			meta[f.Name] = v
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// optionalString stringifies row i of f when the cell is not null.
func optionalString(f *frame.Field, i int) string {
	if f == nil {
		return ""
	}
	v := f.At(i)
	if v == nil {
		return ""
	}
	return Stringify(v)
}
