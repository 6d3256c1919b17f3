package layers

import (
	"fmt"

	"github.com/matzehuels/topolayer/pkg/errors"
)

// Layer bounds and defaults.
const (
	MinLayers   = 2
	MaxLayers   = 10
	DefaultIcon = "circle"
)

// Layer describes one configured layer.
type Layer struct {
	Label       string `json:"label" toml:"label" yaml:"label" bson:"label" validate:"required,max=100"`
	Icon        string `json:"icon,omitempty" toml:"icon" yaml:"icon,omitempty" bson:"icon,omitempty" validate:"max=64"`
	Description string `json:"description,omitempty" toml:"description" yaml:"description,omitempty" bson:"description,omitempty" validate:"max=500"`
}

// DefaultLayers returns the two layers a new panel starts with.
func DefaultLayers() []Layer {
	return []Layer{
		{Label: "Layer 1", Icon: DefaultIcon},
		{Label: "Layer 2", Icon: DefaultIcon},
	}
}

// Add appends a layer labelled "Layer N", where N is the new layer count.
func Add(ls []Layer) ([]Layer, error) {
	if len(ls) >= MaxLayers {
		return ls, errors.New(errors.ErrCodeInvalidLayer, "cannot have more than %d layers", MaxLayers)
	}
	out := append(ls[:len(ls):len(ls)], Layer{
		Label: fmt.Sprintf("Layer %d", len(ls)+1),
		Icon:  DefaultIcon,
	})
	return out, nil
}

// Remove deletes the layer at zero-based index i.
func Remove(ls []Layer, i int) ([]Layer, error) {
	if len(ls) <= MinLayers {
		return ls, errors.New(errors.ErrCodeInvalidLayer, "cannot have fewer than %d layers", MinLayers)
	}
	if i < 0 || i >= len(ls) {
		return ls, errors.New(errors.ErrCodeInvalidLayer, "layer %d out of range (1..%d)", i+1, len(ls))
	}
	out := make([]Layer, 0, len(ls)-1)
	out = append(out, ls[:i]...)
	return append(out, ls[i+1:]...), nil
}

// CheckCount validates the number of configured layers.
func CheckCount(n int) error {
	if n < MinLayers || n > MaxLayers {
		return errors.New(errors.ErrCodeInvalidLayer, "layer count %d out of range (%d..%d)", n, MinLayers, MaxLayers)
	}
	return nil
}

// SidebarOrder returns layer indices from the highest layer to the lowest,
// the order in which the layer picker lists them.
func SidebarOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

// Label returns the label of layer i, or "Layer i+1" when ls has no entry.
func Label(ls []Layer, i int) string {
	if i >= 0 && i < len(ls) && ls[i].Label != "" {
		return ls[i].Label
	}
	return fmt.Sprintf("Layer %d", i+1)
}
