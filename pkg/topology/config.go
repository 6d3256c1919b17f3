package topology

import (
	"reflect"

	"github.com/matzehuels/topolayer/pkg/errors"
)

// ParseConfig maps record roles to column names. Empty entries fall back to
// the canonical names in [DefaultParseConfig].
type ParseConfig struct {
	NodeIDField              string `json:"nodeIdField,omitempty" toml:"nodeIdField" yaml:"nodeIdField,omitempty" bson:"node_id_field,omitempty"`
	NodeTitleField           string `json:"nodeTitleField,omitempty" toml:"nodeTitleField" yaml:"nodeTitleField,omitempty" bson:"node_title_field,omitempty"`
	NodeLayerField           string `json:"nodeLayerField,omitempty" toml:"nodeLayerField" yaml:"nodeLayerField,omitempty" bson:"node_layer_field,omitempty"`
	NodeTypeField            string `json:"nodeTypeField,omitempty" toml:"nodeTypeField" yaml:"nodeTypeField,omitempty" bson:"node_type_field,omitempty"`
	NodeSubTitleField        string `json:"nodeSubTitleField,omitempty" toml:"nodeSubTitleField" yaml:"nodeSubTitleField,omitempty" bson:"node_sub_title_field,omitempty"`
	NodeMainStatField        string `json:"nodeMainStatField,omitempty" toml:"nodeMainStatField" yaml:"nodeMainStatField,omitempty" bson:"node_main_stat_field,omitempty"`
	NodeSecondaryStatField   string `json:"nodeSecondaryStatField,omitempty" toml:"nodeSecondaryStatField" yaml:"nodeSecondaryStatField,omitempty" bson:"node_secondary_stat_field,omitempty"`
	NodeColorField           string `json:"nodeColorField,omitempty" toml:"nodeColorField" yaml:"nodeColorField,omitempty" bson:"node_color_field,omitempty"`
	NodeBorderColorField     string `json:"nodeBorderColorField,omitempty" toml:"nodeBorderColorField" yaml:"nodeBorderColorField,omitempty" bson:"node_border_color_field,omitempty"`
	NodeBackgroundColorField string `json:"nodeBackgroundColorField,omitempty" toml:"nodeBackgroundColorField" yaml:"nodeBackgroundColorField,omitempty" bson:"node_background_color_field,omitempty"`
	NodeIconColorField       string `json:"nodeIconColorField,omitempty" toml:"nodeIconColorField" yaml:"nodeIconColorField,omitempty" bson:"node_icon_color_field,omitempty"`
	NodeIconField            string `json:"nodeIconField,omitempty" toml:"nodeIconField" yaml:"nodeIconField,omitempty" bson:"node_icon_field,omitempty"`
	NodeLinkURLField         string `json:"nodeLinkUrlField,omitempty" toml:"nodeLinkUrlField" yaml:"nodeLinkUrlField,omitempty" bson:"node_link_url_field,omitempty"`

	EdgeIDField              string `json:"edgeIdField,omitempty" toml:"edgeIdField" yaml:"edgeIdField,omitempty" bson:"edge_id_field,omitempty"`
	EdgeSourceField          string `json:"edgeSourceField,omitempty" toml:"edgeSourceField" yaml:"edgeSourceField,omitempty" bson:"edge_source_field,omitempty"`
	EdgeTargetField          string `json:"edgeTargetField,omitempty" toml:"edgeTargetField" yaml:"edgeTargetField,omitempty" bson:"edge_target_field,omitempty"`
	EdgeMainStatField        string `json:"edgeMainStatField,omitempty" toml:"edgeMainStatField" yaml:"edgeMainStatField,omitempty" bson:"edge_main_stat_field,omitempty"`
	EdgeSecondaryStatField   string `json:"edgeSecondaryStatField,omitempty" toml:"edgeSecondaryStatField" yaml:"edgeSecondaryStatField,omitempty" bson:"edge_secondary_stat_field,omitempty"`
	EdgeColorField           string `json:"edgeColorField,omitempty" toml:"edgeColorField" yaml:"edgeColorField,omitempty" bson:"edge_color_field,omitempty"`
	EdgeThicknessField       string `json:"edgeThicknessField,omitempty" toml:"edgeThicknessField" yaml:"edgeThicknessField,omitempty" bson:"edge_thickness_field,omitempty"`
	EdgeStrokeDasharrayField string `json:"edgeStrokeDasharrayField,omitempty" toml:"edgeStrokeDasharrayField" yaml:"edgeStrokeDasharrayField,omitempty" bson:"edge_stroke_dasharray_field,omitempty"`
}

// DefaultParseConfig returns the canonical column names.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		NodeIDField:              "id",
		NodeTitleField:           "title",
		NodeLayerField:           "layer",
		NodeTypeField:            "type",
		NodeSubTitleField:        "subtitle",
		NodeMainStatField:        "main_stat",
		NodeSecondaryStatField:   "secondary_stat",
		NodeColorField:           "color",
		NodeBorderColorField:     "borderColor",
		NodeBackgroundColorField: "backgroundColor",
		NodeIconColorField:       "iconColor",
		NodeIconField:            "icon",
		NodeLinkURLField:         "linkURL",

		EdgeIDField:              "id",
		EdgeSourceField:          "source",
		EdgeTargetField:          "target",
		EdgeMainStatField:        "main_stat",
		EdgeSecondaryStatField:   "secondary_stat",
		EdgeColorField:           "color",
		EdgeThicknessField:       "thickness",
		EdgeStrokeDasharrayField: "strokeDasharray",
	}
}

// WithDefaults returns c with every empty entry replaced by its default.
func (c ParseConfig) WithDefaults() ParseConfig {
	return c.Merge(DefaultParseConfig())
}

// Merge returns c with empty entries filled from base.
func (c ParseConfig) Merge(base ParseConfig) ParseConfig {
	out := base
	src := reflect.ValueOf(c)
	dst := reflect.ValueOf(&out).Elem()
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); v != "" {
			dst.Field(i).SetString(v)
		}
	}
	return out
}

// Validate checks that every configured name is usable.
func (c ParseConfig) Validate() error {
	v := reflect.ValueOf(c)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if err := errors.ValidateFieldName(t.Field(i).Name, v.Field(i).String()); err != nil {
			return err
		}
	}
	return nil
}

// nodeFieldNames lists the configured node column names. Columns matching
// any of them are not copied into node metadata.
func (c ParseConfig) nodeFieldNames() []string {
	return []string{
		c.NodeIDField,
		c.NodeTitleField,
		c.NodeLayerField,
		c.NodeTypeField,
		c.NodeSubTitleField,
		c.NodeMainStatField,
		c.NodeSecondaryStatField,
		c.NodeColorField,
		c.NodeBorderColorField,
		c.NodeBackgroundColorField,
		c.NodeIconColorField,
		c.NodeIconField,
		c.NodeLinkURLField,
	}
}
