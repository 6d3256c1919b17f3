package frame

// FieldType is the declared scalar type of a column.
type FieldType string

// Supported field types.
const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeTime    FieldType = "time"
	FieldTypeOther   FieldType = "other"
)

// FieldConfig holds display metadata attached to a column.
type FieldConfig struct {
	DisplayName string `json:"displayName,omitempty" bson:"display_name,omitempty"`
	Unit        string `json:"unit,omitempty" bson:"unit,omitempty"`
	Decimals    *int   `json:"decimals,omitempty" bson:"decimals,omitempty"`
}

// Field is a named, typed column.
type Field struct {
	Name   string      `json:"name"`
	Type   FieldType   `json:"type,omitempty"`
	Config FieldConfig `json:"config,omitzero"`
	Values []any       `json:"values"`
}

// NewField creates a field with the given values.
func NewField(name string, typ FieldType, values ...any) *Field {
	return &Field{Name: name, Type: typ, Values: values}
}

// Len returns the number of values in the field.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Values)
}

// At returns the value at row i, or nil if the row does not exist.
// Columns of a frame are not required to have equal lengths.
func (f *Field) At(i int) any {
	if f == nil || i < 0 || i >= len(f.Values) {
		return nil
	}
	return f.Values[i]
}

// Slice returns a one-row copy of the field holding only the value at row i.
// Name, type and config are preserved.
func (f *Field) Slice(i int) *Field {
	if f == nil {
		return nil
	}
	return &Field{
		Name:   f.Name,
		Type:   f.Type,
		Config: f.Config,
		Values: []any{f.At(i)},
	}
}

// Scalar reports whether the field holds string or number values.
func (f *Field) Scalar() bool {
	return f.Type == FieldTypeString || f.Type == FieldTypeNumber
}

// Frame is a table of row-aligned fields.
type Frame struct {
	Name   string   `json:"name,omitempty"`
	RefID  string   `json:"refId,omitempty"`
	Fields []*Field `json:"fields"`
}

// New creates a frame with the given name and fields.
func New(name string, fields ...*Field) *Frame {
	return &Frame{Name: name, Fields: fields}
}

// FieldNames returns the names of all fields in declaration order.
func (fr *Frame) FieldNames() []string {
	if fr == nil {
		return nil
	}
	names := make([]string, len(fr.Fields))
	for i, f := range fr.Fields {
		names[i] = f.Name
	}
	return names
}

// Rows returns the length of the longest field.
func (fr *Frame) Rows() int {
	if fr == nil {
		return 0
	}
	n := 0
	for _, f := range fr.Fields {
		n = max(n, f.Len())
	}
	return n
}

// ScalarFields returns the string and number typed fields in declaration
// order. These are the candidates for positional fallback when a required
// column cannot be resolved by name.
func (fr *Frame) ScalarFields() []*Field {
	if fr == nil {
		return nil
	}
	var out []*Field
	for _, f := range fr.Fields {
		if f.Scalar() {
			out = append(out, f)
		}
	}
	return out
}
