package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type document struct {
	Frames []json.RawMessage `json:"frames"`
}

// wireFrame covers both the plain frame shape and the host's data-frame
// shape, where column metadata lives under "schema" and values under
// "data.values" in field order.
type wireFrame struct {
	Name   string   `json:"name"`
	RefID  string   `json:"refId"`
	Fields []*Field `json:"fields"`

	Schema *struct {
		Name   string   `json:"name"`
		RefID  string   `json:"refId"`
		Fields []*Field `json:"fields"`
	} `json:"schema"`
	Data *struct {
		Values [][]any `json:"values"`
	} `json:"data"`
}

// ReadJSON decodes frames from r.
//
// Accepted shapes:
//
//	{"frames": [ {...}, {...} ]}
//	[ {...}, {...} ]
//	{"name": "nodes", "fields": [...]}
//
// Each frame is either {"name", "refId", "fields": [{"name", "type", "config", "values"}]}
// or {"schema": {"name", "refId", "fields": [...]}, "data": {"values": [[...], ...]}}.
// Fields without a declared type get one inferred from their values.
func ReadJSON(r io.Reader) ([]*Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var raws []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case '{':
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if doc.Frames != nil {
			raws = doc.Frames
		} else {
			raws = []json.RawMessage{trimmed}
		}
	default:
		return nil, fmt.Errorf("decode: expected JSON object or array")
	}

	frames := make([]*Frame, 0, len(raws))
	for i, raw := range raws {
		fr, err := decodeFrame(raw)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func decodeFrame(raw json.RawMessage) (*Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	fr := &Frame{Name: w.Name, RefID: w.RefID, Fields: w.Fields}
	if w.Schema != nil {
		fr = &Frame{Name: w.Schema.Name, RefID: w.Schema.RefID, Fields: w.Schema.Fields}
		if w.Data != nil {
			if len(w.Data.Values) > len(fr.Fields) {
				return nil, fmt.Errorf("data has %d columns, schema has %d fields", len(w.Data.Values), len(fr.Fields))
			}
			for i, vals := range w.Data.Values {
				fr.Fields[i].Values = vals
			}
		}
	}

	for i, f := range fr.Fields {
		if f == nil {
			return nil, fmt.Errorf("field %d is null", i)
		}
		if f.Type == "" {
			f.Type = InferType(f.Values)
		}
	}
	return fr, nil
}

// ImportJSON reads frames from the JSON file at path.
func ImportJSON(path string) ([]*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes frames as a frame document.
func WriteJSON(frames []*Frame, w io.Writer) error {
	if frames == nil {
		frames = []*Frame{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Frames []*Frame `json:"frames"`
	}{frames}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// InferType guesses a field type from its non-nil values. Mixed or unknown
// values yield [FieldTypeOther]; a column of only nils is a string column.
func InferType(values []any) FieldType {
	typ := FieldType("")
	for _, v := range values {
		var t FieldType
		switch v.(type) {
		case nil:
			continue
		case string:
			t = FieldTypeString
		case float64, float32, int, int64, int32, json.Number:
			t = FieldTypeNumber
		case bool:
			t = FieldTypeBoolean
		default:
			t = FieldTypeOther
		}
		if typ == "" {
			typ = t
		} else if typ != t {
			return FieldTypeOther
		}
	}
	if typ == "" {
		return FieldTypeString
	}
	return typ
}
