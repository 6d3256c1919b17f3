package frame

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadJSONDocument(t *testing.T) {
	input := `{
	  "frames": [
	    {"name": "nodes", "refId": "A", "fields": [
	      {"name": "id", "type": "string", "values": ["n1", "n2"]},
	      {"name": "layer", "values": [1, 2]}
	    ]},
	    {"name": "edges", "fields": [
	      {"name": "source", "values": ["n1"]},
	      {"name": "target", "values": ["n2"]}
	    ]}
	  ]
	}`
	frames, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(frames))
	}
	if frames[0].RefID != "A" {
		t.Errorf("RefID = %q, want A", frames[0].RefID)
	}
	layer := frames[0].Fields[1]
	if layer.Type != FieldTypeNumber {
		t.Errorf("inferred layer type = %q, want number", layer.Type)
	}
	if layer.Values[1] != 2.0 {
		t.Errorf("layer[1] = %v, want 2", layer.Values[1])
	}
	if frames[1].Fields[0].Type != FieldTypeString {
		t.Errorf("inferred source type = %q, want string", frames[1].Fields[0].Type)
	}
}

func TestReadJSONDataFrameShape(t *testing.T) {
	input := `[{
	  "schema": {"name": "nodes", "refId": "A", "fields": [
	    {"name": "id", "type": "string"},
	    {"name": "main_stat", "type": "number", "config": {"unit": "ms"}}
	  ]},
	  "data": {"values": [["a", "b"], [10, 20]]}
	}]`
	frames, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	fr := frames[0]
	if fr.Name != "nodes" || fr.RefID != "A" {
		t.Errorf("frame = %q/%q, want nodes/A", fr.Name, fr.RefID)
	}
	stat := fr.Fields[1]
	if stat.Config.Unit != "ms" {
		t.Errorf("unit = %q, want ms", stat.Config.Unit)
	}
	if len(stat.Values) != 2 || stat.Values[0] != 10.0 {
		t.Errorf("values = %v, want [10 20]", stat.Values)
	}
}

func TestReadJSONSingleFrame(t *testing.T) {
	frames, err := ReadJSON(strings.NewReader(`{"name": "x", "fields": []}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(frames) != 1 || frames[0].Name != "x" {
		t.Errorf("frames = %+v", frames)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `nope`},
		{"bad array", `[1, 2]`},
		{"too many columns", `[{"schema": {"fields": [{"name": "a"}]}, "data": {"values": [[1], [2]]}}]`},
		{"null field", `{"frames": [{"fields": [null]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadJSONEmpty(t *testing.T) {
	frames, err := ReadJSON(strings.NewReader("  "))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("len(frames) = %d, want 0", len(frames))
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	in := []*Frame{New("nodes", NewField("id", FieldTypeString, "a", nil))}
	var buf bytes.Buffer
	if err := WriteJSON(in, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(out) != 1 || out[0].Fields[0].Values[1] != nil {
		t.Errorf("round trip = %+v", out)
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		values []any
		want   FieldType
	}{
		{[]any{"a", nil, "b"}, FieldTypeString},
		{[]any{1.0, 2.0}, FieldTypeNumber},
		{[]any{true}, FieldTypeBoolean},
		{[]any{"a", 1.0}, FieldTypeOther},
		{[]any{nil, nil}, FieldTypeString},
		{nil, FieldTypeString},
	}
	for _, tt := range tests {
		if got := InferType(tt.values); got != tt.want {
			t.Errorf("InferType(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}
