package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/pipeline"
)

func browseResult(t *testing.T, layerValues ...any) *pipeline.Result {
	t.Helper()
	ids := make([]any, len(layerValues))
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	nodes := frame.New("nodes",
		frame.NewField("id", frame.FieldTypeString, ids...),
		frame.NewField("title", frame.FieldTypeString, ids...),
		frame.NewField("layer", frame.FieldTypeNumber, layerValues...),
	)
	edges := frame.New("edges",
		frame.NewField("source", frame.FieldTypeString, "a"),
		frame.NewField("target", frame.FieldTypeString, "b"),
	)
	r := pipeline.NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), pipeline.Options{
		Frames: []*frame.Frame{nodes, edges},
		Layers: threeLayers(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return res
}

func threeLayers() []layers.Layer {
	return []layers.Layer{{Label: "Edge"}, {Label: "Services"}, {Label: "Storage"}}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m BrowseModel, msg tea.Msg) BrowseModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(BrowseModel)
}

func TestBrowseModelStartsOnFirstLayer(t *testing.T) {
	m := NewBrowseModel(browseResult(t, 1.0, 1.0, 3.0), threeLayers(), graph.Units{}, nil)

	if m.Pick() != 0 {
		t.Errorf("Pick() = %d, want 0", m.Pick())
	}
	v := m.LayerView()
	if len(v.Nodes) != 2 || len(v.Edges) != 1 {
		t.Errorf("view = %d nodes, %d edges, want 2 and 1", len(v.Nodes), len(v.Edges))
	}
}

func TestBrowseModelNavigation(t *testing.T) {
	m := NewBrowseModel(browseResult(t, 1.0, 1.0, 3.0), threeLayers(), graph.Units{}, nil)

	// The sidebar lists Storage, Services, Edge; "up" moves toward Storage.
	m = update(t, m, key("k"))
	if m.Pick() != 1 {
		t.Errorf("after k: Pick() = %d, want 1", m.Pick())
	}
	m = update(t, m, key("k"))
	m = update(t, m, key("k"))
	if m.Pick() != 2 {
		t.Errorf("after k at top: Pick() = %d, want 2", m.Pick())
	}
	if v := m.LayerView(); v.Label != "Storage" || len(v.Nodes) != 1 || len(v.Edges) != 0 {
		t.Errorf("Storage view = %+v, want node c only", v)
	}

	m = update(t, m, key("1"))
	if m.Pick() != 0 {
		t.Errorf("after 1: Pick() = %d, want 0", m.Pick())
	}
	m = update(t, m, key("9"))
	if m.Pick() != 0 {
		t.Errorf("jump past the last layer moved the cursor: Pick() = %d", m.Pick())
	}
}

func TestBrowseModelView(t *testing.T) {
	m := NewBrowseModel(browseResult(t, 1.0, 1.0, 3.0), threeLayers(), graph.Units{}, nil)
	out := m.View()

	for _, want := range []string{"Storage", "Services", "Edge", "2 nodes · 1 edges"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Storage") > strings.Index(out, "Services") {
		t.Errorf("sidebar should list the highest layer first:\n%s", out)
	}
}

func TestBrowseModelReload(t *testing.T) {
	first := browseResult(t, 1.0, 1.0, 3.0)
	second := browseResult(t, 2.0, 2.0, 2.0)

	calls := 0
	load := func(ctx context.Context) (*pipeline.Result, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return second, nil
	}
	m := NewBrowseModel(first, threeLayers(), graph.Units{}, load)

	next, cmd := m.Update(key("r"))
	m = next.(BrowseModel)
	if cmd == nil {
		t.Fatal("reload key returned no command")
	}
	m = update(t, m, cmd())
	if !strings.Contains(m.View(), "unchanged") {
		t.Errorf("reload with the same input should report unchanged:\n%s", m.View())
	}

	_, cmd = m.Update(key("r"))
	m = update(t, m, cmd())
	if v := m.LayerView(); len(v.Nodes) != 0 {
		t.Errorf("after reload layer 1 has %d nodes, want 0", len(v.Nodes))
	}
	if !strings.Contains(m.View(), "reloaded") {
		t.Errorf("status should report the reload:\n%s", m.View())
	}
}

func TestBrowseModelQuit(t *testing.T) {
	m := NewBrowseModel(browseResult(t, 1.0), threeLayers(), graph.Units{}, nil)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer label", 8, "much lo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
