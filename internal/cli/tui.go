package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	sidebarStyle      = lipgloss.NewStyle().PaddingRight(3).MarginRight(1).Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(colorDim)
)

// loadFunc runs the pipeline for the browse model.
type loadFunc func(ctx context.Context) (*pipeline.Result, error)

// reloadedMsg carries the outcome of a reload.
type reloadedMsg struct {
	res *pipeline.Result
	err error
}

// =============================================================================
// BrowseModel - Interactive layer browser
// =============================================================================

// BrowseModel is the bubbletea model of the browse command: a sidebar of
// layers (highest first, with node counts) next to the nodes and edges of
// the selected layer.
type BrowseModel struct {
	Layers []layers.Layer
	Units  graph.Units

	part   *layers.Partitioner
	hash   string
	order  []int // sidebar position -> zero-based layer
	cursor int   // position in order

	view    graph.LayerView
	status  string
	height  int
	offset  int
	load    loadFunc
	loading bool
}

// NewBrowseModel creates a browser over res. load, when non-nil, is used by
// the reload key.
func NewBrowseModel(res *pipeline.Result, ls []layers.Layer, units graph.Units, load loadFunc) BrowseModel {
	m := BrowseModel{
		Layers: ls,
		Units:  units,
		part:   layers.NewPartitioner(len(ls)),
		order:  layers.SidebarOrder(len(ls)),
		height: 15,
		load:   load,
	}
	m.apply(res)
	// Start on layer 1, which the sidebar lists last.
	m.cursor = len(m.order) - 1
	m.refreshView()
	return m
}

// Pick returns the selected zero-based layer.
func (m BrowseModel) Pick() int {
	if len(m.order) == 0 {
		return 0
	}
	return m.order[m.cursor]
}

// LayerView returns the view of the selected layer.
func (m BrowseModel) LayerView() graph.LayerView {
	return m.view
}

func (m *BrowseModel) apply(res *pipeline.Result) bool {
	if res == nil || res.Index == nil {
		return false
	}
	if m.hash != "" && res.Hash == m.hash {
		return false
	}
	m.hash = res.Hash
	return m.part.Update(res.Index.Nodes(), res.Index.Edges())
}

func (m *BrowseModel) refreshView() {
	m.view = graph.NewLayerView(m.part.Index(), m.Pick(), m.Layers, m.Units)
	m.offset = 0
}

func (m *BrowseModel) choose(pos int) {
	if pos < 0 || pos >= len(m.order) || pos == m.cursor {
		return
	}
	m.cursor = pos
	m.refreshView()
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.choose(m.cursor - 1)
		case "down", "j":
			m.choose(m.cursor + 1)
		case "pgdown", "J":
			if m.offset+m.height < len(m.view.Nodes) {
				m.offset += m.height
			}
		case "pgup", "K":
			m.offset = max(0, m.offset-m.height)
		case "r":
			if m.load == nil || m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "reloading…"
			load := m.load
			return m, func() tea.Msg {
				res, err := load(context.Background())
				return reloadedMsg{res: res, err: err}
			}
		default:
			// Digits jump to a layer; 0 is layer 10.
			if n, err := strconv.Atoi(key); err == nil {
				if n == 0 {
					n = 10
				}
				for pos, i := range m.order {
					if i == n-1 {
						m.choose(pos)
					}
				}
			}
		}
	case reloadedMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.status = "reload failed: " + msg.err.Error()
		case m.apply(msg.res):
			m.refreshView()
			m.status = fmt.Sprintf("reloaded (generation %d)", m.part.Generation())
		default:
			m.status = "unchanged"
		}
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-8)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Topology layers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ layer  1-9,0 jump  J/K scroll  r reload  q quit"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(m.sidebar()), m.layerPane()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(listDimStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) sidebar() string {
	counts := m.part.Index().Counts()
	var b strings.Builder
	for pos, i := range m.order {
		cursor := "  "
		style := listNormalStyle
		if pos == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		} else if counts[i] == 0 {
			style = listDimStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-2d %-16s %3d", cursor, i+1, truncate(layers.Label(m.Layers, i), 16), counts[i])))
		b.WriteString("\n")
	}
	if n := m.part.Index().Unassigned(); n > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d unassigned", n)))
	}
	return b.String()
}

func (m BrowseModel) layerPane() string {
	v := m.view
	var b strings.Builder
	title := v.Label
	if v.Description != "" {
		title += "  " + listDimStyle.Render(v.Description)
	}
	b.WriteString(listSelectedStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges", len(v.Nodes), len(v.Edges))))
	b.WriteString("\n")

	if len(v.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("no nodes in this layer"))
		return b.String()
	}

	end := min(m.offset+m.height, len(v.Nodes))
	rows := make([][]string, 0, end-m.offset)
	for _, n := range v.Nodes[m.offset:end] {
		rows = append(rows, []string{n.ID, n.Title, n.MainStat.String(), n.SecondaryStat.String(), strconv.Itoa(degree(v, n.ID))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Main", "Secondary", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	if len(v.Nodes) > m.height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.offset+1, end, len(v.Nodes))))
	}
	return b.String()
}

// degree counts the view edges touching id.
func degree(v graph.LayerView, id string) int {
	n := 0
	for _, e := range v.Edges {
		if e.Source == id || e.Target == id {
			n++
		}
	}
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
