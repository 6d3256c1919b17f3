package layers

import (
	"github.com/matzehuels/topolayer/pkg/topology"
)

// Index is the layer assignment of one extracted topology. It is immutable
// once built and safe for concurrent reads.
type Index struct {
	nodes       []topology.NodeRecord
	edges       []topology.EdgeRecord
	counts      []int
	nodeToLayer map[string]int
}

// View is the part of a topology that belongs to one layer.
type View struct {
	Layer int // zero-based
	Nodes []topology.NodeRecord
	Edges []topology.EdgeRecord
}

// Build indexes nodes into n layers. When a node id occurs more than once,
// the last occurrence determines its layer.
func Build(nodes []topology.NodeRecord, edges []topology.EdgeRecord, n int) *Index {
	n = max(n, 0)
	ix := &Index{
		nodes:       nodes,
		edges:       edges,
		counts:      make([]int, n),
		nodeToLayer: make(map[string]int, len(nodes)),
	}
	for _, node := range nodes {
		k := node.LayerIndex()
		ix.nodeToLayer[node.ID] = k
		if k >= 0 && k < n {
			ix.counts[k]++
		}
	}
	return ix
}

// Layers returns the configured number of layers.
func (ix *Index) Layers() int {
	return len(ix.counts)
}

// Counts returns the number of nodes in each layer.
func (ix *Index) Counts() []int {
	out := make([]int, len(ix.counts))
	copy(out, ix.counts)
	return out
}

// Assigned returns the number of nodes that fall into a configured layer.
func (ix *Index) Assigned() int {
	total := 0
	for _, c := range ix.counts {
		total += c
	}
	return total
}

// Unassigned returns the number of nodes outside every configured layer.
func (ix *Index) Unassigned() int {
	return len(ix.nodes) - ix.Assigned()
}

// LayerOf returns the zero-based layer index of the node with the given id.
// The index may lie outside [0, Layers()).
func (ix *Index) LayerOf(id string) (int, bool) {
	k, ok := ix.nodeToLayer[id]
	return k, ok
}

// Nodes returns the indexed node records.
func (ix *Index) Nodes() []topology.NodeRecord { return ix.nodes }

// Edges returns the indexed edge records.
func (ix *Index) Edges() []topology.EdgeRecord { return ix.edges }

// View returns the nodes of layer pick and the edges whose source and target
// both map to pick. A pick outside [0, Layers()) yields an empty view.
func (ix *Index) View(pick int) View {
	v := View{Layer: pick, Nodes: []topology.NodeRecord{}, Edges: []topology.EdgeRecord{}}
	if pick < 0 || pick >= len(ix.counts) {
		return v
	}
	for _, n := range ix.nodes {
		if n.LayerIndex() == pick {
			v.Nodes = append(v.Nodes, n)
		}
	}
	for _, e := range ix.edges {
		if ix.inLayer(e.Source, pick) && ix.inLayer(e.Target, pick) {
			v.Edges = append(v.Edges, e)
		}
	}
	return v
}

func (ix *Index) inLayer(id string, pick int) bool {
	k, ok := ix.nodeToLayer[id]
	return ok && k == pick
}

// Partitioner caches the index of the most recent topology. It is not safe
// for concurrent use.
type Partitioner struct {
	layers     int
	index      *Index
	generation int
}

// NewPartitioner creates a partitioner for n layers.
func NewPartitioner(n int) *Partitioner {
	return &Partitioner{layers: n}
}

// Update indexes nodes and edges unless they are the same lists as last
// time. It reports whether the index was rebuilt.
func (p *Partitioner) Update(nodes []topology.NodeRecord, edges []topology.EdgeRecord) bool {
	if p.index != nil && sameSlice(p.index.nodes, nodes) && sameSlice(p.index.edges, edges) {
		return false
	}
	p.index = Build(nodes, edges, p.layers)
	p.generation++
	return true
}

// SetLayers changes the layer count, rebuilding the index if one exists.
func (p *Partitioner) SetLayers(n int) {
	if n == p.layers {
		return
	}
	p.layers = n
	if p.index != nil {
		p.index = Build(p.index.nodes, p.index.edges, n)
		p.generation++
	}
}

// Index returns the current index, or an empty one before the first Update.
func (p *Partitioner) Index() *Index {
	if p.index == nil {
		return Build(nil, nil, p.layers)
	}
	return p.index
}

// View returns the view of layer pick from the current index.
func (p *Partitioner) View(pick int) View {
	return p.Index().View(pick)
}

// Generation counts how many times the index has been built.
func (p *Partitioner) Generation() int {
	return p.generation
}

// sameSlice reports whether a and b are the same slice: equal length and,
// when non-empty, the same backing array start.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
