package topology

import (
	"strings"

	"github.com/matzehuels/topolayer/pkg/frame"
)

// Result is the outcome of extracting a whole topology.
type Result struct {
	Nodes       []NodeRecord
	Edges       []EdgeRecord
	Diagnostics []Diagnostic

	// NodeFrame and EdgeFrame name the tables that were used.
	NodeFrame string
	EdgeFrame string
}

// Extract selects the node and edge tables from frames and extracts both.
// With no frames it returns empty node and edge lists.
func Extract(frames []*frame.Frame, cfg ParseConfig) Result {
	return NewTransformer(cfg).Extract(frames)
}

// Extract selects the node and edge tables from frames and extracts both.
func (t *Transformer) Extract(frames []*frame.Frame) Result {
	res := Result{Nodes: []NodeRecord{}, Edges: []EdgeRecord{}}
	nodeFrame, edgeFrame := SelectFrames(frames)

	if nodeFrame != nil {
		nr := t.ExtractNodes(nodeFrame)
		res.Nodes = nr.Nodes
		res.Diagnostics = append(res.Diagnostics, nr.Diagnostics...)
		res.NodeFrame = frameLabel(nodeFrame)
	}
	if edgeFrame != nil {
		er := t.ExtractEdges(edgeFrame)
		res.Edges = er.Edges
		res.Diagnostics = append(res.Diagnostics, er.Diagnostics...)
		res.EdgeFrame = frameLabel(edgeFrame)
	}
	return res
}

// SelectFrames picks the node and edge tables.
//
// The node table is the first frame whose name contains "node" (any case)
// or whose RefID is "A", else the first frame. The edge table is the first
// frame whose name contains "edge" or whose RefID is "B", else the second
// frame. Either result may be nil.
func SelectFrames(frames []*frame.Frame) (nodes, edges *frame.Frame) {
	if len(frames) == 0 {
		return nil, nil
	}

	nodes = findFrame(frames, "node", "A")
	if nodes == nil {
		nodes = frames[0]
	}
	edges = findFrame(frames, "edge", "B")
	if edges == nil && len(frames) > 1 {
		edges = frames[1]
	}
	return nodes, edges
}

func findFrame(frames []*frame.Frame, substr, refID string) *frame.Frame {
	for _, fr := range frames {
		if fr == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fr.Name), substr) || fr.RefID == refID {
			return fr
		}
	}
	return nil
}

func frameLabel(fr *frame.Frame) string {
	if fr.Name != "" {
		return fr.Name
	}
	return fr.RefID
}
