package layers_test

import (
	"fmt"

	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

func ExampleBuild() {
	nodes := []topology.NodeRecord{
		{ID: "n1", Title: "A", Layer: 1},
		{ID: "n2", Title: "B", Layer: 2},
		{ID: "n3", Title: "C", Layer: 1},
	}
	edges := []topology.EdgeRecord{
		{ID: "e1", Source: "n1", Target: "n2"},
		{ID: "e2", Source: "n1", Target: "n3"},
	}

	ix := layers.Build(nodes, edges, 2)
	fmt.Println(ix.Counts())

	v := ix.View(0)
	for _, n := range v.Nodes {
		fmt.Println(n.ID)
	}
	for _, e := range v.Edges {
		fmt.Println(e.ID)
	}
	// Output:
	// [2 1]
	// n1
	// n3
	// e2
}

func ExampleAdd() {
	ls, _ := layers.Add(layers.DefaultLayers())
	for _, i := range layers.SidebarOrder(len(ls)) {
		fmt.Println(ls[i].Label)
	}
	// Output:
	// Layer 3
	// Layer 2
	// Layer 1
}
