package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/orgweave/orgweave/pkg/model"
)

// Insights holds derived network statistics for one dataset. They are used
// for node sizing in exports and the metrics panel in the TUI; nothing in
// the filter or highlight paths depends on them.
type Insights struct {
	NodeCount   int
	EdgeCount   int
	Components  int
	Degree      map[string]int
	Betweenness map[string]float64
	Density     float64
}

// ComputeInsights builds an undirected gonum graph over the dataset and
// derives degree, betweenness centrality, and component structure. Dangling
// relationship endpoints become placeholder nodes so edge counts match what
// the graph presentation draws.
func ComputeInsights(ds *model.Dataset) *Insights {
	g := simple.NewUndirectedGraph()

	idFor := make(map[string]int64, len(ds.Organizations))
	nameFor := make(map[int64]string, len(ds.Organizations))
	next := int64(0)
	node := func(orgID string) int64 {
		if id, ok := idFor[orgID]; ok {
			return id
		}
		id := next
		next++
		idFor[orgID] = id
		nameFor[id] = orgID
		g.AddNode(simple.Node(id))
		return id
	}

	for i := range ds.Organizations {
		node(ds.Organizations[i].ID)
	}
	edges := 0
	for i := range ds.Relationships {
		rel := &ds.Relationships[i]
		if rel.Source == rel.Target {
			continue // self-loops carry no layout information
		}
		from := node(rel.Source)
		to := node(rel.Target)
		if g.HasEdgeBetween(from, to) {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(from), g.Node(to)))
		edges++
	}

	n := g.Nodes().Len()
	ins := &Insights{
		NodeCount:   n,
		EdgeCount:   edges,
		Degree:      make(map[string]int, n),
		Betweenness: make(map[string]float64, n),
	}
	if n > 1 {
		ins.Density = float64(2*edges) / float64(n*(n-1))
	}

	for orgID, id := range idFor {
		ins.Degree[orgID] = g.From(id).Len()
	}

	for id, score := range network.Betweenness(g) {
		ins.Betweenness[nameFor[id]] = score
	}

	ins.Components = len(topo.ConnectedComponents(g))
	return ins
}

// TopByDegree returns up to n organization ids ordered by descending degree,
// ties broken by id for determinism.
func (ins *Insights) TopByDegree(n int) []string {
	ids := make([]string, 0, len(ins.Degree))
	for id := range ins.Degree {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ins.Degree[ids[i]] != ins.Degree[ids[j]] {
			return ins.Degree[ids[i]] > ins.Degree[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// MaxDegree returns the highest degree in the network, minimum 1 so it can
// be used as a normalization divisor.
func (ins *Insights) MaxDegree() int {
	max := 1
	for _, d := range ins.Degree {
		if d > max {
			max = d
		}
	}
	return max
}
