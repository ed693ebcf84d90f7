// Package pagerank computes PageRank scores over the resolved import
// graph, per spec.md §4.3. Adapted from the teacher's decay-mode graph
// propagator (internal/core/graph_propagator.go) into a proper iterative
// PageRank: fixed damping factor, uniform dangling-node redistribution,
// and a convergence check rather than a fixed-depth decay walk.
package pagerank

import (
	"github.com/Demwunz/topo/internal/importgraph"
)

const (
	damping       = 0.85
	maxIterations = 100
	convergenceEps = 1e-6
)

// Compute returns a rank for every node in g.Nodes, summing to
// approximately 1.0. A node with no outbound edges ("dangling") spreads
// its mass uniformly over every node, itself included, each iteration.
func Compute(g *importgraph.Graph) map[string]float64 {
	n := len(g.Nodes)
	rank := make(map[string]float64, n)
	if n == 0 {
		return rank
	}

	init := 1.0 / float64(n)
	for _, node := range g.Nodes {
		rank[node] = init
	}

	outDegree := make(map[string]int, n)
	for _, node := range g.Nodes {
		outDegree[node] = len(g.Out[node])
	}

	for iter := 0; iter < maxIterations; iter++ {
		next := make(map[string]float64, n)
		base := (1 - damping) / float64(n)
		for _, node := range g.Nodes {
			next[node] = base
		}

		var danglingMass float64
		for _, node := range g.Nodes {
			if outDegree[node] == 0 {
				danglingMass += rank[node]
				continue
			}
			share := damping * rank[node] / float64(outDegree[node])
			for _, target := range g.Out[node] {
				next[target] += share
			}
		}

		if danglingMass > 0 {
			redistribute := damping * danglingMass / float64(n)
			for _, node := range g.Nodes {
				next[node] += redistribute
			}
		}

		delta := 0.0
		for _, node := range g.Nodes {
			diff := next[node] - rank[node]
			if diff < 0 {
				diff = -diff
			}
			delta += diff
		}
		rank = next
		if delta < convergenceEps {
			break
		}
	}

	return rank
}
