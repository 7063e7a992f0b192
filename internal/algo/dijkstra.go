package algo

import (
	"fmt"

	"github.com/atharv3903/metronav/internal/graph"
	"github.com/atharv3903/metronav/internal/model"
)

// Trace is a query result together with how many stations were settled
// while computing it.
type Trace struct {
	Result   model.PathResult
	Explored int
}

// FindShortestPath returns the cheapest route from start to end.
// Unknown stations and unreachable targets come back as failures.
func FindShortestPath(g *graph.Graph, start, end string) model.PathResult {
	return Search(g, start, end).Result
}

// Search runs an O(N²) array Dijkstra over the cost matrix. Among unvisited
// stations with equal cost the lowest index is settled first, which decides
// the route when several are equally cheap.
func Search(g *graph.Graph, start, end string) Trace {
	src, ok := g.Index(start)
	if !ok {
		return Trace{Result: model.MustFailure(fmt.Sprintf("station not found: %s", start))}
	}
	dst, ok := g.Index(end)
	if !ok {
		return Trace{Result: model.MustFailure(fmt.Sprintf("station not found: %s", end))}
	}

	n := g.Len()
	dist := make([]graph.Weight, n)
	prev := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = graph.NoEdge
		prev[i] = -1
	}
	dist[src] = 0
	explored := 0

	for range n {
		u := -1
		best := graph.NoEdge
		for j := 0; j < n; j++ {
			if !visited[j] && dist[j] < best {
				best = dist[j]
				u = j
			}
		}

		if u == -1 || u == dst {
			break
		}

		visited[u] = true
		explored++

		for v := 0; v < n; v++ {
			w := g.Cost(u, v)
			if visited[v] || !w.Finite() {
				continue
			}
			if alt := dist[u] + w; alt < dist[v] {
				dist[v] = alt
				prev[v] = u
			}
		}
	}

	if !dist[dst].Finite() {
		return Trace{
			Result:   model.MustFailure(fmt.Sprintf("no path between %s and %s", start, end)),
			Explored: explored,
		}
	}

	// reconstruct
	path := []string{}
	for cur := dst; cur != -1; cur = prev[cur] {
		path = append(path, g.Station(cur).Name)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return Trace{Result: model.MustSuccess(path, int(dist[dst])), Explored: explored}
}
