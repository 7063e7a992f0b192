// Package graph parses the adjacency-matrix description of a transit network
// into an immutable weighted graph.
//
// The text format is one header line naming the stations followed by one row
// per station:
//
//	,A,B,C
//	A,0,2,9
//	B,2,0,3
//	C,9,3,0
//
// Weights are travel minutes. The reserved value 9 (NoEdgeInput) means the two
// stations have no direct connection; it never reaches callers, who see NoEdge
// instead. A loaded Graph is never mutated and is safe for concurrent readers.
package graph

import (
	"math"
	"slices"
)

// NoEdgeInput is the value in the text format that marks a missing connection.
const NoEdgeInput = 9

// Weight is the cost of a direct connection in minutes, or NoEdge.
type Weight int64

// NoEdge is the cost stored for pairs without a direct connection. It is
// large enough to act as infinity while leaving room for one addition.
const NoEdge Weight = math.MaxInt64 / 2

// Finite reports whether w is a real connection cost.
func (w Weight) Finite() bool { return w < NoEdge }

// Station is a named stop and its stable position in the load order.
type Station struct {
	Name  string
	Index int
}

// Graph is an ordered list of stations and a square matrix of costs between them.
type Graph struct {
	stations []Station
	index    map[string]int
	matrix   [][]Weight
}

func newGraph(names []string, matrix [][]Weight) *Graph {
	g := &Graph{
		stations: make([]Station, len(names)),
		index:    make(map[string]int, len(names)),
		matrix:   matrix,
	}
	for i, name := range names {
		g.stations[i] = Station{Name: name, Index: i}
		// first occurrence wins, mirroring a linear indexOf over the list
		if _, dup := g.index[name]; !dup {
			g.index[name] = i
		}
	}
	return g
}

// Len returns the number of stations.
func (g *Graph) Len() int { return len(g.stations) }

// Stations returns the station names in load order. The slice is a copy.
func (g *Graph) Stations() []string {
	out := make([]string, len(g.stations))
	for i, s := range g.stations {
		out[i] = s.Name
	}
	return out
}

// Station returns the station at index i.
func (g *Graph) Station(i int) Station { return g.stations[i] }

// Index looks a station up by exact, case-sensitive name.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Cost returns the cost from station i to station j, NoEdge if there is no
// direct connection. Cost(i, i) is always 0.
func (g *Graph) Cost(i, j int) Weight { return g.matrix[i][j] }

// Edge returns the direct cost from i to j as an int and whether it exists.
func (g *Graph) Edge(i, j int) (int, bool) {
	w := g.matrix[i][j]
	if !w.Finite() {
		return 0, false
	}
	return int(w), true
}

// Row returns a copy of the costs leaving station i.
func (g *Graph) Row(i int) []Weight { return slices.Clone(g.matrix[i]) }
