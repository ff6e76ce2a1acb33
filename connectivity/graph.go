// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package connectivity

import (
	"container/heap"
	"math"
	"sort"

	. "github.com/openthread/ot-emd/types"
)

// Edge is an undirected graph edge between stations A < B.
type Edge struct {
	A, B         StationId
	Availability float64
	Weight       float64 // 1 - Availability; lower is a better link.
}

// Graph is an undirected weighted connectivity graph. All stations are nodes, edges exist only for links
// with sufficient availability.
type Graph struct {
	Nodes []StationId
	Edges []Edge // sorted by (A, B)

	adj map[StationId]map[StationId]int // node -> neighbor -> index in Edges
}

func newGraph(n int) *Graph {
	g := &Graph{
		Nodes: make([]StationId, n),
		Edges: []Edge{},
		adj:   make(map[StationId]map[StationId]int, n),
	}
	for i := 0; i < n; i++ {
		g.Nodes[i] = i
		g.adj[i] = map[StationId]int{}
	}
	return g
}

func (g *Graph) addEdge(a, b StationId, availability float64) {
	if a > b {
		a, b = b, a
	}
	g.Edges = append(g.Edges, Edge{
		A:            a,
		B:            b,
		Availability: availability,
		Weight:       1.0 - availability,
	})
	g.adj[a][b] = len(g.Edges) - 1
	g.adj[b][a] = len(g.Edges) - 1
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

// HasEdge checks if an edge between a and b exists, in any order.
func (g *Graph) HasEdge(a, b StationId) bool {
	_, ok := g.Edge(a, b)
	return ok
}

// Edge gets the edge between a and b, in any order.
func (g *Graph) Edge(a, b StationId) (Edge, bool) {
	if nb, ok := g.adj[a]; ok {
		if idx, ok := nb[b]; ok {
			return g.Edges[idx], true
		}
	}
	return Edge{}, false
}

// Neighbors returns the sorted neighbors of a node.
func (g *Graph) Neighbors(id StationId) []StationId {
	res := make([]StationId, 0, len(g.adj[id]))
	for nb := range g.adj[id] {
		res = append(res, nb)
	}
	sort.Ints(res)
	return res
}

// Degree returns the number of edges of a node.
func (g *Graph) Degree(id StationId) int {
	return len(g.adj[id])
}

// Components returns the connected components, each sorted, ordered by their lowest station id.
func (g *Graph) Components() [][]StationId {
	visited := make(map[StationId]bool, len(g.Nodes))
	var comps [][]StationId
	for _, start := range g.Nodes {
		if visited[start] {
			continue
		}
		comp := []StationId{}
		stack := []StationId{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, nb := range g.Neighbors(cur) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return comps
}

// ShortestPath finds the path from src to dst with the lowest total edge weight (Dijkstra). Returns nil
// and +Inf if dst is not reachable from src.
func (g *Graph) ShortestPath(src, dst StationId) ([]StationId, float64) {
	if _, ok := g.adj[src]; !ok {
		return nil, math.Inf(1)
	}
	if _, ok := g.adj[dst]; !ok {
		return nil, math.Inf(1)
	}

	dist := make(map[StationId]float64, len(g.Nodes))
	prev := make(map[StationId]StationId, len(g.Nodes))
	for _, n := range g.Nodes {
		dist[n] = math.Inf(1)
	}
	dist[src] = 0
	pq := &pathQueue{{id: src, dist: 0}}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pathItem)
		if cur.dist > dist[cur.id] {
			continue
		}
		if cur.id == dst {
			break
		}
		for _, nb := range g.Neighbors(cur.id) {
			e := g.Edges[g.adj[cur.id][nb]]
			d := cur.dist + e.Weight
			if d < dist[nb] {
				dist[nb] = d
				prev[nb] = cur.id
				heap.Push(pq, pathItem{id: nb, dist: d})
			}
		}
	}

	if math.IsInf(dist[dst], 1) {
		return nil, dist[dst]
	}
	path := []StationId{dst}
	for n := dst; n != src; {
		n = prev[n]
		path = append([]StationId{n}, path...)
	}
	return path, dist[dst]
}

// ToMatrix converts the graph into a symmetric n x n matrix holding the availability of each edge.
func (g *Graph) ToMatrix() Matrix {
	m := NewMatrix(len(g.Nodes), len(g.Nodes))
	for _, e := range g.Edges {
		m[e.A][e.B] = e.Availability
		m[e.B][e.A] = e.Availability
	}
	return m
}

type pathItem struct {
	id   StationId
	dist float64
}

type pathQueue []pathItem

func (pq pathQueue) Len() int { return len(pq) }
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].id < pq[j].id
	}
	return pq[i].dist < pq[j].dist
}
func (pq pathQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *pathQueue) Push(x interface{}) { *pq = append(*pq, x.(pathItem)) }
func (pq *pathQueue) Pop() interface{} {
	old := *pq
	item := old[len(old)-1]
	*pq = old[:len(old)-1]
	return item
}
