package graph

import "sort"

// SortMode selects the tie-break rule used when linearizing nodes.
type SortMode int

const (
	// SortDefault breaks ties by increasing node index
	SortDefault SortMode = iota
	// SortPriority breaks ties by node priority (higher first), then index
	SortPriority
)

// NodesInTopologicalOrder returns the indices of the graph's live nodes in a
// deterministic dependency-respecting order using Kahn's algorithm. Edges are
// derived from value production: a node depends on the producer of each of
// its explicit and implicit inputs within the same graph.
func (g *Graph) NodesInTopologicalOrder(mode SortMode) ([]int, error) {
	producer := make(map[string]int)
	live := make([]int, 0, len(g.nodes))
	for i := 0; i < len(g.nodes); i++ {
		n := g.nodes[i]
		if n == nil {
			continue
		}
		live = append(live, i)
		for _, out := range n.outputs {
			producer[out.Name()] = i
		}
	}

	inDegree := make(map[int]int, len(live))
	dependents := make(map[int][]int, len(live))
	for _, i := range live {
		inDegree[i] = 0
	}
	for _, i := range live {
		n := g.nodes[i]
		for _, in := range append(append([]*NodeArg(nil), n.inputs...), n.implicit...) {
			p, ok := producer[in.Name()]
			if !ok || p == i {
				continue
			}
			dependents[p] = append(dependents[p], i)
			inDegree[i]++
		}
	}

	ready := make([]int, 0, len(live))
	for _, i := range live {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	less := func(a, b int) bool {
		if mode == SortPriority {
			pa, pb := g.nodes[a].priority, g.nodes[b].priority
			if pa != pb {
				return pa > pb
			}
		}
		return a < b
	}

	sorted := make([]int, 0, len(live))
	for len(ready) > 0 {
		sort.Slice(ready, func(x, y int) bool { return less(ready[x], ready[y]) })
		current := ready[0]
		ready = ready[1:]
		sorted = append(sorted, current)

		for _, dep := range dependents[current] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(sorted) != len(live) {
		return nil, opError("TopologicalSort", g, "", ErrGraphCycle)
	}
	return sorted, nil
}
