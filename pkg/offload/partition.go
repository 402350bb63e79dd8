package offload

// SubGraph is one candidate offload region: node positions into the
// priority-based topological order of the graph it was computed against,
// plus whether the accelerator parser accepted the region.
type SubGraph struct {
	Nodes     []int `json:"nodes"`
	Supported bool  `json:"supported"`
}

// SubGraphCollection is an ordered list of disjoint candidate regions
// considered together.
type SubGraphCollection []*SubGraph

// ContainsNode reports whether any supported partition in the collection
// includes the node with the given graph index. order is the topological
// order the partition positions refer to.
func (c SubGraphCollection) ContainsNode(order []int, nodeIndex int) bool {
	for _, sg := range c {
		if sg == nil || !sg.Supported {
			continue
		}
		for _, pos := range sg.Nodes {
			if pos < 0 || pos >= len(order) {
				continue
			}
			if order[pos] == nodeIndex {
				return true
			}
		}
	}
	return false
}
