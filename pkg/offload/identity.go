package offload

import (
	"strconv"

	"github.com/twmb/murmur3"

	"github.com/dd0wney/cluso-offload/pkg/graph"
)

// UniqueGraphName derives the stable, content-based identity used to key all
// per-graph state. It hashes every node name in increasing index order,
// skipping removed slots, and appends a 64-bit digest assembled from the
// 128-bit hash to the graph's own name. Candidate graphs have not been
// through structural validation yet, so their plain names are not reliable
// keys; the digest is what keeps contexts for distinct trees apart.
func UniqueGraphName(g *graph.Graph) string {
	h := murmur3.New128()
	for i := 0; i < g.MaxNodeIndex(); i++ {
		node := g.GetNode(i)
		if node == nil {
			continue
		}
		h.Write([]byte(node.Name()))
	}
	h1, h2 := h.Sum128()
	digest := uint64(uint32(h1)) | uint64(uint32(h2))<<32
	return g.Name() + "_" + strconv.FormatUint(digest, 10)
}
