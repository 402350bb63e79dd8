package offload

import (
	"strings"
	"testing"

	"github.com/dd0wney/cluso-offload/pkg/graph"
)

func twoNodeGraph(t *testing.T, name string) *graph.Graph {
	t.Helper()
	g := graph.New(name)
	a := g.GetOrCreateNodeArg("a", nil)
	b := g.GetOrCreateNodeArg("b", nil)
	c := g.GetOrCreateNodeArg("c", nil)
	if _, err := g.AddNode("n1", "Relu", []*graph.NodeArg{a}, []*graph.NodeArg{b}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := g.AddNode("n2", "Relu", []*graph.NodeArg{b}, []*graph.NodeArg{c}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	return g
}

// TestUniqueGraphName_Deterministic tests stability across calls
func TestUniqueGraphName_Deterministic(t *testing.T) {
	g := twoNodeGraph(t, "model")
	first := UniqueGraphName(g)
	for i := 0; i < 5; i++ {
		if UniqueGraphName(g) != first {
			t.Fatal("Identity changed between calls on an unmutated graph")
		}
	}
	if !strings.HasPrefix(first, "model_") {
		t.Errorf("Identity should start with the graph name, got %s", first)
	}
}

// TestUniqueGraphName_DependsOnNodeNames tests content sensitivity
func TestUniqueGraphName_DependsOnNodeNames(t *testing.T) {
	g1 := twoNodeGraph(t, "model")

	g2 := graph.New("model")
	a := g2.GetOrCreateNodeArg("a", nil)
	b := g2.GetOrCreateNodeArg("b", nil)
	c := g2.GetOrCreateNodeArg("c", nil)
	g2.AddNode("n1", "Relu", []*graph.NodeArg{a}, []*graph.NodeArg{b})
	g2.AddNode("renamed", "Relu", []*graph.NodeArg{b}, []*graph.NodeArg{c})

	if UniqueGraphName(g1) == UniqueGraphName(g2) {
		t.Error("Different node names should produce different identities")
	}
}

// TestUniqueGraphName_SameContentSameIdentity tests that two graph objects
// with identical names and node names share an identity
func TestUniqueGraphName_SameContentSameIdentity(t *testing.T) {
	g1 := twoNodeGraph(t, "model")
	g2 := twoNodeGraph(t, "model")
	if UniqueGraphName(g1) != UniqueGraphName(g2) {
		t.Error("Structurally identical graphs should share an identity")
	}
}

// TestUniqueGraphName_SkipsRemovedSlots tests sparse index tolerance
func TestUniqueGraphName_SkipsRemovedSlots(t *testing.T) {
	g := twoNodeGraph(t, "model")
	if err := g.RemoveNode(0); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	// A graph that only ever had n2 must hash the same
	ref := graph.New("model")
	b := ref.GetOrCreateNodeArg("b", nil)
	c := ref.GetOrCreateNodeArg("c", nil)
	ref.AddNode("n2", "Relu", []*graph.NodeArg{b}, []*graph.NodeArg{c})

	if UniqueGraphName(g) != UniqueGraphName(ref) {
		t.Error("Removed slots should be skipped, not hashed")
	}
}
