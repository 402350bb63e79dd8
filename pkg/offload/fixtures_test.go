package offload

import (
	"testing"

	"github.com/dd0wney/cluso-offload/pkg/graph"
)

// nestedIfModel builds the canonical two-level fixture:
//
//	root: prod Relu(a)->x, cond_if If(cond)->y [implicit x]
//	  then_branch: inner Relu(x)->t_out
//
// The value x is produced only at the root and consumed inside the branch.
func nestedIfModel(t *testing.T) *graph.Graph {
	t.Helper()
	root := graph.New("root")
	a := root.GetOrCreateNodeArg("a", &graph.TypeInfo{Elem: graph.ElemFloat})
	x := root.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	cond := root.GetOrCreateNodeArg("cond", &graph.TypeInfo{Elem: graph.ElemBool})
	y := root.GetOrCreateNodeArg("y", &graph.TypeInfo{Elem: graph.ElemFloat})

	root.AddInput(a)
	root.AddInput(cond)
	if _, err := root.AddNode("prod", "Relu", []*graph.NodeArg{a}, []*graph.NodeArg{x}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	ctrl, err := root.AddNode("cond_if", "If", []*graph.NodeArg{cond}, []*graph.NodeArg{y})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	ctrl.AddImplicitInput(x)
	root.AddOutput(y)

	branch := graph.New("then")
	bx := branch.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	tOut := branch.GetOrCreateNodeArg("t_out", &graph.TypeInfo{Elem: graph.ElemFloat})
	if _, err := branch.AddNode("inner", "Relu", []*graph.NodeArg{bx}, []*graph.NodeArg{tOut}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	branch.AddOutput(tOut)
	if err := root.AttachSubgraph(ctrl, "then_branch", branch); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}
	return root
}

// threeLevelModel builds root -> A -> B -> C where x is produced only at the
// root and consumed explicitly only in the deepest body C. In A and B the
// value appears only as an implicit input of the control-flow chain, so it is
// not part of their local contexts.
func threeLevelModel(t *testing.T) (root, subA, subB, subC *graph.Graph) {
	t.Helper()
	root = graph.New("root")
	a := root.GetOrCreateNodeArg("a", &graph.TypeInfo{Elem: graph.ElemFloat})
	x := root.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	y := root.GetOrCreateNodeArg("y", &graph.TypeInfo{Elem: graph.ElemFloat})
	root.AddInput(a)
	root.AddNode("prod", "Relu", []*graph.NodeArg{a}, []*graph.NodeArg{x})
	ifA, err := root.AddNode("if_a", "If", nil, []*graph.NodeArg{y})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	ifA.AddImplicitInput(x)
	root.AddOutput(y)

	subA = graph.New("sub_a")
	ax := subA.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	aOut := subA.GetOrCreateNodeArg("a_out", &graph.TypeInfo{Elem: graph.ElemFloat})
	ifB, err := subA.AddNode("if_b", "If", nil, []*graph.NodeArg{aOut})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	ifB.AddImplicitInput(ax)
	subA.AddOutput(aOut)
	if err := root.AttachSubgraph(ifA, "body", subA); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}

	subB = graph.New("sub_b")
	bx := subB.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	bOut := subB.GetOrCreateNodeArg("b_out", &graph.TypeInfo{Elem: graph.ElemFloat})
	ifC, err := subB.AddNode("if_c", "If", nil, []*graph.NodeArg{bOut})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	ifC.AddImplicitInput(bx)
	subB.AddOutput(bOut)
	if err := subA.AttachSubgraph(ifB, "body", subB); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}

	subC = graph.New("sub_c")
	cx := subC.GetOrCreateNodeArg("x", &graph.TypeInfo{Elem: graph.ElemFloat})
	cOut := subC.GetOrCreateNodeArg("c_out", &graph.TypeInfo{Elem: graph.ElemFloat})
	if _, err := subC.AddNode("use", "Relu", []*graph.NodeArg{cx}, []*graph.NodeArg{cOut}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	subC.AddOutput(cOut)
	if err := subB.AttachSubgraph(ifC, "body", subC); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}
	return root, subA, subB, subC
}

func argNames(args []*graph.NodeArg) []string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		names = append(names, arg.Name())
	}
	return names
}

func builtStore(t *testing.T, graphs ...*graph.Graph) (*ContextStore, *ContextBuilder) {
	t.Helper()
	store := NewContextStore()
	builder := NewContextBuilder(store, nil)
	for _, g := range graphs {
		if err := builder.Build(g); err != nil {
			t.Fatalf("Build failed: %v", err)
		}
	}
	return store, builder
}
