package graph

import (
	"errors"
	"testing"
)

// TestAddNode_DuplicateName tests node name uniqueness
func TestAddNode_DuplicateName(t *testing.T) {
	g := New("model")
	x := g.GetOrCreateNodeArg("x", nil)
	y := g.GetOrCreateNodeArg("y", nil)

	if _, err := g.AddNode("relu", "Relu", []*NodeArg{x}, []*NodeArg{y}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	_, err := g.AddNode("relu", "Relu", []*NodeArg{x}, []*NodeArg{y})
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("Expected ErrDuplicateNode, got %v", err)
	}
}

// TestRemoveNode_LeavesSparseSlot tests that removal keeps the index space
func TestRemoveNode_LeavesSparseSlot(t *testing.T) {
	g := New("model")
	x := g.GetOrCreateNodeArg("x", nil)
	y := g.GetOrCreateNodeArg("y", nil)
	z := g.GetOrCreateNodeArg("z", nil)

	g.AddNode("a", "Relu", []*NodeArg{x}, []*NodeArg{y})
	b, _ := g.AddNode("b", "Relu", []*NodeArg{y}, []*NodeArg{z})

	if err := g.RemoveNode(0); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if g.MaxNodeIndex() != 2 {
		t.Errorf("MaxNodeIndex should stay 2 after removal, got %d", g.MaxNodeIndex())
	}
	if g.GetNode(0) != nil {
		t.Error("Removed slot should be nil")
	}
	if g.GetNode(1) != b {
		t.Error("Surviving node should keep its index")
	}
	if g.NodeByName("a") != nil {
		t.Error("Removed node should not be found by name")
	}
}

// TestGetOrCreateNodeArg_AdoptsType tests type adoption on untyped args
func TestGetOrCreateNodeArg_AdoptsType(t *testing.T) {
	g := New("model")
	arg := g.GetOrCreateNodeArg("x", nil)
	if arg.Type() != nil {
		t.Fatal("Fresh arg should have nil type")
	}

	again := g.GetOrCreateNodeArg("x", &TypeInfo{Elem: ElemInt16})
	if again != arg {
		t.Error("GetOrCreateNodeArg should return the existing arg")
	}
	if arg.Type() == nil || arg.Type().Elem != ElemInt16 {
		t.Error("Existing untyped arg should adopt the given type")
	}

	// A typed arg keeps its type
	g.GetOrCreateNodeArg("x", &TypeInfo{Elem: ElemFloat})
	if arg.Type().Elem != ElemInt16 {
		t.Error("Typed arg should not be retyped")
	}
}

// TestOutputEdgeCount counts explicit and implicit consumer references
func TestOutputEdgeCount(t *testing.T) {
	g := New("model")
	c := g.GetOrCreateNodeArg("c", nil)
	d := g.GetOrCreateNodeArg("d", nil)
	w := g.GetOrCreateNodeArg("w", nil)
	y := g.GetOrCreateNodeArg("y", nil)
	z := g.GetOrCreateNodeArg("z", nil)

	dq, _ := g.AddNode("dq", "DequantizeLinear", []*NodeArg{c}, []*NodeArg{d})
	g.AddNode("mm", "MatMul", []*NodeArg{d, w}, []*NodeArg{y})

	if dq.OutputEdgeCount() != 1 {
		t.Errorf("Expected 1 consumer edge, got %d", dq.OutputEdgeCount())
	}

	ctrl, _ := g.AddNode("if", "If", nil, []*NodeArg{z})
	ctrl.AddImplicitInput(d)
	if dq.OutputEdgeCount() != 2 {
		t.Errorf("Implicit reference should count as an edge, got %d", dq.OutputEdgeCount())
	}

	consumer := dq.FirstConsumer()
	if consumer == nil || consumer.Name() != "mm" {
		t.Errorf("FirstConsumer should be mm in index order, got %v", consumer)
	}
}

// TestProducesGraphOutput tests graph-output sink detection
func TestProducesGraphOutput(t *testing.T) {
	g := New("model")
	x := g.GetOrCreateNodeArg("x", nil)
	y := g.GetOrCreateNodeArg("y", nil)

	n, _ := g.AddNode("relu", "Relu", []*NodeArg{x}, []*NodeArg{y})
	if n.ProducesGraphOutput() {
		t.Error("No outputs declared yet")
	}
	g.AddOutput(y)
	if !n.ProducesGraphOutput() {
		t.Error("Node producing a declared graph output should report it")
	}
}

// TestIsConstantInitializer_OuterScope tests the ancestor-chain check
func TestIsConstantInitializer_OuterScope(t *testing.T) {
	root := New("root")
	root.AddInitializer(&Initializer{Name: "c", Type: &TypeInfo{Elem: ElemInt32}})
	cond := root.GetOrCreateNodeArg("cond", nil)
	out := root.GetOrCreateNodeArg("out", nil)
	ctrl, _ := root.AddNode("if", "If", []*NodeArg{cond}, []*NodeArg{out})

	sub := New("then")
	if err := root.AttachSubgraph(ctrl, "then_branch", sub); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}

	if sub.IsConstantInitializer("c", false) {
		t.Error("c is not a local initializer of the subgraph")
	}
	if !sub.IsConstantInitializer("c", true) {
		t.Error("c should be found through the ancestor chain")
	}
	if !root.IsConstantInitializer("c", false) {
		t.Error("c is a local initializer of root")
	}
}

// TestConvertInMemoryDataToInline covers the three materialization cases
func TestConvertInMemoryDataToInline(t *testing.T) {
	g := New("model")
	g.AddInitializer(&Initializer{Name: "ok", Type: &TypeInfo{Elem: ElemFloat}, InMemory: true, Data: []byte{1}})
	g.AddInitializer(&Initializer{Name: "dangling", Type: &TypeInfo{Elem: ElemFloat}, InMemory: true})

	if err := g.ConvertInMemoryDataToInline("not-an-initializer"); err != nil {
		t.Errorf("Non-initializer values are a no-op, got %v", err)
	}
	if err := g.ConvertInMemoryDataToInline("ok"); err != nil {
		t.Errorf("Inlining with payload should succeed, got %v", err)
	}
	init, _ := g.Initializer("ok")
	if init.InMemory {
		t.Error("Inlined initializer should no longer be in-memory")
	}
	err := g.ConvertInMemoryDataToInline("dangling")
	if !errors.Is(err, ErrInlineData) {
		t.Errorf("Expected ErrInlineData, got %v", err)
	}
}

// TestGetInputsIncludingInitializers_DefaultAndExplicit tests input list modes
func TestGetInputsIncludingInitializers_DefaultAndExplicit(t *testing.T) {
	g := New("model")
	x := g.GetOrCreateNodeArg("x", nil)
	g.AddInput(x)
	g.AddInitializer(&Initializer{Name: "w", Type: &TypeInfo{Elem: ElemFloat}})

	inputs := g.GetInputsIncludingInitializers()
	if len(inputs) != 2 || inputs[0].Name() != "x" || inputs[1].Name() != "w" {
		t.Fatalf("Expected [x w], got %v", argNames(inputs))
	}

	g.SetInputs([]*NodeArg{g.GetOrCreateNodeArg("w", nil)})
	inputs = g.GetInputsIncludingInitializers()
	if len(inputs) != 1 || inputs[0].Name() != "w" {
		t.Errorf("SetInputs should be authoritative, got %v", argNames(inputs))
	}
}

// TestAttachSubgraph_Errors tests attachment contract violations
func TestAttachSubgraph_Errors(t *testing.T) {
	g := New("root")
	other := New("other")
	out := g.GetOrCreateNodeArg("out", nil)
	ctrl, _ := g.AddNode("if", "If", nil, []*NodeArg{out})

	sub := New("then")
	if err := g.AttachSubgraph(ctrl, "then_branch", sub); err != nil {
		t.Fatalf("AttachSubgraph failed: %v", err)
	}
	if sub.ParentGraph() != g || sub.ParentNode() != ctrl {
		t.Error("Parent links not wired")
	}

	err := g.AttachSubgraph(ctrl, "then_branch", New("again"))
	if !errors.Is(err, ErrAttributeExists) {
		t.Errorf("Expected ErrAttributeExists, got %v", err)
	}

	foreign, _ := other.AddNode("n", "If", nil, []*NodeArg{other.GetOrCreateNodeArg("o", nil)})
	err = g.AttachSubgraph(foreign, "body", New("body"))
	if !errors.Is(err, ErrForeignNode) {
		t.Errorf("Expected ErrForeignNode, got %v", err)
	}
}

func argNames(args []*NodeArg) []string {
	names := make([]string, 0, len(args))
	for _, a := range args {
		names = append(names, a.Name())
	}
	return names
}
