package graph

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Description is the YAML model description consumed by LoadFile. Subgraph
// bodies nest the same structure under a node's attributes.
type Description struct {
	Name         string                   `yaml:"name" validate:"required"`
	Nodes        []NodeDescription        `yaml:"nodes" validate:"dive"`
	Initializers []InitializerDescription `yaml:"initializers" validate:"dive"`
	Inputs       []string                 `yaml:"inputs"`
	Outputs      []string                 `yaml:"outputs"`
	ArgTypes     map[string]string        `yaml:"arg_types"`
}

// NodeDescription describes one node of a graph description
type NodeDescription struct {
	Name           string                  `yaml:"name" validate:"required"`
	Op             string                  `yaml:"op" validate:"required"`
	Priority       int                     `yaml:"priority"`
	Inputs         []string                `yaml:"inputs"`
	Outputs        []string                `yaml:"outputs" validate:"required,min=1"`
	ImplicitInputs []string                `yaml:"implicit_inputs"`
	Subgraphs      map[string]*Description `yaml:"subgraphs"`
}

// InitializerDescription describes one constant of a graph description
type InitializerDescription struct {
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type" validate:"required"`
	InMemory bool   `yaml:"in_memory"`
	Data     string `yaml:"data"`
}

// LoadFile reads, validates and materializes a YAML graph description
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph description: %w", err)
	}
	return Parse(data)
}

// Parse validates and materializes a YAML graph description
func Parse(data []byte) (*Graph, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDesc, err)
	}
	return Build(&desc)
}

// Build materializes a validated description into a graph, recursively
// attaching subgraph bodies.
func Build(desc *Description) (*Graph, error) {
	if err := validate.Struct(desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDesc, err)
	}
	g := New(desc.Name)
	if err := populate(g, desc); err != nil {
		return nil, err
	}
	return g, nil
}

func populate(g *Graph, desc *Description) error {
	for name, typeName := range desc.ArgTypes {
		elem, err := ParseElemType(typeName)
		if err != nil {
			return fmt.Errorf("%w: arg %s: %v", ErrInvalidDesc, name, err)
		}
		g.GetOrCreateNodeArg(name, &TypeInfo{Elem: elem})
	}

	for _, id := range desc.Initializers {
		elem, err := ParseElemType(id.Type)
		if err != nil {
			return fmt.Errorf("%w: initializer %s: %v", ErrInvalidDesc, id.Name, err)
		}
		init := &Initializer{
			Name:     id.Name,
			Type:     &TypeInfo{Elem: elem},
			InMemory: id.InMemory,
		}
		if id.Data != "" {
			init.Data = []byte(id.Data)
		}
		g.AddInitializer(init)
	}

	for _, name := range desc.Inputs {
		g.AddInput(g.GetOrCreateNodeArg(name, nil))
	}

	for _, nd := range desc.Nodes {
		inputs := make([]*NodeArg, 0, len(nd.Inputs))
		for _, in := range nd.Inputs {
			inputs = append(inputs, g.GetOrCreateNodeArg(in, nil))
		}
		outputs := make([]*NodeArg, 0, len(nd.Outputs))
		for _, out := range nd.Outputs {
			outputs = append(outputs, g.GetOrCreateNodeArg(out, nil))
		}
		node, err := g.AddNode(nd.Name, nd.Op, inputs, outputs)
		if err != nil {
			return err
		}
		node.SetPriority(nd.Priority)
		for _, in := range nd.ImplicitInputs {
			node.AddImplicitInput(g.GetOrCreateNodeArg(in, nil))
		}
	}

	for _, name := range desc.Outputs {
		g.AddOutput(g.GetOrCreateNodeArg(name, nil))
	}

	// Attach subgraph bodies after all nodes exist so parent links are stable
	for _, nd := range desc.Nodes {
		if len(nd.Subgraphs) == 0 {
			continue
		}
		node := g.NodeByName(nd.Name)
		attrs := make([]string, 0, len(nd.Subgraphs))
		for attr := range nd.Subgraphs {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			subDesc := nd.Subgraphs[attr]
			sub, err := Build(subDesc)
			if err != nil {
				return err
			}
			if err := g.AttachSubgraph(node, attr, sub); err != nil {
				return err
			}
		}
	}
	return nil
}
