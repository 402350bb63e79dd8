package graph

import "fmt"

// ElemType is the element type of a tensor-valued node arg.
type ElemType int

const (
	ElemUndefined ElemType = iota
	ElemFloat
	ElemFloat16
	ElemInt8
	ElemUint8
	ElemInt16
	ElemUint16
	ElemInt32
	ElemInt64
	ElemBool
)

// String returns the lowercase name of the element type
func (e ElemType) String() string {
	switch e {
	case ElemFloat:
		return "float"
	case ElemFloat16:
		return "float16"
	case ElemInt8:
		return "int8"
	case ElemUint8:
		return "uint8"
	case ElemInt16:
		return "int16"
	case ElemUint16:
		return "uint16"
	case ElemInt32:
		return "int32"
	case ElemInt64:
		return "int64"
	case ElemBool:
		return "bool"
	default:
		return "undefined"
	}
}

// ParseElemType converts a type name to an ElemType
func ParseElemType(s string) (ElemType, error) {
	switch s {
	case "float", "float32":
		return ElemFloat, nil
	case "float16":
		return ElemFloat16, nil
	case "int8":
		return ElemInt8, nil
	case "uint8":
		return ElemUint8, nil
	case "int16":
		return ElemInt16, nil
	case "uint16":
		return ElemUint16, nil
	case "int32":
		return ElemInt32, nil
	case "int64":
		return ElemInt64, nil
	case "bool":
		return ElemBool, nil
	case "", "undefined":
		return ElemUndefined, nil
	default:
		return ElemUndefined, fmt.Errorf("unknown element type %q", s)
	}
}

// TypeInfo describes the type of a node arg: element type plus optional shape.
// A negative dimension means the dimension is symbolic/unknown.
type TypeInfo struct {
	Elem ElemType
	Dims []int64
}

// Clone returns a deep copy of the type descriptor
func (t *TypeInfo) Clone() *TypeInfo {
	if t == nil {
		return nil
	}
	c := &TypeInfo{Elem: t.Elem}
	if t.Dims != nil {
		c.Dims = append([]int64(nil), t.Dims...)
	}
	return c
}

// NodeArg is a named, typed value slot. It is uniquely identified by name
// within the scope in which it is visible.
type NodeArg struct {
	name string
	typ  *TypeInfo
}

// Name returns the value name
func (a *NodeArg) Name() string {
	return a.name
}

// Type returns the type descriptor, which may be nil when unknown
func (a *NodeArg) Type() *TypeInfo {
	return a.typ
}

// Initializer is a constant value attached to a graph, not produced by any
// node. InMemory marks constants whose payload lives outside the serialized
// graph and must be inlined before the graph is handed to an external parser.
type Initializer struct {
	Name     string
	Type     *TypeInfo
	InMemory bool
	Data     []byte
}

// Clone returns a deep copy of the initializer
func (in *Initializer) Clone() *Initializer {
	if in == nil {
		return nil
	}
	c := &Initializer{
		Name:     in.Name,
		Type:     in.Type.Clone(),
		InMemory: in.InMemory,
	}
	if in.Data != nil {
		c.Data = append([]byte(nil), in.Data...)
	}
	return c
}
