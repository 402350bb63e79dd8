package logging

import "time"

// Common field constructors

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error creates a field for an error value
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field constructors used across the offload passes

// GraphName identifies the graph a pass is operating on
func GraphName(name string) Field {
	return Field{Key: "graph", Value: name}
}

// Identity carries the content-derived graph identity
func Identity(id string) Field {
	return Field{Key: "identity", Value: id}
}

// NodeName identifies a node within a graph
func NodeName(name string) Field {
	return Field{Key: "node", Value: name}
}

// ValueName identifies a node arg / value by name
func ValueName(name string) Field {
	return Field{Key: "value", Value: name}
}

// OpType carries a node's operation kind
func OpType(op string) Field {
	return Field{Key: "op", Value: op}
}

// Count is a generic cardinality field
func Count(n int) Field {
	return Field{Key: "count", Value: n}
}

// Session identifies one compilation session
func Session(id string) Field {
	return Field{Key: "session", Value: id}
}
