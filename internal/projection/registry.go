package projection

import (
	"fmt"
	"go/ast"
)

// Registry maps backreference ids to the syntax nodes they were created
// for. It is append-only and shares the lifetime of the syntax tree.
type Registry struct {
	nodes []ast.Node
}

// Append records n and returns its id.
func (r *Registry) Append(n ast.Node) int {
	id := len(r.nodes)
	r.nodes = append(r.nodes, n)
	return id
}

// Get returns the node for id. An unknown id means the projection and the
// registry are out of sync, which is a bug, so Get panics.
func (r *Registry) Get(id int) ast.Node {
	if id < 0 || id >= len(r.nodes) {
		panic(fmt.Sprintf("projection: backreference %d out of range [0, %d)", id, len(r.nodes)))
	}
	return r.nodes[id]
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}
