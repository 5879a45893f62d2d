// Package projection turns a Go syntax tree into a generic labeled tree and
// keeps the backreferences needed to get from a tree element back to the
// ast.Node it was created for.
//
// The syntax tree is the sole owner of the nodes. A Projection holds the
// tree and the Registry built from it and must be dropped with the file.
package projection

import (
	"go/ast"

	"github.com/gnoswap-labs/gsg/internal/syntax"
	"github.com/gnoswap-labs/gsg/internal/tree"
)

// Projection is the result of projecting one file.
type Projection struct {
	File     *syntax.File
	Doc      *tree.Node
	Registry *Registry
}

// Project projects f. An empty file yields a document with no children.
func Project(f *syntax.File) *Projection {
	doc := tree.NewDocument()
	registry := &Registry{}
	if !f.Empty() {
		NewProjector(doc, registry).Visit(f.AST)
	}
	return &Projection{File: f, Doc: doc, Registry: registry}
}

// Resolve returns the syntax node el was created for. Elements that stand
// for discriminators have none.
func (p *Projection) Resolve(el *tree.Node) (ast.Node, bool) {
	id, ok := el.Ref.ID()
	if !ok {
		return nil, false
	}
	return p.Registry.Get(id), true
}
