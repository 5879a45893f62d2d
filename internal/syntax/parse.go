package syntax

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"sync"
)

// File is one parsed source file. It owns the syntax tree; everything
// derived from it (projection, registry) must not outlive it.
type File struct {
	Name string
	Fset *token.FileSet
	// AST is nil for an empty (whitespace only) input.
	AST *ast.File
	Src []byte

	// guards the comment fields Print detaches while printing
	mu sync.Mutex
}

// Empty reports whether the file has no top-level unit at all.
func (f *File) Empty() bool {
	return f.AST == nil
}

// Parse parses src as a Go source file. Gno sources share Go's syntax, so
// they are parsed the same way regardless of extension.
func Parse(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	if len(bytes.TrimSpace(src)) == 0 {
		fset.AddFile(filename, -1, len(src))
		return &File{Name: filename, Fset: fset, Src: src}, nil
	}

	node, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	return &File{Name: filename, Fset: fset, AST: node, Src: src}, nil
}
