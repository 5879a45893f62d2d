package syntax

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
)

var printConfig = printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}

// Print reproduces the source of n in canonical form. Kinds go/printer
// cannot print on their own fall back to the exact source span. Doc and
// line comments attached to n or its descendants are left out; they are
// projected as CommentGroup elements of their own.
func Print(f *File, n ast.Node) (string, error) {
	switch n := n.(type) {
	case *ast.Comment:
		return n.Text, nil
	case *ast.Package:
		return n.Name, nil
	case *ast.Field, *ast.FieldList, *ast.CommentGroup, *ast.BadExpr, *ast.BadStmt, *ast.BadDecl:
		return Span(f, n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	defer detachComments(n)()

	var buf bytes.Buffer
	if err := printConfig.Fprint(&buf, f.Fset, n); err != nil {
		return "", fmt.Errorf("printing %T: %w", n, err)
	}
	return buf.String(), nil
}

// detachComments clears the Doc and Comment fields below n, except those
// of a whole file, and returns a func putting them back.
func detachComments(n ast.Node) (restore func()) {
	type slot struct {
		field **ast.CommentGroup
		group *ast.CommentGroup
	}
	var slots []slot
	detach := func(field **ast.CommentGroup) {
		if *field != nil {
			slots = append(slots, slot{field, *field})
			*field = nil
		}
	}

	ast.Inspect(n, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Field:
			detach(&n.Doc)
			detach(&n.Comment)
		case *ast.ImportSpec:
			detach(&n.Doc)
			detach(&n.Comment)
		case *ast.ValueSpec:
			detach(&n.Doc)
			detach(&n.Comment)
		case *ast.TypeSpec:
			detach(&n.Doc)
			detach(&n.Comment)
		case *ast.GenDecl:
			detach(&n.Doc)
		case *ast.FuncDecl:
			detach(&n.Doc)
		case *ast.File:
			// go/printer prints a file with its full comment list
			return false
		}
		return true
	})

	return func() {
		for _, s := range slots {
			*s.field = s.group
		}
	}
}

// Span returns the source bytes between n.Pos() and n.End().
func Span(f *File, n ast.Node) (string, error) {
	if !n.Pos().IsValid() || !n.End().IsValid() {
		return "", fmt.Errorf("%T has no position", n)
	}
	start := offset(f.Fset, n.Pos())
	end := offset(f.Fset, n.End())
	if start < 0 || end > len(f.Src) || start > end {
		return "", fmt.Errorf("%T span [%d:%d] outside source of %d bytes", n, start, end, len(f.Src))
	}
	return string(f.Src[start:end]), nil
}

func offset(fset *token.FileSet, p token.Pos) int {
	return fset.Position(p).Offset
}
