package projection

import (
	"go/ast"
	"go/token"
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/gsg/internal/syntax"
	"github.com/gnoswap-labs/gsg/internal/tree"
)

// everything uses every construct the parser can produce from valid source.
const everything = `// Package sample exercises every construct.
package sample

import (
	"fmt" // printing
	str "strings"
)

type (
	Pair[K comparable, V any] struct {
		Key   K ` + "`json:\"key\"`" + `
		Value V
	}
	Stringer interface{ String() string }
	Alias    = int
)

var table = map[string][]int{"a": {1, 2}}

const limit = 10

func (p *Pair[K, V]) Get(args ...int) (V, error) {
	ch := make(chan<- int, 1)
	var recv <-chan int
	var x interface{} = p
	if s, ok := x.(fmt.Stringer); ok {
		_ = s
	}
	ch <- -1
	i := 0
	i++
	fmt.Println()
	go func() {}()
	defer fmt.Println(str.ToUpper("x"), args[0], table["a"][0:1:1], (limit + 1))
	m := Pair[string, int]{Key: "k"}
	_ = &m
outer:
	for j := 0; j < limit; j++ {
		for k, v := range table {
			_, _ = k, v
			continue outer
		}
	}
	switch i {
	case 1:
	default:
	}
	switch y := x.(type) {
	case int:
		_ = y
	}
	select {
	case v := <-recv:
		_ = v
	default:
	}
	{
		;
	}
	var arr [2]int
	_ = arr
	return p.Value, nil
}
`

func project(t *testing.T, src string) *Projection {
	t.Helper()

	f, err := syntax.Parse("sample.go", []byte(src))
	require.NoError(t, err)
	return Project(f)
}

func tags(root *tree.Node) []string {
	var out []string
	tree.Walk(root, func(n *tree.Node) {
		if n.Type == tree.ElementNode {
			out = append(out, n.Tag)
		}
	})
	return out
}

// kindOf names the syntax kind of n the way element tags do.
func kindOf(n ast.Node) string {
	return reflect.TypeOf(n).Elem().Name()
}

func TestProjectCoversTaxonomy(t *testing.T) {
	t.Parallel()

	proj := project(t, everything)

	seen := make(map[string]bool)
	for _, tag := range tags(proj.Doc) {
		seen[tag] = true
	}

	// Bad nodes only come from broken source and packages are never
	// produced by the parser. Both are covered by TestProjectLoneNodes.
	skip := map[string]bool{"BadExpr": true, "BadStmt": true, "BadDecl": true, "Package": true}
	var missing []string
	for _, kind := range syntax.Kinds() {
		if !skip[kind] && !seen[kind] {
			missing = append(missing, kind)
		}
	}
	assert.Empty(t, missing)
}

func TestProjectLoneNodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		node ast.Node
		tag  string
	}{
		{&ast.BadExpr{}, "BadExpr"},
		{&ast.BadStmt{}, "BadStmt"},
		{&ast.BadDecl{}, "BadDecl"},
		{&ast.EmptyStmt{Implicit: true}, "EmptyStmt"},
		{&ast.Package{Name: "p", Files: map[string]*ast.File{}}, "Package"},
	}

	for _, tc := range tests {
		doc := tree.NewDocument()
		reg := &Registry{}
		NewProjector(doc, reg).Visit(tc.node)

		els := doc.Elements()
		require.Len(t, els, 1, tc.tag)
		assert.Equal(t, tc.tag, els[0].Tag)
		assert.Nil(t, els[0].FirstChild, tc.tag)
		require.Equal(t, 1, reg.Len())
		assert.Same(t, tc.node, reg.Get(0))
	}
}

func TestProjectPackageFileOrder(t *testing.T) {
	t.Parallel()

	pkg := &ast.Package{
		Name: "p",
		Files: map[string]*ast.File{
			"b.go": {Name: ast.NewIdent("b")},
			"a.go": {Name: ast.NewIdent("a")},
			"c.go": {Name: ast.NewIdent("c")},
		},
	}

	doc := tree.NewDocument()
	NewProjector(doc, &Registry{}).Visit(pkg)

	el := doc.FirstChild
	name, _ := el.Attr("name")
	assert.Equal(t, "p", name)

	var order []string
	for _, file := range el.Elements() {
		order = append(order, file.FirstChild.InnerText())
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestProjectSmallFile(t *testing.T) {
	t.Parallel()

	proj := project(t, "package main\n\nfunc f() { x := 1 }\n")

	want := []string{
		"File", "Ident",
		"FuncDecl", "Ident", "FuncType", "FieldList",
		"BlockStmt", "AssignStmt", "Ident", "Token", "BasicLit",
	}
	if diff := cmp.Diff(want, tags(proj.Doc)); diff != "" {
		t.Errorf("element order mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectEmpty(t *testing.T) {
	t.Parallel()

	proj := project(t, "\n\n")
	assert.Nil(t, proj.Doc.FirstChild)
	assert.Equal(t, 0, proj.Registry.Len())
}

func TestBackreferences(t *testing.T) {
	t.Parallel()

	proj := project(t, everything)

	var ids []int
	tree.Walk(proj.Doc, func(el *tree.Node) {
		if el.Type != tree.ElementNode {
			return
		}

		id, ok := el.Ref.ID()
		if syntax.IsDiscriminator(el.Tag) {
			assert.False(t, ok, "%s has a backreference", el.Tag)
			_, resolved := proj.Resolve(el)
			assert.False(t, resolved)
			return
		}
		require.True(t, ok, "%s has no backreference", el.Tag)
		ids = append(ids, id)

		n, resolved := proj.Resolve(el)
		require.True(t, resolved)
		assert.Equal(t, el.Tag, kindOf(n))
	})

	require.Equal(t, proj.Registry.Len(), len(ids))
	for i, id := range ids {
		assert.Equal(t, i, id, "ids are assigned in document order")
	}
}

func TestFieldAttribute(t *testing.T) {
	t.Parallel()

	proj := project(t, "package main\n\nfunc f(a int) (b string) { return }\n")

	var fields []string
	for _, el := range proj.Doc.FirstChild.Elements()[1].Elements() {
		v, _ := el.Attr(FieldAttr)
		fields = append(fields, el.Tag+"."+v)
	}
	assert.Equal(t, []string{"Ident.Name", "FuncType.Type", "BlockStmt.Body"}, fields)

	fnType := proj.Doc.FirstChild.Elements()[1].Elements()[1]
	fields = fields[:0]
	for _, el := range fnType.Elements() {
		v, _ := el.Attr(FieldAttr)
		fields = append(fields, v)
	}
	assert.Equal(t, []string{"Params", "Results"}, fields)
}

func TestDiscriminatorText(t *testing.T) {
	t.Parallel()

	proj := project(t, "package main\n\nvar c <-chan int\n\nfunc f() { x := 1; x += 2 }\n")

	var texts []string
	tree.Walk(proj.Doc, func(el *tree.Node) {
		if el.Type == tree.ElementNode && syntax.IsDiscriminator(el.Tag) {
			texts = append(texts, el.Tag+":"+el.InnerText())
		}
	})
	assert.Equal(t, []string{"Token:var", "ChanDir:recv", "Token::=", "Token:+="}, texts)
}

func TestLeafAttributes(t *testing.T) {
	t.Parallel()

	proj := project(t, "package main\n\ntype T = int\n\nvar s = `raw`\n\nfunc f(xs []int) { g(xs...); _ = xs[1:2:3] }\n")

	attrs := make(map[string][]string)
	tree.Walk(proj.Doc, func(el *tree.Node) {
		for _, a := range el.Attrs {
			if a.Name != FieldAttr {
				attrs[el.Tag] = append(attrs[el.Tag], a.Name+"="+a.Value)
			}
		}
	})
	for _, v := range attrs {
		sort.Strings(v)
	}

	assert.Equal(t, map[string][]string{
		"TypeSpec":  {"alias=true"},
		"BasicLit":  {"kind=INT", "kind=INT", "kind=INT", "kind=STRING"},
		"CallExpr":  {"ellipsis=true"},
		"SliceExpr": {"slice3=true"},
		"FuncDecl":  {"complexity=1"},
	}, attrs)
}

func TestComplexityAttribute(t *testing.T) {
	t.Parallel()

	src := `package main

func flat() {}

func branchy(xs []int) int {
	n := 0
	for _, x := range xs {
		if x > 0 && x < 10 {
			n++
		}
	}
	f := func() {
		if n > 1 {
			n--
		}
	}
	f()
	return n
}

func external()
`
	proj := project(t, src)

	var got []string
	tree.Walk(proj.Doc, func(el *tree.Node) {
		if el.Tag != "FuncDecl" && el.Tag != "FuncLit" {
			return
		}
		v, _ := el.Attr(ComplexityAttr)
		got = append(got, el.Tag+":"+v)
	})
	assert.Equal(t, []string{"FuncDecl:1", "FuncDecl:5", "FuncLit:2", "FuncDecl:"}, got)
}

func TestRegistryGetOutOfRange(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	assert.Equal(t, 0, reg.Append(ast.NewIdent("x")))

	assert.PanicsWithValue(t, "projection: backreference 1 out of range [0, 1)", func() {
		reg.Get(1)
	})
	assert.Panics(t, func() { reg.Get(-1) })
}

func TestResolveSharesRegistry(t *testing.T) {
	t.Parallel()

	proj := project(t, "package main\n\nvar v = 1\n")

	lit := proj.Doc.FirstChild.Elements()[1]
	for lit.Tag != "BasicLit" {
		els := lit.Elements()
		lit = els[len(els)-1]
	}
	n, ok := proj.Resolve(lit)
	require.True(t, ok)
	assert.Equal(t, token.INT, n.(*ast.BasicLit).Kind)
	assert.Equal(t, "1", n.(*ast.BasicLit).Value)
}

func TestProjectZeroNodes(t *testing.T) {
	t.Parallel()

	nodes := []ast.Node{
		&ast.Comment{}, &ast.CommentGroup{}, &ast.Field{}, &ast.FieldList{},
		&ast.BadExpr{}, &ast.Ident{}, &ast.Ellipsis{}, &ast.BasicLit{},
		&ast.FuncLit{}, &ast.CompositeLit{}, &ast.ParenExpr{}, &ast.SelectorExpr{},
		&ast.IndexExpr{}, &ast.IndexListExpr{}, &ast.SliceExpr{}, &ast.TypeAssertExpr{},
		&ast.CallExpr{}, &ast.StarExpr{}, &ast.UnaryExpr{}, &ast.BinaryExpr{},
		&ast.KeyValueExpr{}, &ast.ArrayType{}, &ast.StructType{}, &ast.FuncType{},
		&ast.InterfaceType{}, &ast.MapType{}, &ast.ChanType{},
		&ast.BadStmt{}, &ast.DeclStmt{}, &ast.EmptyStmt{}, &ast.LabeledStmt{},
		&ast.ExprStmt{}, &ast.SendStmt{}, &ast.IncDecStmt{}, &ast.AssignStmt{},
		&ast.GoStmt{}, &ast.DeferStmt{}, &ast.ReturnStmt{}, &ast.BranchStmt{},
		&ast.BlockStmt{}, &ast.IfStmt{}, &ast.CaseClause{}, &ast.SwitchStmt{},
		&ast.TypeSwitchStmt{}, &ast.CommClause{}, &ast.SelectStmt{}, &ast.ForStmt{},
		&ast.RangeStmt{}, &ast.ImportSpec{}, &ast.ValueSpec{}, &ast.TypeSpec{},
		&ast.BadDecl{}, &ast.GenDecl{}, &ast.FuncDecl{}, &ast.File{}, &ast.Package{},
	}

	covered := map[string]bool{syntax.KindToken: true, syntax.KindChanDir: true}
	for _, n := range nodes {
		kind := kindOf(n)
		covered[kind] = true

		doc := tree.NewDocument()
		reg := &Registry{}
		NewProjector(doc, reg).Visit(n)

		els := doc.Elements()
		require.Len(t, els, 1, kind)
		assert.Equal(t, kind, els[0].Tag)

		count := 0
		tree.Walk(doc, func(el *tree.Node) {
			if el.Type == tree.ElementNode && el.Tag == kind {
				count++
			}
		})
		assert.Equal(t, 1, count, kind)
		assert.Equal(t, 1, reg.Len(), kind)
	}

	for _, kind := range syntax.Kinds() {
		assert.True(t, covered[kind], "no zero node for %s", kind)
	}

	doc := tree.NewDocument()
	p := NewProjector(doc, &Registry{})
	p.VisitToken(token.ADD)
	p.VisitChanDir(ast.SEND)
	var got []string
	for _, el := range doc.Elements() {
		_, ok := el.Ref.ID()
		assert.False(t, ok)
		got = append(got, el.Tag+":"+el.InnerText())
	}
	assert.Equal(t, []string{"Token:+", "ChanDir:send"}, got)
}
