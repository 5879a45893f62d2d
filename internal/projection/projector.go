package projection

import (
	"go/ast"
	"go/token"
	"sort"
	"strconv"

	"github.com/fzipp/gocyclo"

	"github.com/gnoswap-labs/gsg/internal/syntax"
	"github.com/gnoswap-labs/gsg/internal/tree"
)

// FieldAttr names the struct field of the parent node an element was
// reached through.
const FieldAttr = "field"

var _ syntax.Visitor = (*Projector)(nil)

// Projector builds a projection tree by visiting a syntax tree depth first.
// Every element that stands for an ast.Node gets a backreference, assigned
// in pre-order.
type Projector struct {
	registry *Registry
	parent   *tree.Node
	field    string
}

// NewProjector returns a Projector appending under root.
func NewProjector(root *tree.Node, registry *Registry) *Projector {
	return &Projector{registry: registry, parent: root}
}

// Visit projects n as a child of the current parent.
func (p *Projector) Visit(n ast.Node) {
	syntax.Dispatch(p, n)
}

func (p *Projector) add(tag string, n ast.Node, fn func(el *tree.Node)) {
	el := tree.NewElement(tag)
	if p.field != "" {
		el.SetAttr(FieldAttr, p.field)
	}
	if n != nil {
		el.Ref = tree.RefTo(p.registry.Append(n))
	}
	p.parent.AppendChild(el)

	parent, field := p.parent, p.field
	p.parent, p.field = el, ""
	if fn != nil {
		fn(el)
	}
	p.parent, p.field = parent, field
}

func (p *Projector) node(field string, n ast.Node) {
	p.field = field
	syntax.Dispatch(p, n)
}

func (p *Projector) expr(field string, x ast.Expr) {
	if x != nil {
		p.node(field, x)
	}
}

func (p *Projector) exprs(field string, list []ast.Expr) {
	for _, x := range list {
		p.node(field, x)
	}
}

func (p *Projector) stmt(field string, s ast.Stmt) {
	if s != nil {
		p.node(field, s)
	}
}

func (p *Projector) stmts(field string, list []ast.Stmt) {
	for _, s := range list {
		p.node(field, s)
	}
}

func (p *Projector) ident(field string, id *ast.Ident) {
	if id != nil {
		p.node(field, id)
	}
}

func (p *Projector) idents(field string, list []*ast.Ident) {
	for _, id := range list {
		p.node(field, id)
	}
}

func (p *Projector) lit(field string, lit *ast.BasicLit) {
	if lit != nil {
		p.node(field, lit)
	}
}

func (p *Projector) block(field string, b *ast.BlockStmt) {
	if b != nil {
		p.node(field, b)
	}
}

func (p *Projector) fields(field string, fl *ast.FieldList) {
	if fl != nil {
		p.node(field, fl)
	}
}

func (p *Projector) funcType(field string, ft *ast.FuncType) {
	if ft != nil {
		p.node(field, ft)
	}
}

func (p *Projector) comments(field string, cg *ast.CommentGroup) {
	if cg != nil {
		p.node(field, cg)
	}
}

func (p *Projector) token(field string, tok token.Token) {
	p.field = field
	p.VisitToken(tok)
}

func (p *Projector) text(s string) func(*tree.Node) {
	return func(el *tree.Node) { el.SetText(s) }
}

// Leaves and discriminators.

func (p *Projector) VisitComment(n *ast.Comment) {
	p.add("Comment", n, p.text(n.Text))
}

func (p *Projector) VisitIdent(n *ast.Ident) {
	p.add("Ident", n, p.text(n.Name))
}

func (p *Projector) VisitBasicLit(n *ast.BasicLit) {
	p.add("BasicLit", n, func(el *tree.Node) {
		el.SetAttr("kind", n.Kind.String())
		el.SetText(n.Value)
	})
}

func (p *Projector) VisitToken(tok token.Token) {
	p.add(syntax.KindToken, nil, p.text(tok.String()))
}

func (p *Projector) VisitChanDir(dir ast.ChanDir) {
	p.add(syntax.KindChanDir, nil, p.text(syntax.DirString(dir)))
}

func (p *Projector) VisitBadExpr(n *ast.BadExpr) { p.add("BadExpr", n, nil) }
func (p *Projector) VisitBadStmt(n *ast.BadStmt) { p.add("BadStmt", n, nil) }
func (p *Projector) VisitBadDecl(n *ast.BadDecl) { p.add("BadDecl", n, nil) }

func (p *Projector) VisitEmptyStmt(n *ast.EmptyStmt) {
	p.add("EmptyStmt", n, func(el *tree.Node) {
		if n.Implicit {
			el.SetAttr("implicit", "true")
		}
	})
}

// Comments and fields.

func (p *Projector) VisitCommentGroup(n *ast.CommentGroup) {
	p.add("CommentGroup", n, func(*tree.Node) {
		for _, c := range n.List {
			p.node("List", c)
		}
	})
}

func (p *Projector) VisitField(n *ast.Field) {
	p.add("Field", n, func(*tree.Node) {
		p.comments("Doc", n.Doc)
		p.idents("Names", n.Names)
		p.expr("Type", n.Type)
		p.lit("Tag", n.Tag)
		p.comments("Comment", n.Comment)
	})
}

func (p *Projector) VisitFieldList(n *ast.FieldList) {
	p.add("FieldList", n, func(*tree.Node) {
		for _, f := range n.List {
			p.node("List", f)
		}
	})
}

// Expressions.

func (p *Projector) VisitEllipsis(n *ast.Ellipsis) {
	p.add("Ellipsis", n, func(*tree.Node) {
		p.expr("Elt", n.Elt)
	})
}

func (p *Projector) VisitFuncLit(n *ast.FuncLit) {
	p.add("FuncLit", n, func(el *tree.Node) {
		setComplexity(el, n)
		p.funcType("Type", n.Type)
		p.block("Body", n.Body)
	})
}

func (p *Projector) VisitCompositeLit(n *ast.CompositeLit) {
	p.add("CompositeLit", n, func(*tree.Node) {
		p.expr("Type", n.Type)
		p.exprs("Elts", n.Elts)
	})
}

func (p *Projector) VisitParenExpr(n *ast.ParenExpr) {
	p.add("ParenExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
	})
}

func (p *Projector) VisitSelectorExpr(n *ast.SelectorExpr) {
	p.add("SelectorExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.ident("Sel", n.Sel)
	})
}

func (p *Projector) VisitIndexExpr(n *ast.IndexExpr) {
	p.add("IndexExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.expr("Index", n.Index)
	})
}

func (p *Projector) VisitIndexListExpr(n *ast.IndexListExpr) {
	p.add("IndexListExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.exprs("Indices", n.Indices)
	})
}

func (p *Projector) VisitSliceExpr(n *ast.SliceExpr) {
	p.add("SliceExpr", n, func(el *tree.Node) {
		if n.Slice3 {
			el.SetAttr("slice3", "true")
		}
		p.expr("X", n.X)
		p.expr("Low", n.Low)
		p.expr("High", n.High)
		p.expr("Max", n.Max)
	})
}

func (p *Projector) VisitTypeAssertExpr(n *ast.TypeAssertExpr) {
	p.add("TypeAssertExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.expr("Type", n.Type)
	})
}

func (p *Projector) VisitCallExpr(n *ast.CallExpr) {
	p.add("CallExpr", n, func(el *tree.Node) {
		if n.Ellipsis.IsValid() {
			el.SetAttr("ellipsis", "true")
		}
		p.expr("Fun", n.Fun)
		p.exprs("Args", n.Args)
	})
}

func (p *Projector) VisitStarExpr(n *ast.StarExpr) {
	p.add("StarExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
	})
}

func (p *Projector) VisitUnaryExpr(n *ast.UnaryExpr) {
	p.add("UnaryExpr", n, func(*tree.Node) {
		p.token("Op", n.Op)
		p.expr("X", n.X)
	})
}

func (p *Projector) VisitBinaryExpr(n *ast.BinaryExpr) {
	p.add("BinaryExpr", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.token("Op", n.Op)
		p.expr("Y", n.Y)
	})
}

func (p *Projector) VisitKeyValueExpr(n *ast.KeyValueExpr) {
	p.add("KeyValueExpr", n, func(*tree.Node) {
		p.expr("Key", n.Key)
		p.expr("Value", n.Value)
	})
}

// Types.

func (p *Projector) VisitArrayType(n *ast.ArrayType) {
	p.add("ArrayType", n, func(*tree.Node) {
		p.expr("Len", n.Len)
		p.expr("Elt", n.Elt)
	})
}

func (p *Projector) VisitStructType(n *ast.StructType) {
	p.add("StructType", n, func(*tree.Node) {
		p.fields("Fields", n.Fields)
	})
}

func (p *Projector) VisitFuncType(n *ast.FuncType) {
	p.add("FuncType", n, func(*tree.Node) {
		p.fields("TypeParams", n.TypeParams)
		p.fields("Params", n.Params)
		p.fields("Results", n.Results)
	})
}

func (p *Projector) VisitInterfaceType(n *ast.InterfaceType) {
	p.add("InterfaceType", n, func(*tree.Node) {
		p.fields("Methods", n.Methods)
	})
}

func (p *Projector) VisitMapType(n *ast.MapType) {
	p.add("MapType", n, func(*tree.Node) {
		p.expr("Key", n.Key)
		p.expr("Value", n.Value)
	})
}

func (p *Projector) VisitChanType(n *ast.ChanType) {
	p.add("ChanType", n, func(*tree.Node) {
		p.field = "Dir"
		p.VisitChanDir(n.Dir)
		p.expr("Value", n.Value)
	})
}

// Statements.

func (p *Projector) VisitDeclStmt(n *ast.DeclStmt) {
	p.add("DeclStmt", n, func(*tree.Node) {
		if n.Decl != nil {
			p.node("Decl", n.Decl)
		}
	})
}

func (p *Projector) VisitLabeledStmt(n *ast.LabeledStmt) {
	p.add("LabeledStmt", n, func(*tree.Node) {
		p.ident("Label", n.Label)
		p.stmt("Stmt", n.Stmt)
	})
}

func (p *Projector) VisitExprStmt(n *ast.ExprStmt) {
	p.add("ExprStmt", n, func(*tree.Node) {
		p.expr("X", n.X)
	})
}

func (p *Projector) VisitSendStmt(n *ast.SendStmt) {
	p.add("SendStmt", n, func(*tree.Node) {
		p.expr("Chan", n.Chan)
		p.expr("Value", n.Value)
	})
}

func (p *Projector) VisitIncDecStmt(n *ast.IncDecStmt) {
	p.add("IncDecStmt", n, func(*tree.Node) {
		p.expr("X", n.X)
		p.token("Tok", n.Tok)
	})
}

func (p *Projector) VisitAssignStmt(n *ast.AssignStmt) {
	p.add("AssignStmt", n, func(*tree.Node) {
		p.exprs("Lhs", n.Lhs)
		p.token("Tok", n.Tok)
		p.exprs("Rhs", n.Rhs)
	})
}

func (p *Projector) VisitGoStmt(n *ast.GoStmt) {
	p.add("GoStmt", n, func(*tree.Node) {
		if n.Call != nil {
			p.node("Call", n.Call)
		}
	})
}

func (p *Projector) VisitDeferStmt(n *ast.DeferStmt) {
	p.add("DeferStmt", n, func(*tree.Node) {
		if n.Call != nil {
			p.node("Call", n.Call)
		}
	})
}

func (p *Projector) VisitReturnStmt(n *ast.ReturnStmt) {
	p.add("ReturnStmt", n, func(*tree.Node) {
		p.exprs("Results", n.Results)
	})
}

func (p *Projector) VisitBranchStmt(n *ast.BranchStmt) {
	p.add("BranchStmt", n, func(*tree.Node) {
		p.token("Tok", n.Tok)
		p.ident("Label", n.Label)
	})
}

func (p *Projector) VisitBlockStmt(n *ast.BlockStmt) {
	p.add("BlockStmt", n, func(*tree.Node) {
		p.stmts("List", n.List)
	})
}

func (p *Projector) VisitIfStmt(n *ast.IfStmt) {
	p.add("IfStmt", n, func(*tree.Node) {
		p.stmt("Init", n.Init)
		p.expr("Cond", n.Cond)
		p.block("Body", n.Body)
		p.stmt("Else", n.Else)
	})
}

func (p *Projector) VisitCaseClause(n *ast.CaseClause) {
	p.add("CaseClause", n, func(el *tree.Node) {
		if n.List == nil {
			el.SetAttr("default", "true")
		}
		p.exprs("List", n.List)
		p.stmts("Body", n.Body)
	})
}

func (p *Projector) VisitSwitchStmt(n *ast.SwitchStmt) {
	p.add("SwitchStmt", n, func(*tree.Node) {
		p.stmt("Init", n.Init)
		p.expr("Tag", n.Tag)
		p.block("Body", n.Body)
	})
}

func (p *Projector) VisitTypeSwitchStmt(n *ast.TypeSwitchStmt) {
	p.add("TypeSwitchStmt", n, func(*tree.Node) {
		p.stmt("Init", n.Init)
		p.stmt("Assign", n.Assign)
		p.block("Body", n.Body)
	})
}

func (p *Projector) VisitCommClause(n *ast.CommClause) {
	p.add("CommClause", n, func(el *tree.Node) {
		if n.Comm == nil {
			el.SetAttr("default", "true")
		}
		p.stmt("Comm", n.Comm)
		p.stmts("Body", n.Body)
	})
}

func (p *Projector) VisitSelectStmt(n *ast.SelectStmt) {
	p.add("SelectStmt", n, func(*tree.Node) {
		p.block("Body", n.Body)
	})
}

func (p *Projector) VisitForStmt(n *ast.ForStmt) {
	p.add("ForStmt", n, func(*tree.Node) {
		p.stmt("Init", n.Init)
		p.expr("Cond", n.Cond)
		p.stmt("Post", n.Post)
		p.block("Body", n.Body)
	})
}

func (p *Projector) VisitRangeStmt(n *ast.RangeStmt) {
	p.add("RangeStmt", n, func(*tree.Node) {
		p.expr("Key", n.Key)
		p.expr("Value", n.Value)
		if n.Tok != token.ILLEGAL {
			p.token("Tok", n.Tok)
		}
		p.expr("X", n.X)
		p.block("Body", n.Body)
	})
}

// Specs and declarations.

func (p *Projector) VisitImportSpec(n *ast.ImportSpec) {
	p.add("ImportSpec", n, func(*tree.Node) {
		p.comments("Doc", n.Doc)
		p.ident("Name", n.Name)
		p.lit("Path", n.Path)
		p.comments("Comment", n.Comment)
	})
}

func (p *Projector) VisitValueSpec(n *ast.ValueSpec) {
	p.add("ValueSpec", n, func(*tree.Node) {
		p.comments("Doc", n.Doc)
		p.idents("Names", n.Names)
		p.expr("Type", n.Type)
		p.exprs("Values", n.Values)
		p.comments("Comment", n.Comment)
	})
}

func (p *Projector) VisitTypeSpec(n *ast.TypeSpec) {
	p.add("TypeSpec", n, func(el *tree.Node) {
		if n.Assign.IsValid() {
			el.SetAttr("alias", "true")
		}
		p.comments("Doc", n.Doc)
		p.ident("Name", n.Name)
		p.fields("TypeParams", n.TypeParams)
		p.expr("Type", n.Type)
		p.comments("Comment", n.Comment)
	})
}

func (p *Projector) VisitGenDecl(n *ast.GenDecl) {
	p.add("GenDecl", n, func(*tree.Node) {
		p.comments("Doc", n.Doc)
		p.token("Tok", n.Tok)
		for _, s := range n.Specs {
			p.node("Specs", s)
		}
	})
}

func (p *Projector) VisitFuncDecl(n *ast.FuncDecl) {
	p.add("FuncDecl", n, func(el *tree.Node) {
		setComplexity(el, n)
		p.comments("Doc", n.Doc)
		p.fields("Recv", n.Recv)
		p.ident("Name", n.Name)
		p.funcType("Type", n.Type)
		p.block("Body", n.Body)
	})
}

// ComplexityAttr holds the cyclomatic complexity of a function with a body.
const ComplexityAttr = "complexity"

func setComplexity(el *tree.Node, fn ast.Node) {
	switch fn := fn.(type) {
	case *ast.FuncDecl:
		if fn.Body == nil {
			return
		}
	case *ast.FuncLit:
		if fn.Body == nil {
			return
		}
	}
	el.SetAttr(ComplexityAttr, strconv.Itoa(gocyclo.Complexity(fn)))
}

// Files and packages.

func (p *Projector) VisitFile(n *ast.File) {
	p.add("File", n, func(*tree.Node) {
		p.comments("Doc", n.Doc)
		p.ident("Name", n.Name)
		for _, d := range n.Decls {
			p.node("Decls", d)
		}
	})
}

func (p *Projector) VisitPackage(n *ast.Package) {
	p.add("Package", n, func(el *tree.Node) {
		el.SetAttr("name", n.Name)
		names := make([]string, 0, len(n.Files))
		for name := range n.Files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p.node("Files", n.Files[name])
		}
	})
}
