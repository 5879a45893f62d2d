package syntax

import (
	"fmt"
	"go/ast"
	"go/token"
)

// Visitor has exactly one method per syntax kind. Adding a kind to the
// taxonomy means adding a method here, which breaks every implementation
// until it handles the new kind.
type Visitor interface {
	VisitComment(*ast.Comment)
	VisitCommentGroup(*ast.CommentGroup)
	VisitField(*ast.Field)
	VisitFieldList(*ast.FieldList)

	VisitBadExpr(*ast.BadExpr)
	VisitIdent(*ast.Ident)
	VisitEllipsis(*ast.Ellipsis)
	VisitBasicLit(*ast.BasicLit)
	VisitFuncLit(*ast.FuncLit)
	VisitCompositeLit(*ast.CompositeLit)
	VisitParenExpr(*ast.ParenExpr)
	VisitSelectorExpr(*ast.SelectorExpr)
	VisitIndexExpr(*ast.IndexExpr)
	VisitIndexListExpr(*ast.IndexListExpr)
	VisitSliceExpr(*ast.SliceExpr)
	VisitTypeAssertExpr(*ast.TypeAssertExpr)
	VisitCallExpr(*ast.CallExpr)
	VisitStarExpr(*ast.StarExpr)
	VisitUnaryExpr(*ast.UnaryExpr)
	VisitBinaryExpr(*ast.BinaryExpr)
	VisitKeyValueExpr(*ast.KeyValueExpr)

	VisitArrayType(*ast.ArrayType)
	VisitStructType(*ast.StructType)
	VisitFuncType(*ast.FuncType)
	VisitInterfaceType(*ast.InterfaceType)
	VisitMapType(*ast.MapType)
	VisitChanType(*ast.ChanType)

	VisitBadStmt(*ast.BadStmt)
	VisitDeclStmt(*ast.DeclStmt)
	VisitEmptyStmt(*ast.EmptyStmt)
	VisitLabeledStmt(*ast.LabeledStmt)
	VisitExprStmt(*ast.ExprStmt)
	VisitSendStmt(*ast.SendStmt)
	VisitIncDecStmt(*ast.IncDecStmt)
	VisitAssignStmt(*ast.AssignStmt)
	VisitGoStmt(*ast.GoStmt)
	VisitDeferStmt(*ast.DeferStmt)
	VisitReturnStmt(*ast.ReturnStmt)
	VisitBranchStmt(*ast.BranchStmt)
	VisitBlockStmt(*ast.BlockStmt)
	VisitIfStmt(*ast.IfStmt)
	VisitCaseClause(*ast.CaseClause)
	VisitSwitchStmt(*ast.SwitchStmt)
	VisitTypeSwitchStmt(*ast.TypeSwitchStmt)
	VisitCommClause(*ast.CommClause)
	VisitSelectStmt(*ast.SelectStmt)
	VisitForStmt(*ast.ForStmt)
	VisitRangeStmt(*ast.RangeStmt)

	VisitImportSpec(*ast.ImportSpec)
	VisitValueSpec(*ast.ValueSpec)
	VisitTypeSpec(*ast.TypeSpec)

	VisitBadDecl(*ast.BadDecl)
	VisitGenDecl(*ast.GenDecl)
	VisitFuncDecl(*ast.FuncDecl)

	VisitFile(*ast.File)
	VisitPackage(*ast.Package)

	// Discriminators: variant selectors stored in scalar fields. They are
	// not ast.Nodes and are reached only from their owning node.
	VisitToken(token.Token)
	VisitChanDir(ast.ChanDir)
}

// Dispatch calls the Visitor method matching the dynamic type of n.
// It panics on a type outside the taxonomy, like ast.Walk does.
func Dispatch(v Visitor, n ast.Node) {
	switch n := n.(type) {
	case *ast.Comment:
		v.VisitComment(n)
	case *ast.CommentGroup:
		v.VisitCommentGroup(n)
	case *ast.Field:
		v.VisitField(n)
	case *ast.FieldList:
		v.VisitFieldList(n)

	case *ast.BadExpr:
		v.VisitBadExpr(n)
	case *ast.Ident:
		v.VisitIdent(n)
	case *ast.Ellipsis:
		v.VisitEllipsis(n)
	case *ast.BasicLit:
		v.VisitBasicLit(n)
	case *ast.FuncLit:
		v.VisitFuncLit(n)
	case *ast.CompositeLit:
		v.VisitCompositeLit(n)
	case *ast.ParenExpr:
		v.VisitParenExpr(n)
	case *ast.SelectorExpr:
		v.VisitSelectorExpr(n)
	case *ast.IndexExpr:
		v.VisitIndexExpr(n)
	case *ast.IndexListExpr:
		v.VisitIndexListExpr(n)
	case *ast.SliceExpr:
		v.VisitSliceExpr(n)
	case *ast.TypeAssertExpr:
		v.VisitTypeAssertExpr(n)
	case *ast.CallExpr:
		v.VisitCallExpr(n)
	case *ast.StarExpr:
		v.VisitStarExpr(n)
	case *ast.UnaryExpr:
		v.VisitUnaryExpr(n)
	case *ast.BinaryExpr:
		v.VisitBinaryExpr(n)
	case *ast.KeyValueExpr:
		v.VisitKeyValueExpr(n)

	case *ast.ArrayType:
		v.VisitArrayType(n)
	case *ast.StructType:
		v.VisitStructType(n)
	case *ast.FuncType:
		v.VisitFuncType(n)
	case *ast.InterfaceType:
		v.VisitInterfaceType(n)
	case *ast.MapType:
		v.VisitMapType(n)
	case *ast.ChanType:
		v.VisitChanType(n)

	case *ast.BadStmt:
		v.VisitBadStmt(n)
	case *ast.DeclStmt:
		v.VisitDeclStmt(n)
	case *ast.EmptyStmt:
		v.VisitEmptyStmt(n)
	case *ast.LabeledStmt:
		v.VisitLabeledStmt(n)
	case *ast.ExprStmt:
		v.VisitExprStmt(n)
	case *ast.SendStmt:
		v.VisitSendStmt(n)
	case *ast.IncDecStmt:
		v.VisitIncDecStmt(n)
	case *ast.AssignStmt:
		v.VisitAssignStmt(n)
	case *ast.GoStmt:
		v.VisitGoStmt(n)
	case *ast.DeferStmt:
		v.VisitDeferStmt(n)
	case *ast.ReturnStmt:
		v.VisitReturnStmt(n)
	case *ast.BranchStmt:
		v.VisitBranchStmt(n)
	case *ast.BlockStmt:
		v.VisitBlockStmt(n)
	case *ast.IfStmt:
		v.VisitIfStmt(n)
	case *ast.CaseClause:
		v.VisitCaseClause(n)
	case *ast.SwitchStmt:
		v.VisitSwitchStmt(n)
	case *ast.TypeSwitchStmt:
		v.VisitTypeSwitchStmt(n)
	case *ast.CommClause:
		v.VisitCommClause(n)
	case *ast.SelectStmt:
		v.VisitSelectStmt(n)
	case *ast.ForStmt:
		v.VisitForStmt(n)
	case *ast.RangeStmt:
		v.VisitRangeStmt(n)

	case *ast.ImportSpec:
		v.VisitImportSpec(n)
	case *ast.ValueSpec:
		v.VisitValueSpec(n)
	case *ast.TypeSpec:
		v.VisitTypeSpec(n)

	case *ast.BadDecl:
		v.VisitBadDecl(n)
	case *ast.GenDecl:
		v.VisitGenDecl(n)
	case *ast.FuncDecl:
		v.VisitFuncDecl(n)

	case *ast.File:
		v.VisitFile(n)
	case *ast.Package:
		v.VisitPackage(n)

	default:
		panic(fmt.Sprintf("syntax.Dispatch: unexpected node type %T", n))
	}
}
