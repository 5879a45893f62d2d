package syntax

import (
	"go/ast"
	"reflect"
	"sort"
	"strings"
	"sync"
)

const (
	KindToken   = "Token"
	KindChanDir = "ChanDir"
)

var kindsOnce = sync.OnceValue(func() []string {
	typ := reflect.TypeOf((*Visitor)(nil)).Elem()
	kinds := make([]string, 0, typ.NumMethod())
	for i := 0; i < typ.NumMethod(); i++ {
		kinds = append(kinds, strings.TrimPrefix(typ.Method(i).Name, "Visit"))
	}
	sort.Strings(kinds)
	return kinds
})

// Kinds returns the name of every syntax kind, sorted. The list is derived
// from the Visitor method set, so it cannot drift from the traversal.
func Kinds() []string {
	return append([]string(nil), kindsOnce()...)
}

// IsDiscriminator reports whether kind only selects a variant of its parent
// and has no source span of its own.
func IsDiscriminator(kind string) bool {
	return kind == KindToken || kind == KindChanDir
}

// DirString spells a channel direction the way queries match it.
func DirString(dir ast.ChanDir) string {
	switch dir {
	case ast.SEND:
		return "send"
	case ast.RECV:
		return "recv"
	default:
		return "send,recv"
	}
}
