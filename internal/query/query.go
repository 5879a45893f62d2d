// Package query evaluates XPath expressions against projection trees.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/antchfx/xpath"

	"github.com/gnoswap-labs/gsg/internal/tree"
)

// ErrInvalidQuery is returned for expressions that cannot be compiled or
// evaluated. The same expression is used for every file, so it is fatal.
var ErrInvalidQuery = errors.New("invalid query")

// Query is a compiled expression. It is safe for concurrent use: compiled
// xpath expressions keep iteration state, so each evaluation borrows its own.
type Query struct {
	src  string
	pool sync.Pool
}

// Compile compiles src.
func Compile(src string) (*Query, error) {
	expr, err := xpath.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidQuery, src, err)
	}

	q := &Query{src: src}
	q.pool.New = func() any {
		return xpath.MustCompile(src)
	}
	q.pool.Put(expr)
	return q, nil
}

func (q *Query) String() string {
	return q.src
}

// Evaluate runs the query against the document rooted at doc.
func (q *Query) Evaluate(doc *tree.Node) (res Result, err error) {
	expr := q.pool.Get().(*xpath.Expr)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w %q: %v", ErrInvalidQuery, q.src, r)
			return
		}
		q.pool.Put(expr)
	}()

	switch v := expr.Evaluate(tree.NewNavigator(doc)).(type) {
	case *xpath.NodeIterator:
		var matches []Match
		for v.MoveNext() {
			matches = append(matches, matchOf(v.Current()))
		}
		return Nodes(matches), nil
	case float64:
		return Scalar(formatNumber(v)), nil
	case bool:
		return Scalar(strconv.FormatBool(v)), nil
	case string:
		return Scalar(v), nil
	default:
		return Result{}, fmt.Errorf("%w %q: unexpected result type %T", ErrInvalidQuery, q.src, v)
	}
}

func matchOf(nav xpath.NodeNavigator) Match {
	n, ok := nav.(*tree.Navigator)
	if !ok {
		panic(fmt.Sprintf("query: foreign navigator %T", nav))
	}
	if attr, ok := n.CurrentAttr(); ok {
		return Match{Kind: AttributeMatch, Node: n.Current(), Attr: attr}
	}
	if n.Current().Type == tree.TextNode {
		return Match{Kind: TextMatch, Node: n.Current()}
	}
	return Match{Kind: ElementMatch, Node: n.Current()}
}

// formatNumber follows the XPath string() conversion for numbers.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
