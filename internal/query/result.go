package query

import "github.com/gnoswap-labs/gsg/internal/tree"

// MatchKind tells what a Match points at.
type MatchKind int

const (
	ElementMatch MatchKind = iota
	AttributeMatch
	TextMatch
)

func (k MatchKind) String() string {
	switch k {
	case ElementMatch:
		return "element"
	case AttributeMatch:
		return "attribute"
	case TextMatch:
		return "text"
	default:
		return "unknown"
	}
}

// Match is one node of a node-set result. For attributes Node is the
// owning element.
type Match struct {
	Kind MatchKind
	Node *tree.Node
	Attr tree.Attr
}

// Result is either a node set or a scalar.
type Result struct {
	matches  []Match
	scalar   string
	isScalar bool
}

func Nodes(matches []Match) Result {
	return Result{matches: matches}
}

func Scalar(s string) Result {
	return Result{scalar: s, isScalar: true}
}

// Matches returns the node set in document order. It is nil for scalars.
func (r Result) Matches() []Match {
	return r.matches
}

// Scalar returns the scalar value, if the result is one.
func (r Result) Scalar() (string, bool) {
	return r.scalar, r.isScalar
}
