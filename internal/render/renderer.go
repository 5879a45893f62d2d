// Package render turns query results into output text, re-printing the
// source of every matched syntax node through its backreference.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/gsg/internal/projection"
	"github.com/gnoswap-labs/gsg/internal/query"
	"github.com/gnoswap-labs/gsg/internal/syntax"
)

var lineBreak = regexp.MustCompile(`[ \t\r]*\n\s*`)

// Renderer renders the results of queries run against one projection.
type Renderer struct {
	proj   *projection.Projection
	logger *zap.Logger
	// Multiline keeps line breaks in rendered text. Otherwise every item
	// fits on one output line.
	Multiline bool
}

func New(proj *projection.Projection, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{proj: proj, logger: logger}
}

// Render returns one string per printed item, in result order. A scalar
// result renders once, unless the file has no top-level unit at all.
func (r *Renderer) Render(res query.Result) ([]string, error) {
	if r.proj.File.Empty() {
		return nil, nil
	}
	if s, ok := res.Scalar(); ok {
		return []string{r.flatten(s)}, nil
	}

	matches := res.Matches()
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		text, ok, err := r.Match(m)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r.flatten(text))
		}
	}
	return out, nil
}

// Match renders a single match. ok is false for elements without a
// backreference, which have nothing to re-print.
func (r *Renderer) Match(m query.Match) (text string, ok bool, err error) {
	switch m.Kind {
	case query.AttributeMatch:
		return m.Attr.Value, true, nil
	case query.TextMatch:
		return m.Node.Data, true, nil
	case query.ElementMatch:
		n, ok := r.proj.Resolve(m.Node)
		if !ok {
			r.logger.Debug("matched element has no backreference", zap.String("tag", m.Node.Tag))
			return "", false, nil
		}
		text, err := syntax.Print(r.proj.File, n)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	default:
		return "", false, fmt.Errorf("unknown match kind %v", m.Kind)
	}
}

func (r *Renderer) flatten(s string) string {
	if r.Multiline {
		return s
	}
	return lineBreak.ReplaceAllString(strings.TrimRight(s, "\n"), " ")
}
