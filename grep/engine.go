// Package grep drives structural searches: it runs one isolated
// parse, project, query and render pipeline per file, many files at once,
// and serializes the output.
package grep

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/gsg/internal/projection"
	"github.com/gnoswap-labs/gsg/internal/query"
	"github.com/gnoswap-labs/gsg/internal/render"
	"github.com/gnoswap-labs/gsg/internal/syntax"
	tt "github.com/gnoswap-labs/gsg/internal/types"
)

// StdinName is the display name of standard input.
const StdinName = "<stdin>"

var (
	// ErrEnumerate means the input paths could not be expanded. It is fatal.
	ErrEnumerate = errors.New("cannot enumerate files")
	// ErrRead means one file could not be read. The file is skipped.
	ErrRead = errors.New("cannot read file")
	// ErrParse means one file is not valid source. The file is skipped.
	ErrParse = errors.New("cannot parse file")
)

// GrepEngine runs the pipeline for a single input.
type GrepEngine interface {
	RunFile(path string) ([]tt.Line, error)
	RunSource(name string, source []byte) ([]tt.Line, error)
}

// Engine searches files with one compiled query.
type Engine struct {
	query     *query.Query
	logger    *zap.Logger
	multiline bool
}

var _ GrepEngine = (*Engine)(nil)

// New compiles expr. An invalid expression fails here, before any file is
// touched, and wraps query.ErrInvalidQuery.
func New(expr string, config Config, logger *zap.Logger) (*Engine, error) {
	q, err := query.Compile(expr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{query: q, logger: logger, multiline: config.Multiline}, nil
}

// RunFile searches the file at path.
func (e *Engine) RunFile(path string) ([]tt.Line, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return e.RunSource(path, source)
}

// RunSource searches source, labeling output lines with name. The syntax
// tree, its projection and registry all live only for this call.
func (e *Engine) RunSource(name string, source []byte) ([]tt.Line, error) {
	file, err := syntax.Parse(name, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	proj := projection.Project(file)

	res, err := e.query.Evaluate(proj.Doc)
	if err != nil {
		return nil, err
	}

	r := render.New(proj, e.logger)
	r.Multiline = e.multiline
	texts, err := r.Render(res)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}

	lines := make([]tt.Line, len(texts))
	for i, text := range texts {
		lines[i] = tt.Line{Filename: name, Text: text}
	}
	return lines, nil
}
