package grep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/gsg/formatter"
	"github.com/gnoswap-labs/gsg/internal/query"
	tt "github.com/gnoswap-labs/gsg/internal/types"
	"github.com/gnoswap-labs/gsg/scanner"
)

// Options configures ProcessPaths.
type Options struct {
	// Workers bounds the number of files searched at once. Zero or less
	// means runtime.NumCPU().
	Workers int
	Scanner *scanner.Scanner
	// Formatter renders output lines. Nil uses the default format without
	// color.
	Formatter *formatter.LineFormatter
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// sink serializes output: each file's lines are written in one piece so
// no two files interleave.
type sink struct {
	mu      sync.Mutex
	w       io.Writer
	f       *formatter.LineFormatter
	summary tt.Summary
}

func newSink(w io.Writer, f *formatter.LineFormatter) (*sink, error) {
	if f == nil {
		var err error
		if f, err = formatter.New("", false); err != nil {
			return nil, err
		}
	}
	return &sink{w: w, f: f}, nil
}

func (s *sink) write(lines []tt.Line) error {
	out, err := s.f.FormatAll(lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Add(len(lines), false)
	_, err = io.WriteString(s.w, out)
	return err
}

func (s *sink) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Add(0, true)
}

func (s *sink) result() tt.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// ProcessPaths searches every file paths expand to and writes matches to
// out. Files are enumerated up front; an enumeration error stops the run
// before any file is searched. Read and parse errors are logged and the
// file is skipped. An invalid query stops the run.
func ProcessPaths(
	ctx context.Context,
	logger *zap.Logger,
	engine GrepEngine,
	paths []string,
	out io.Writer,
	opts Options,
) (tt.Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sc := opts.Scanner
	if sc == nil {
		var err error
		if sc, err = scanner.New(scanner.Options{Extensions: DefaultConfig().Extensions}); err != nil {
			return tt.Summary{}, err
		}
	}

	files, err := sc.Scan(paths...)
	if err != nil {
		return tt.Summary{}, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}
	logger.Debug("enumerated files", zap.Int("count", len(files)))

	s, err := newSink(out, opts.Formatter)
	if err != nil {
		return tt.Summary{}, err
	}

	bar := newProgressBar(opts.Progress, files)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, file := range files {
		file := file
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			defer bar.advance(file.Size)
			return processFile(logger, engine, s, file.Path)
		})
	}

	err = g.Wait()
	bar.finish()
	if err == nil {
		err = ctx.Err()
	}
	return s.result(), err
}

func processFile(logger *zap.Logger, engine GrepEngine, s *sink, path string) error {
	lines, err := engine.RunFile(path)
	if err != nil {
		if errors.Is(err, query.ErrInvalidQuery) {
			return err
		}
		logger.Error("failed to process file", zap.String("file", path), zap.Error(err))
		s.fail()
		return nil
	}
	return s.write(lines)
}

// ProcessReader searches a single stream, labeled name.
func ProcessReader(
	logger *zap.Logger,
	engine GrepEngine,
	name string,
	r io.Reader,
	out io.Writer,
	f *formatter.LineFormatter,
) (tt.Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := newSink(out, f)
	if err != nil {
		return tt.Summary{}, err
	}

	source, err := io.ReadAll(r)
	if err != nil {
		logger.Error("failed to read input", zap.String("file", name), zap.Error(err))
		s.fail()
		return s.result(), nil
	}

	lines, err := engine.RunSource(name, source)
	if err != nil {
		if errors.Is(err, query.ErrInvalidQuery) {
			return s.result(), err
		}
		logger.Error("failed to process file", zap.String("file", name), zap.Error(err))
		s.fail()
		return s.result(), nil
	}

	err = s.write(lines)
	return s.result(), err
}

type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer, files []scanner.FileInfo) *progressBar {
	if w == nil {
		return &progressBar{}
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}

	return &progressBar{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("searching"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))}
}

func (p *progressBar) advance(n int64) {
	if p.bar != nil {
		_ = p.bar.Add64(n)
	}
}

func (p *progressBar) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
