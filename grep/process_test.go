package grep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnoswap-labs/gsg/internal/query"
	tt "github.com/gnoswap-labs/gsg/internal/types"
	"github.com/gnoswap-labs/gsg/scanner"
)

type mockGrepEngine struct {
	mock.Mock
}

func (m *mockGrepEngine) RunFile(path string) ([]tt.Line, error) {
	args := m.Called(path)
	return args.Get(0).([]tt.Line), args.Error(1)
}

func (m *mockGrepEngine) RunSource(name string, source []byte) ([]tt.Line, error) {
	args := m.Called(name, source)
	return args.Get(0).([]tt.Line), args.Error(1)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestProcessPaths(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.go":     "package main\n\nfunc f() { x := 1 }\n",
		"b.txt":    "package main\n\nfunc g() {}\n",
		"sub/c.go": "package sub\n",
	})

	var out bytes.Buffer
	summary, err := ProcessPaths(context.Background(), nil, newEngine(t, "//Ident"), []string{dir}, &out, Options{})
	require.NoError(t, err)

	a := filepath.Join(dir, "a.go")
	c := filepath.Join(dir, "sub", "c.go")
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.ElementsMatch(t, []string{a + ": main", a + ": f", a + ": x", c + ": sub"}, lines)
	assert.Equal(t, tt.Summary{Files: 2, Matched: 2, Lines: 4}, summary)
}

func TestProcessPathsSkipsBrokenFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.go":   "package a\n",
		"bad.go": "package bad\n\nfunc {",
		"c.go":   "package c\n",
	})

	core, logs := observer.New(zapcore.ErrorLevel)
	var out bytes.Buffer
	summary, err := ProcessPaths(context.Background(), zap.New(core), newEngine(t, "//File/Ident"), []string{dir}, &out, Options{Workers: 2})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.go") + ": a",
		filepath.Join(dir, "c.go") + ": c",
	}, strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"))
	assert.Equal(t, tt.Summary{Files: 3, Matched: 2, Failed: 1, Lines: 2}, summary)

	entries := logs.FilterMessage("failed to process file").All()
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "bad.go"), entries[0].ContextMap()["file"])
}

func TestProcessPathsEmptyFile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"empty.go": "\n\n"})

	var out bytes.Buffer
	summary, err := ProcessPaths(context.Background(), nil, newEngine(t, "//*"), []string{dir}, &out, Options{})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, tt.Summary{Files: 1}, summary)
}

func TestProcessPathsKeepsFileOutputTogether(t *testing.T) {
	t.Parallel()

	const numFiles = 40
	const numFuncs = 25

	files := make(map[string]string, numFiles)
	for i := 0; i < numFiles; i++ {
		var src strings.Builder
		src.WriteString("package p\n")
		for j := 0; j < numFuncs; j++ {
			fmt.Fprintf(&src, "\nfunc f%d_%d() {\n\tprintln(%d)\n}\n", i, j, j)
		}
		files[fmt.Sprintf("f%02d.go", i)] = src.String()
	}
	dir := writeFiles(t, files)

	var out bytes.Buffer
	summary, err := ProcessPaths(context.Background(), nil, newEngine(t, "//FuncDecl"), []string{dir}, &out, Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, numFiles*numFuncs, summary.Lines)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, numFiles*numFuncs)

	// every file's lines are contiguous and in source order
	seen := make(map[string]bool)
	for start := 0; start < len(lines); start += numFuncs {
		name, _, ok := strings.Cut(lines[start], ": ")
		require.True(t, ok)
		assert.False(t, seen[name], "%s printed twice", name)
		seen[name] = true

		var i int
		_, err := fmt.Sscanf(filepath.Base(name), "f%d.go", &i)
		require.NoError(t, err)
		for j := 0; j < numFuncs; j++ {
			want := fmt.Sprintf("%s: func f%d_%d() { println(%d) }", name, i, j, j)
			assert.Equal(t, want, lines[start+j])
		}
	}
	assert.Len(t, seen, numFiles)
}

func TestProcessPathsIdempotent(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.go": "package a\n\nvar v = 1\n",
		"b.go": "package b\n\nvar w = 2\n",
	})
	engine := newEngine(t, "//ValueSpec")

	run := func() []string {
		var out bytes.Buffer
		_, err := ProcessPaths(context.Background(), nil, engine, []string{dir}, &out, Options{Workers: 1})
		require.NoError(t, err)
		return strings.Split(out.String(), "\n")
	}
	assert.Equal(t, run(), run())
}

func TestProcessPathsEnumerateError(t *testing.T) {
	t.Parallel()

	engine := new(mockGrepEngine)
	var out bytes.Buffer
	_, err := ProcessPaths(context.Background(), nil, engine, []string{filepath.Join(t.TempDir(), "missing")}, &out, Options{})
	assert.ErrorIs(t, err, ErrEnumerate)
	engine.AssertNotCalled(t, "RunFile", mock.Anything)
}

func TestProcessPathsInvalidQueryIsFatal(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.go": "package a\n"})
	path := filepath.Join(dir, "a.go")

	engine := new(mockGrepEngine)
	engine.On("RunFile", path).Return([]tt.Line(nil), fmt.Errorf("%w: boom", query.ErrInvalidQuery))

	var out bytes.Buffer
	_, err := ProcessPaths(context.Background(), nil, engine, []string{dir}, &out, Options{})
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
	engine.AssertExpectations(t)
}

func TestProcessPathsWithMockEngine(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.go": "",
		"b.go": "",
	})
	a, b := filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")

	engine := new(mockGrepEngine)
	engine.On("RunFile", a).Return([]tt.Line{{Filename: a, Text: "one"}, {Filename: a, Text: "two"}}, nil)
	engine.On("RunFile", b).Return([]tt.Line(nil), fmt.Errorf("%w: denied", ErrRead))

	sc, err := scanner.New(scanner.Options{Extensions: []string{".go"}})
	require.NoError(t, err)

	var out, progress bytes.Buffer
	summary, err := ProcessPaths(context.Background(), nil, engine, []string{dir}, &out, Options{
		Scanner:  sc,
		Progress: &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, a+": one\n"+a+": two\n", out.String())
	assert.Equal(t, tt.Summary{Files: 2, Matched: 1, Failed: 1, Lines: 2}, summary)
	engine.AssertExpectations(t)
}

func TestProcessPathsCanceled(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.go": "package a\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := new(mockGrepEngine)
	engine.On("RunFile", mock.Anything).Return([]tt.Line(nil), nil).Maybe()

	var out bytes.Buffer
	_, err := ProcessPaths(ctx, nil, engine, []string{dir}, &out, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessReader(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	summary, err := ProcessReader(nil, newEngine(t, "//CallExpr"), StdinName,
		strings.NewReader("package main\n\nfunc main() { println(\"hi\") }\n"), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, "<stdin>: println(\"hi\")\n", out.String())
	assert.Equal(t, tt.Summary{Files: 1, Matched: 1, Lines: 1}, summary)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestProcessReaderErrors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	summary, err := ProcessReader(nil, newEngine(t, "//Ident"), StdinName, failingReader{}, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	summary, err = ProcessReader(nil, newEngine(t, "//Ident"), StdinName, strings.NewReader("func {"), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, out.String())

	engine := new(mockGrepEngine)
	engine.On("RunSource", StdinName, []byte("x")).Return([]tt.Line(nil), query.ErrInvalidQuery)
	_, err = ProcessReader(nil, engine, StdinName, strings.NewReader("x"), &out, nil)
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
}
