package scanner

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadPackages expands Go package patterns such as ./... into the Go files
// of the matching packages, test files included. It runs the go command in
// dir, so the patterns resolve against the module found there.
func LoadPackages(ctx context.Context, dir string, patterns ...string) ([]FileInfo, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles,
		Tests:   true,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("error loading packages %s: %w", strings.Join(patterns, " "), err)
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				return nil, fmt.Errorf("error loading package %s: %s", pkg.PkgPath, e.Msg)
			}
		}
		// the generated test main lives in the build cache
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}
		// test variants repeat the files of the package under test
		for _, path := range pkg.GoFiles {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	files := make([]FileInfo, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
	}
	return files, nil
}
