package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type FileInfo struct {
	Path string
	Size int64
}

// Options controls which files a directory expands to.
type Options struct {
	// Extensions selects files by extension. Empty selects every file.
	Extensions []string
	// Ignore holds doublestar globs matched against paths relative to the
	// walked root, and against base names.
	Ignore []string
	// Hidden includes files and directories whose name starts with a dot.
	Hidden bool
	// NoIgnore disables .gitignore handling.
	NoIgnore bool
}

type Scanner struct {
	opts Options
}

func New(opts Options) (*Scanner, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return &Scanner{opts: opts}, nil
}

// Scan expands roots into the files to search. Files named explicitly are
// returned as is; directories are walked in lexical order. Any error while
// walking is returned, since a partial file set is not a useful result.
func (s *Scanner) Scan(roots ...string) ([]FileInfo, error) {
	var files []FileInfo
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, FileInfo{Path: root, Size: info.Size()})
			continue
		}

		found, err := s.walk(root)
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", root, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func (s *Scanner) walk(root string) ([]FileInfo, error) {
	var files []FileInfo
	ignores := newIgnoreStack()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if path != root && s.skip(rel, d, ignores) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !s.opts.NoIgnore {
				return ignores.load(path, rel)
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	return files, err
}

func (s *Scanner) skip(rel string, d fs.DirEntry, ignores *ignoreStack) bool {
	if !s.opts.Hidden && strings.HasPrefix(d.Name(), ".") {
		return true
	}
	for _, pattern := range s.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, d.Name()); ok {
			return true
		}
	}
	return !s.opts.NoIgnore && ignores.ignored(rel, d.IsDir())
}

// Accepts reports whether a file found outside of Scan, such as by a file
// watcher, would have been selected. Only the base name is checked against
// the hidden and ignore rules.
func (s *Scanner) Accepts(path string) bool {
	name := filepath.Base(path)
	if !s.opts.Hidden && strings.HasPrefix(name, ".") {
		return false
	}
	for _, pattern := range s.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}
	return s.isTargetFile(path)
}

// Hidden reports whether hidden entries are searched.
func (s *Scanner) Hidden() bool {
	return s.opts.Hidden
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.opts.Extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.opts.Extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
