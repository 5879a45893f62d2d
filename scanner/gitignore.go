package scanner

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type ignoreRule struct {
	pattern string
	negate  bool
	dirOnly bool
}

// ignoreStack holds the .gitignore rules of every directory seen so far,
// keyed by slash-separated path relative to the walked root.
type ignoreStack struct {
	rules map[string][]ignoreRule
}

func newIgnoreStack() *ignoreStack {
	return &ignoreStack{rules: make(map[string][]ignoreRule)}
}

// load reads the .gitignore file of dir, if any.
func (s *ignoreStack) load(dir, rel string) error {
	f, err := os.Open(filepath.Join(dir, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var rules []ignoreRule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if rule, ok := parseIgnoreLine(sc.Text()); ok {
			rules = append(rules, rule)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if len(rules) > 0 {
		s.rules[rel] = rules
	}
	return nil
}

func parseIgnoreLine(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var rule ignoreRule
	if strings.HasPrefix(line, "!") {
		rule.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	// a slash anywhere but the end anchors the pattern to its directory
	if strings.Contains(line, "/") {
		rule.pattern = strings.TrimPrefix(line, "/")
	} else {
		rule.pattern = "**/" + line
	}
	if rule.pattern == "" || !doublestar.ValidatePattern(rule.pattern) {
		return ignoreRule{}, false
	}
	return rule, true
}

// ignored applies the rules of every ancestor directory of rel, outermost
// first. The last matching rule wins.
func (s *ignoreStack) ignored(rel string, isDir bool) bool {
	if len(s.rules) == 0 {
		return false
	}

	ignored := false
	dir := "."
	for {
		if rules, ok := s.rules[dir]; ok {
			sub := rel
			if dir != "." {
				sub = strings.TrimPrefix(rel, dir+"/")
			}
			for _, rule := range rules {
				if rule.dirOnly && !isDir {
					continue
				}
				if ok, _ := doublestar.Match(rule.pattern, sub); ok {
					ignored = !rule.negate
				}
			}
		}

		next, ok := childOnPath(dir, rel)
		if !ok {
			return ignored
		}
		dir = next
	}
}

// childOnPath returns the next directory below dir on the way to rel.
func childOnPath(dir, rel string) (string, bool) {
	rest := rel
	if dir != "." {
		rest = strings.TrimPrefix(rel, dir+"/")
	}
	head, _, found := strings.Cut(rest, "/")
	if !found {
		return "", false
	}
	if dir == "." {
		return head, true
	}
	return path.Join(dir, head), true
}
