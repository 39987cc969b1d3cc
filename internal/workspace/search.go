package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	searchMaxFiles   = 100
	searchMaxMatches = 50
)

// Match represents a single pattern occurrence in a file.
type Match struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SearchOptions control a workspace-wide grep.
type SearchOptions struct {
	CaseSensitive bool
	IncludeGlob   string
	ExcludeGlob   string
}

// Search scans text files under the working root for a regex pattern.
// Binary files are skipped; the number of files scanned and matches
// returned are both capped. Results are ordered by walk order, then line.
func (f *Filesystem) Search(pattern string, opts SearchOptions) ([]Match, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}

	expr := pattern
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	matches := make([]Match, 0, 16)
	scanned := 0

	err = filepath.WalkDir(f.resolver.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != f.resolver.Root && skipTreeEntry(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if scanned >= searchMaxFiles || len(matches) >= searchMaxMatches {
			return filepath.SkipAll
		}

		rel, relErr := filepath.Rel(f.resolver.Root, path)
		if relErr != nil {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if opts.IncludeGlob != "" && !matchGlob(opts.IncludeGlob, rel) {
			return nil
		}
		if opts.ExcludeGlob != "" && matchGlob(opts.ExcludeGlob, rel) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if looksBinary(data) {
			return nil
		}
		scanned++

		for i, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			if re.MatchString(line) {
				matches = append(matches, Match{File: rel, Line: i + 1, Text: line})
				if len(matches) >= searchMaxMatches {
					return filepath.SkipAll
				}
			}
		}
		return nil
	})
	if err != nil {
		return matches, err
	}
	return matches, nil
}

// matchGlob matches a glob against the relative path and against its base
// name, so a bare "*.py" selects python files at any depth.
func matchGlob(glob, rel string) bool {
	if ok, err := filepath.Match(glob, rel); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(glob, filepath.Base(rel))
	return err == nil && ok
}
