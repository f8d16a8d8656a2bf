package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"krllint/internal/config"
)

// input is one file to analyze. err is set when the path given on the
// command line cannot be read; such inputs still get a result slot.
type input struct {
	path string
	err  error
}

// expandInputs turns command line paths into a sorted, duplicate-free file
// list. Files are taken as given; directories are walked and filtered by the
// include and exclude globs, matched against the path relative to the
// directory.
func expandInputs(paths []string, files config.FilesConfig) ([]input, error) {
	include := files.Include
	if len(include) == 0 {
		include = config.DefaultInclude
	}
	for _, g := range [][]string{include, files.Exclude} {
		for _, pattern := range g {
			if !doublestar.ValidatePattern(pattern) {
				return nil, &config.Error{Key: "files", Err: fmt.Errorf("bad glob %q", pattern)}
			}
		}
	}

	seen := make(map[string]struct{})
	var out []input
	add := func(in input) {
		key := filepath.Clean(in.path)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		in.path = key
		out = append(out, in)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			add(input{path: p, err: err})
			continue
		}
		if !info.IsDir() {
			add(input{path: p})
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				add(input{path: path, err: err})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(p, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)
			if matchAny(include, rel) && !matchAny(files.Exclude, rel) {
				add(input{path: path})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		// patterns were validated above
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
