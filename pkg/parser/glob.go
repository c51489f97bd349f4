package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPaths turns command-line path arguments into a deduplicated list of
// files, keeping argument order. A directory contributes its regular files
// (not recursively), a glob pattern (including **) its matching files, both
// in sorted order. Anything else is returned as-is so that a missing file is
// reported when it is opened.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			files, err := dirFiles(arg)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}

		case err == nil:
			add(arg)

		case hasGlobMeta(arg):
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				// Keep the literal so the open error names it.
				add(arg)
				continue
			}
			sort.Strings(matches)
			for _, m := range matches {
				if isRegularFile(m) {
					add(m)
				}
			}

		default:
			add(arg)
		}
	}

	return result, nil
}

func dirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if isRegularFile(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
