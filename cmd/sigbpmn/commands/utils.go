package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// expandPath resolves a leading '~' against the home directory.
func expandPath(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return expanded
}

// collectExports expands file and directory arguments into the sorted,
// deduplicated list of .json files they name.
func collectExports(args []string) ([]string, error) {
	seen := map[string]struct{}{}
	files := make([]string, 0, len(args))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, arg := range args {
		arg = expandPath(arg)
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			add(filepath.Join(arg, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
