// Package batch orchestrates file discovery, per-file conversion through the
// external tools, and summary reporting. Jobs are independent; a pool of
// workers runs one subprocess per job and failures never stop the batch.
package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover collects files under dir whose extension (case-insensitive)
// appears in exts, descending into subdirectories when recursive is set.
// An empty extension list matches every file. Paths are sorted
// lexicographically for deterministic job order.
func Discover(dir string, exts []string, recursive bool) ([]string, error) {
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}
	match := func(path string) bool {
		if len(extSet) == 0 {
			return true
		}
		return extSet[strings.ToLower(filepath.Ext(path))]
	}

	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if match(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if match(path) {
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
