// Package discovery finds tunnel definition files to benchmark.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Configuration identifies one tunnel definition on disk.
type Configuration struct {
	// Path is the location of the definition file, passed verbatim to the
	// tunnel control command.
	Path string
}

// Name returns the file name of the definition, without directory.
func (c Configuration) Name() string {
	return filepath.Base(c.Path)
}

// String implements fmt.Stringer.
func (c Configuration) String() string {
	return c.Name()
}

// Find lists the files in dir whose name starts with one of filters and ends
// with ext. Results keep the order of filters; files are sorted by name within
// a filter. A file matched by more than one filter is returned once.
//
// Filters that match nothing are returned in misses. An error is returned
// only when dir cannot be read.
func Find(dir string, filters []string, ext string) (configs []Configuration, misses []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading configuration directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	for _, filter := range filters {
		matched := 0
		for _, name := range names {
			if !strings.HasPrefix(name, filter) {
				continue
			}
			matched++
			if seen[name] {
				continue
			}
			seen[name] = true
			configs = append(configs, Configuration{Path: filepath.Join(dir, name)})
		}
		if matched == 0 {
			misses = append(misses, filter)
		}
	}

	return configs, misses, nil
}
