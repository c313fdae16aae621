// Package fsdir provides the OS-backed directory listing used by the
// scanner. It satisfies scanner.Lister; tests substitute an in-memory
// listing instead.
package fsdir

import (
	"os"
)

// OS lists real directories via os.ReadDir.
type OS struct{}

// List returns the names of the regular entries in dir, skipping
// subdirectories. The error is passed through untouched so callers can
// decide how a missing or unreadable directory degrades.
func (OS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
