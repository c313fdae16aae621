package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"

	"github.com/shotset/revscan/internal/pattern"
)

// defaultSkipDirs are directories discovery never descends into.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var defaultSkipDirs = []string{
	".git",
	".svn",
	".cache",
	".thumbnails",
	"node_modules",
	"__pycache__",
}

// Match pairs a directory with the radixes the cell patterns
// corroborate inside it.
type Match struct {
	Dir     string   `json:"dir"`
	Radixes []string `json:"radixes"`
}

// listing is an in-memory Lister over filenames grouped by directory.
type listing map[string][]string

func (l listing) List(dir string) ([]string, error) {
	return l[dir], nil
}

// Discover walks the tree under root and returns, sorted by
// directory, every directory in which the cell patterns corroborate
// at least one radix. Each directory is still judged by the same flat
// single-listing rules as ScanRadixes; the walk only feeds it.
// extraSkip extends the built-in skip list.
func Discover(ctx context.Context, root string, cells []pattern.CellPattern, extraSkip []string) []Match {
	skip := append(append([]string{}, defaultSkipDirs...), extraSkip...)

	var (
		mu    sync.Mutex
		found = make(listing)
	)

	conf := fastwalk.DefaultConfig
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if isSkippedDir(d.Name(), skip) {
				return fs.SkipDir
			}
			return nil
		}
		dir := filepath.Dir(path)
		mu.Lock()
		found[dir] = append(found[dir], d.Name())
		mu.Unlock()
		return nil
	})
	if err != nil {
		logrus.Debugf("walk of %s stopped: %v", root, err)
	}

	matches := make([]Match, 0, len(found))
	for dir := range found {
		radixes := ScanRadixes(found, dir, cells)
		if len(radixes) == 0 {
			continue
		}
		matches = append(matches, Match{Dir: dir, Radixes: radixes})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Dir < matches[j].Dir })
	return matches
}

func isSkippedDir(name string, skip []string) bool {
	for _, s := range skip {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
