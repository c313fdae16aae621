// Package scanner discovers comparable file sets in a directory by
// applying cell match rules to every entry and grouping the captured
// radixes, and resolves one concrete file per cell for a chosen radix.
package scanner

import (
	"path/filepath"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shotset/revscan/internal/pattern"
)

// Lister enumerates the file entries of a directory. The OS-backed
// implementation lives in internal/fsdir; tests inject an in-memory
// one.
type Lister interface {
	List(dir string) ([]string, error)
}

// compileCells compiles every cell's match rule up front. A pattern
// that fails to parse (a bad manual edit) leaves a nil slot and is
// skipped during matching; the remaining cells still participate.
func compileCells(cells []pattern.CellPattern) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(cells))
	for i, c := range cells {
		re, err := c.Compile()
		if err != nil {
			logrus.Debugf("skipping invalid pattern %q: %v", c.Pattern, err)
			continue
		}
		compiled[i] = re
	}
	return compiled
}

// ScanRadixes lists dir once, applies every cell pattern to every
// entry, and returns the sorted, de-duplicated radixes corroborated by
// at least min(len(cells), 2) distinct cells. The threshold keeps one
// loosely-edited pattern (say, anything ending in ".jpg") from turning
// every file in the directory into a spurious radix.
//
// An unlistable directory yields an empty result, not an error.
func ScanRadixes(l Lister, dir string, cells []pattern.CellPattern) []string {
	compiled := compileCells(cells)

	names, err := l.List(dir)
	if err != nil {
		logrus.Debugf("cannot list %s: %v", dir, err)
		return nil
	}

	// Track which cell indices corroborate each candidate radix.
	radixCells := make(map[string]map[int]struct{})
	for _, name := range names {
		for i, re := range compiled {
			if re == nil {
				continue
			}
			radix, ok := pattern.MatchRadix(re, name)
			if !ok {
				continue
			}
			set := radixCells[radix]
			if set == nil {
				set = make(map[int]struct{})
				radixCells[radix] = set
			}
			set[i] = struct{}{}
		}
	}

	threshold := len(cells)
	if threshold > 2 {
		threshold = 2
	}

	radixes := make([]string, 0, len(radixCells))
	for radix, set := range radixCells {
		if len(set) >= threshold {
			radixes = append(radixes, radix)
		}
	}
	sort.Strings(radixes)
	return radixes
}

// ResolveSet finds at most one file per cell whose captured radix
// equals radix exactly, in a single pass over dir. Slots come back in
// cell order as joined paths; an empty string marks a cell with no
// matching file, which the caller is expected to skip. The first
// matching entry wins a slot.
func ResolveSet(l Lister, dir, radix string, cells []pattern.CellPattern) []string {
	slots := make([]string, len(cells))

	names, err := l.List(dir)
	if err != nil {
		logrus.Debugf("cannot list %s: %v", dir, err)
		return slots
	}

	compiled := compileCells(cells)
	unfilled := len(cells)
	for _, name := range names {
		for i, re := range compiled {
			if slots[i] != "" || re == nil {
				continue
			}
			if got, ok := pattern.MatchRadix(re, name); ok && got == radix {
				slots[i] = filepath.Join(dir, name)
				unfilled--
			}
		}
		if unfilled == 0 {
			break
		}
	}
	return slots
}
