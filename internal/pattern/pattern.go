// Package pattern infers the naming convention shared by a set of
// filenames that are being compared together (e.g. multiple render
// passes of one shot) and turns it into match rules that generalize to
// other comparable sets in the same directory.
package pattern

import (
	"errors"
	"regexp"
	"strings"
)

// separators are the characters treated as boundaries between a radix
// and the variant part of a filename.
const separators = "_-."

var (
	// ErrTooFewFiles indicates fewer than two sample filenames.
	ErrTooFewFiles = errors.New("need at least two filenames")
	// ErrNoCommonPattern indicates the samples share no usable prefix.
	ErrNoCommonPattern = errors.New("no common pattern in filenames")
	// ErrDuplicateTails indicates two samples differ only in radix,
	// which would make their cells indistinguishable.
	ErrDuplicateTails = errors.New("duplicate tails in filenames")
)

// CellPattern describes one variant slot within a comparable set.
// Pattern is a plain serialized regex rather than a compiled value so
// the user can hand-edit it and have it take effect on the next scan
// without re-running extraction.
type CellPattern struct {
	// Label is the human-readable variant name, for display only.
	Label string `json:"label"`
	// Tail is the exact suffix (separator + variant text + extension)
	// that follows the radix in this cell's filename.
	Tail string `json:"tail"`
	// Pattern is an anchored capturing regex: evaluated against any
	// filename it yields the prefix preceding Tail.
	Pattern string `json:"pattern" validate:"required"`
}

// Extraction is the inferred naming convention for one comparable set.
type Extraction struct {
	Radix string        `json:"radix"`
	Cells []CellPattern `json:"cells"`
}

// Extract computes the shared radix of the sample filenames and one
// CellPattern per sample, in input order. The samples must be
// basenames, not paths.
func Extract(filenames []string) (*Extraction, error) {
	if len(filenames) < 2 {
		return nil, ErrTooFewFiles
	}

	prefix := longestCommonPrefix(filenames)
	if prefix == "" {
		return nil, ErrNoCommonPattern
	}

	radix, err := radixFromPrefix(prefix, filenames)
	if err != nil {
		return nil, err
	}

	cells := make([]CellPattern, 0, len(filenames))
	seen := make(map[string]struct{}, len(filenames))
	for _, f := range filenames {
		tail := f[len(radix):]
		if _, dup := seen[tail]; dup {
			return nil, ErrDuplicateTails
		}
		seen[tail] = struct{}{}
		cells = append(cells, CellPattern{
			Label:   deriveLabel(tail),
			Tail:    tail,
			Pattern: "^(.*)" + regexp.QuoteMeta(tail) + "$",
		})
	}

	return &Extraction{Radix: radix, Cells: cells}, nil
}

// radixFromPrefix decides where the radix ends inside the common
// prefix. Three cases, in order:
//
//  1. The prefix ends with separator(s): they belong to every tail,
//     not to the radix, so trim them.
//  2. Every filename continues with a non-separator right after the
//     prefix: the prefix ends mid-word (think "v1"/"v2" matching
//     through "v"), so walk back to the last separator inside it.
//  3. Otherwise the prefix itself is the radix.
func radixFromPrefix(prefix string, filenames []string) (string, error) {
	var radix string
	switch {
	case isSeparator(prefix[len(prefix)-1]):
		radix = strings.TrimRight(prefix, separators)
	case allContinueMidWord(prefix, filenames):
		pos := strings.LastIndexAny(prefix, separators)
		if pos < 0 {
			return "", ErrNoCommonPattern
		}
		radix = prefix[:pos]
	default:
		radix = prefix
	}
	if radix == "" {
		return "", ErrNoCommonPattern
	}
	return radix, nil
}

// allContinueMidWord reports whether every filename has a
// non-separator character immediately after the common prefix. A
// filename that is exactly the prefix counts as ending at a boundary.
func allContinueMidWord(prefix string, filenames []string) bool {
	for _, f := range filenames {
		rest := f[len(prefix):]
		if rest == "" || isSeparator(rest[0]) {
			return false
		}
	}
	return true
}

// deriveLabel strips leading separators from a tail and drops the file
// extension (split on the last dot). A tail that is purely an
// extension, like ".jpg", labels as the extension itself.
func deriveLabel(tail string) string {
	stripped := strings.TrimLeft(tail, separators)
	pos := strings.LastIndex(stripped, ".")
	if pos < 0 {
		return stripped
	}
	if pos == 0 {
		return stripped[1:]
	}
	return stripped[:pos]
}

func isSeparator(c byte) bool {
	return strings.IndexByte(separators, c) >= 0
}

func longestCommonPrefix(strs []string) string {
	first := strs[0]
	n := len(first)
	for _, s := range strs[1:] {
		if len(s) < n {
			n = len(s)
		}
		for i := 0; i < n; i++ {
			if first[i] != s[i] {
				n = i
				break
			}
		}
	}
	return first[:n]
}

// Compile parses the cell's match rule. It fails when the pattern has
// been hand-edited into something regexp cannot parse; callers skip
// such cells rather than aborting.
func (c CellPattern) Compile() (*regexp.Regexp, error) {
	return regexp.Compile(c.Pattern)
}

// MatchRadix applies a compiled cell rule to a filename and returns
// the captured radix. The second return is false when the filename
// does not carry this cell's tail.
func MatchRadix(re *regexp.Regexp, name string) (string, bool) {
	m := re.FindStringSubmatch(name)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
