// Package review holds the mutable state of one review session: the
// inferred (or hand-edited) cell patterns, the list of comparable
// radixes discovered around them, and the cursor within that list.
// The state is an explicit value passed into each operation, never a
// package global.
package review

import (
	"fmt"

	"github.com/shotset/revscan/internal/pattern"
	"github.com/shotset/revscan/internal/scanner"
)

// Slot pairs a cell index with the file resolved for it. Only cells
// that resolved successfully produce a Slot; the consumer skips the
// rest.
type Slot struct {
	Cell int    `json:"cell"`
	Path string `json:"path"`
}

// Session is the review state for one directory.
type Session struct {
	Dir        string              `json:"dir"`
	Extraction *pattern.Extraction `json:"extraction,omitempty"`
	Radixes    []string            `json:"radixes,omitempty"`
	Index      int                 `json:"index"`
	// Message carries the last activation error for display. It is
	// cleared by the next successful activation.
	Message string `json:"message,omitempty"`
}

// NewSession returns an empty session rooted at dir.
func NewSession(dir string) *Session {
	return &Session{Dir: dir}
}

// Activate infers the naming convention from the displayed filenames
// (basenames only) and rebuilds the radix list. On failure it only
// sets Message; prior patterns and radixes stay untouched.
func (s *Session) Activate(l scanner.Lister, filenames []string) bool {
	ex, err := pattern.Extract(filenames)
	if err != nil {
		s.Message = activationMessage(err, len(filenames))
		return false
	}

	s.Extraction = ex
	s.Message = ""
	s.rescan(l, ex.Radix)
	return true
}

func activationMessage(err error, n int) string {
	if n < 2 {
		return "select at least two images to infer a pattern"
	}
	return fmt.Sprintf("cannot infer a shared pattern: %v", err)
}

// EditPatterns replaces the cell match rules with user-edited text,
// positionally aligned with the previous cells. Tails and labels are
// carried over where a previous cell exists; they are display
// bookkeeping only and play no part in matching. The radix list is
// rebuilt against the edited rules.
func (s *Session) EditPatterns(l scanner.Lister, patterns []string) {
	cells := make([]pattern.CellPattern, len(patterns))
	for i, p := range patterns {
		if s.Extraction != nil && i < len(s.Extraction.Cells) {
			cells[i] = s.Extraction.Cells[i]
		}
		cells[i].Pattern = p
	}
	if s.Extraction == nil {
		s.Extraction = &pattern.Extraction{}
	}
	s.Extraction.Cells = cells
	s.rescan(l, s.currentRadix())
}

// Navigate moves the cursor by step (±1), wrapping around the radix
// list, and resolves the file set at the new position.
func (s *Session) Navigate(l scanner.Lister, step int) []Slot {
	n := len(s.Radixes)
	if n == 0 {
		return nil
	}
	s.Index = ((s.Index+step)%n + n) % n
	return s.Resolve(l)
}

// Refresh rebuilds the radix list with the current patterns, keeping
// the cursor on the same radix when it survives the rescan, and
// resolves the set at the cursor.
func (s *Session) Refresh(l scanner.Lister) []Slot {
	if s.Extraction == nil {
		return nil
	}
	s.rescan(l, s.currentRadix())
	return s.Resolve(l)
}

// Resolve returns the per-cell files for the radix under the cursor.
func (s *Session) Resolve(l scanner.Lister) []Slot {
	radix := s.currentRadix()
	if radix == "" || s.Extraction == nil {
		return nil
	}
	paths := scanner.ResolveSet(l, s.Dir, radix, s.Extraction.Cells)
	slots := make([]Slot, 0, len(paths))
	for i, p := range paths {
		if p == "" {
			continue
		}
		slots = append(slots, Slot{Cell: i, Path: p})
	}
	return slots
}

// CurrentRadix returns the radix under the cursor, or "" when the
// list is empty.
func (s *Session) CurrentRadix() string {
	return s.currentRadix()
}

func (s *Session) currentRadix() string {
	if s.Index < 0 || s.Index >= len(s.Radixes) {
		return ""
	}
	return s.Radixes[s.Index]
}

// rescan rebuilds Radixes and repositions the cursor on keep when it
// is still present, falling back to the start of the list.
func (s *Session) rescan(l scanner.Lister, keep string) {
	s.Radixes = scanner.ScanRadixes(l, s.Dir, s.Extraction.Cells)
	s.Index = 0
	for i, r := range s.Radixes {
		if r == keep {
			s.Index = i
			break
		}
	}
}
