// Package storage persists review sessions between CLI invocations so
// navigation commands can pick up where the last scan left off.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shotset/revscan/internal/validate"
)

// DefaultPath is where session state lives unless overridden by flag
// or config.
const DefaultPath = "~/.config/revscan/state.json"

// Entry is one persisted review session.
type Entry struct {
	ID string `json:"id" validate:"required,uuid4"`
	// Dir is the directory the session scans.
	Dir string `json:"dir" validate:"required"`
	// Samples are the filenames the pattern was inferred from.
	Samples []string `json:"samples,omitempty"`
	// Patterns carry manual edits, positionally aligned with the
	// cells extracted from Samples. Empty when never edited.
	Patterns []string `json:"patterns,omitempty"`
	// Radix is the comparable set the cursor was on.
	Radix string `json:"radix,omitempty"`
	Index int    `json:"index"`
}

// Data is the structure of the storage file.
type Data struct {
	// Sessions are keyed by scan directory.
	Sessions map[string]Entry `json:"sessions"`
}

// Storage handles loading and saving of the state file.
type Storage struct {
	Path string `validate:"required"`
	Data Data
}

// NewStorage creates a Storage instance rooted at path, loading any
// existing file.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{Sessions: make(map[string]Entry)},
	}

	if err := s.Load(); err != nil {
		// A missing file just means a first run.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or
// creates a new one otherwise, writing the initial structure to disk
// immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	s, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads the state file and drops entries that fail validation, so
// a corrupted file degrades to losing sessions rather than wedging the
// CLI.
func (s *Storage) Load() error {
	logrus.Debug("Loading state file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.Sessions == nil {
		s.Data.Sessions = make(map[string]Entry)
	}

	changed := false
	for dir, e := range s.Data.Sessions {
		if validate.Struct(e) == nil {
			continue
		}
		if e.Dir == "" {
			logrus.Warnf("Dropping invalid session for %q", dir)
			delete(s.Data.Sessions, dir)
			changed = true
			continue
		}
		// Self-heal a missing or malformed ID.
		e.ID = uuid.NewString()
		s.Data.Sessions[dir] = e
		changed = true
	}
	if changed {
		return s.Save()
	}
	return nil
}

// Save writes the state to disk, creating the parent directory when
// needed.
func (s *Storage) Save() error {
	logrus.Debug("Saving state file to: ", s.Path)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// PutSession records the session for dir, preserving the entry ID
// across updates.
func (s *Storage) PutSession(dir string, samples, patterns []string, radix string, index int) {
	e, ok := s.Data.Sessions[dir]
	if !ok {
		e = Entry{ID: uuid.NewString(), Dir: dir}
	}
	e.Samples = samples
	e.Patterns = patterns
	e.Radix = radix
	e.Index = index
	s.Data.Sessions[dir] = e
}

// Session returns the persisted session for dir, if any.
func (s *Storage) Session(dir string) (Entry, bool) {
	e, ok := s.Data.Sessions[dir]
	return e, ok
}

// Latest returns the single stored session when exactly one exists.
// Navigation commands use it so the directory argument can be omitted
// in the common one-session case.
func (s *Storage) Latest() (Entry, bool) {
	if len(s.Data.Sessions) != 1 {
		return Entry{}, false
	}
	for _, e := range s.Data.Sessions {
		return e, true
	}
	return Entry{}, false
}

// Clear forgets all sessions.
func (s *Storage) Clear() {
	s.Data.Sessions = make(map[string]Entry)
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
