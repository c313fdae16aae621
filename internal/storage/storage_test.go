//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SessionRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.json")

	s, err := NewStorage(path)
	require.NoError(t, err)

	s.PutSession("/renders", []string{"a_x.jpg", "a_y.jpg"}, nil, "a", 0)
	require.NoError(t, s.Save())

	// Raw file carries the session keyed by directory.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	sessions, ok := raw["sessions"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, sessions, "/renders")

	// Re-open and verify persistence, including the stable ID.
	first, _ := s.Session("/renders")
	s2, err := NewStorage(path)
	require.NoError(t, err)
	e, ok := s2.Session("/renders")
	require.True(t, ok)
	assert.Equal(t, first.ID, e.ID)
	assert.Equal(t, []string{"a_x.jpg", "a_y.jpg"}, e.Samples)
	assert.Equal(t, "a", e.Radix)
}

func TestStorage_PutSessionKeepsID(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewStorage(filepath.Join(tmp, "state.json"))
	require.NoError(t, err)

	s.PutSession("/renders", nil, nil, "shot_001", 0)
	e1, _ := s.Session("/renders")
	require.NotEmpty(t, e1.ID)

	s.PutSession("/renders", nil, []string{`^(.*)_diffuse\.jpg$`}, "shot_002", 1)
	e2, _ := s.Session("/renders")
	assert.Equal(t, e1.ID, e2.ID)
	assert.Equal(t, "shot_002", e2.Radix)
	assert.Equal(t, 1, e2.Index)
}

func TestStorage_LoadSelfHeals(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.json")

	content := `{
		"sessions": {
			"/renders": {"id": "not-a-uuid", "dir": "/renders", "radix": "shot_001", "index": 2},
			"/broken": {"id": "", "dir": "", "index": 0}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := NewStorage(path)
	require.NoError(t, err)

	// The dir-less entry is dropped, the malformed ID regenerated.
	_, ok := s.Session("/broken")
	assert.False(t, ok)
	e, ok := s.Session("/renders")
	require.True(t, ok)
	assert.NotEqual(t, "not-a-uuid", e.ID)
	assert.Equal(t, "shot_001", e.Radix)
	assert.Equal(t, 2, e.Index)
}

func TestStorage_NewOrExistingCreatesFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "state.json")

	_, err := NewOrExistingStorage(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestStorage_Latest(t *testing.T) {
	tmp := t.TempDir()
	s, err := NewStorage(filepath.Join(tmp, "state.json"))
	require.NoError(t, err)

	_, ok := s.Latest()
	assert.False(t, ok)

	s.PutSession("/renders", nil, nil, "shot_001", 0)
	e, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "/renders", e.Dir)

	s.PutSession("/other", nil, nil, "x", 0)
	_, ok = s.Latest()
	assert.False(t, ok, "ambiguous with two sessions")

	s.Clear()
	_, ok = s.Latest()
	assert.False(t, ok)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/.config/revscan/state.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "revscan", "state.json"), got)

	got, err = expandTilde("/absolute/state.json")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/state.json", got)
}
