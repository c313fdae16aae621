package scanner

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotset/revscan/internal/pattern"
)

// memLister serves a fixed listing for any directory, or an error.
type memLister struct {
	names []string
	err   error
}

func (m memLister) List(string) ([]string, error) {
	return m.names, m.err
}

func mustExtract(t *testing.T, filenames ...string) []pattern.CellPattern {
	t.Helper()
	ex, err := pattern.Extract(filenames)
	require.NoError(t, err)
	return ex.Cells
}

func TestScanRadixes(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")

	tests := []struct {
		name    string
		listing []string
		want    []string
	}{
		{
			name: "three full sets plus noise",
			listing: []string{
				"shot_001_diffuse.jpg", "shot_001_specular.jpg",
				"shot_003_diffuse.jpg", "shot_003_specular.jpg",
				"shot_002_diffuse.jpg", "shot_002_specular.jpg",
				"unrelated.txt",
			},
			want: []string{"shot_001", "shot_002", "shot_003"},
		},
		{
			name:    "single-cell match filtered out",
			listing: []string{"shot_003_diffuse.jpg", "unrelated.txt"},
			want:    nil,
		},
		{
			name:    "empty directory",
			listing: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ScanRadixes(memLister{names: tt.listing}, "/renders", cells)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanRadixes_MixedExtensions(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001.jpg", "shot_001_diffuse.tiff", "shot_001_specular.jpeg")

	listing := []string{
		"shot_001.jpg", "shot_001_diffuse.tiff", "shot_001_specular.jpeg",
		"shot_002.jpg", "shot_002_diffuse.tiff", "shot_002_specular.jpeg",
		// shot_003 is partial: two of three cells still clear the threshold.
		"shot_003.jpg", "shot_003_diffuse.tiff",
		"unrelated.txt",
	}

	got := ScanRadixes(memLister{names: listing}, "/renders", cells)
	assert.Equal(t, []string{"shot_001", "shot_002", "shot_003"}, got)
}

func TestScanRadixes_SingleCellThreshold(t *testing.T) {
	t.Parallel()

	// With only one cell the threshold drops to one, so a lone match
	// is enough.
	cells := []pattern.CellPattern{{Tail: "_diffuse.jpg", Pattern: `^(.*)_diffuse\.jpg$`}}
	got := ScanRadixes(memLister{names: []string{"shot_009_diffuse.jpg"}}, "/renders", cells)
	assert.Equal(t, []string{"shot_009"}, got)
}

func TestScanRadixes_InvalidPatternSkipped(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	// Simulate a bad manual edit on cell 0: it must not disable the
	// remaining patterns, and the broken cell cannot corroborate.
	cells[0].Pattern = "^(.*("

	got := ScanRadixes(memLister{names: []string{
		"shot_001_diffuse.jpg", "shot_001_specular.jpg",
	}}, "/renders", cells)
	assert.Empty(t, got)
}

func TestScanRadixes_UnreadableDir(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	got := ScanRadixes(memLister{err: errors.New("permission denied")}, "/renders", cells)
	assert.Empty(t, got)
}

func TestScanRadixes_Idempotent(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	l := memLister{names: []string{
		"shot_002_specular.jpg", "shot_001_diffuse.jpg",
		"shot_001_specular.jpg", "shot_002_diffuse.jpg",
	}}

	first := ScanRadixes(l, "/renders", cells)
	second := ScanRadixes(l, "/renders", cells)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"shot_001", "shot_002"}, first)
}

func TestResolveSet(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	l := memLister{names: []string{
		"shot_001_diffuse.jpg", "shot_001_specular.jpg",
		"shot_002_diffuse.jpg", "shot_002_specular.jpg",
	}}

	slots := ResolveSet(l, "/renders", "shot_002", cells)
	require.Len(t, slots, 2)
	assert.Equal(t, filepath.Join("/renders", "shot_002_diffuse.jpg"), slots[0])
	assert.Equal(t, filepath.Join("/renders", "shot_002_specular.jpg"), slots[1])
}

func TestResolveSet_MissingCell(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	l := memLister{names: []string{"shot_001_diffuse.jpg"}}

	slots := ResolveSet(l, "/renders", "shot_001", cells)
	require.Len(t, slots, 2)
	assert.NotEmpty(t, slots[0])
	assert.Empty(t, slots[1])
}

func TestResolveSet_ExactRadixOnly(t *testing.T) {
	t.Parallel()

	// shot_0011's capture is "shot_0011", not "shot_001": no slot may
	// be filled by the longer radix.
	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	l := memLister{names: []string{"shot_0011_diffuse.jpg", "shot_0011_specular.jpg"}}

	slots := ResolveSet(l, "/renders", "shot_001", cells)
	assert.Equal(t, []string{"", ""}, slots)
}

func TestResolveSet_UnreadableDir(t *testing.T) {
	t.Parallel()

	cells := mustExtract(t, "shot_001_diffuse.jpg", "shot_001_specular.jpg")
	slots := ResolveSet(memLister{err: errors.New("gone")}, "/renders", "shot_001", cells)
	assert.Equal(t, []string{"", ""}, slots)
}
