package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sv/internal/imageio"
)

func pathsOf(names ...string) []imageio.ImagePath {
	paths := make([]imageio.ImagePath, len(names))
	for i, name := range names {
		paths[i] = imageio.FilePath(name)
	}
	return paths
}

func namesOf(paths []imageio.ImagePath) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p.Path
	}
	return names
}

func TestNewNavigator(t *testing.T) {
	tests := []struct {
		name  string
		paths []imageio.ImagePath
		first int
		ok    bool
	}{
		{"single", pathsOf("a"), 0, true},
		{"last", pathsOf("a", "b", "c"), 2, true},
		{"empty", nil, 0, false},
		{"negative", pathsOf("a"), -1, false},
		{"past end", pathsOf("a", "b"), 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNavigator(tt.paths, tt.first)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.first, n.Cursor())
			assert.True(t, n.Cursor() >= 0 && n.Cursor() < n.Len())
		})
	}
}

func TestNavigatorCopiesInput(t *testing.T) {
	input := pathsOf("a", "b")
	n, err := NewNavigator(input, 0)
	require.NoError(t, err)

	n.RemoveCurrent(Forward)
	assert.Equal(t, []string{"a", "b"}, namesOf(input))

	paths := n.Paths()
	paths[0] = imageio.FilePath("changed")
	cur, _ := n.Current()
	assert.Equal(t, "b", cur.Path)
}

func TestNavigatorAdvance(t *testing.T) {
	n, err := NewNavigator(pathsOf("a", "b", "c"), 1)
	require.NoError(t, err)

	p, ok := n.Advance(Forward)
	assert.True(t, ok)
	assert.Equal(t, "c", p.Path)

	_, ok = n.Advance(Forward)
	assert.False(t, ok, "forward does not wrap")
	assert.Equal(t, 2, n.Cursor())

	n.Advance(Backward)
	p, ok = n.Advance(Backward)
	assert.True(t, ok)
	assert.Equal(t, "a", p.Path)

	_, ok = n.Advance(Backward)
	assert.False(t, ok)
	assert.Equal(t, 0, n.Cursor())
}

func TestNavigatorRemoveCurrent(t *testing.T) {
	tests := []struct {
		name      string
		paths     []string
		cursor    int
		dir       Direction
		expected  []string
		cursorOut int
		ok        bool
	}{
		{"forward middle keeps index", []string{"a", "b", "c"}, 1, Forward, []string{"a", "c"}, 1, true},
		{"forward first keeps index", []string{"a", "b"}, 0, Forward, []string{"b"}, 0, true},
		{"forward last steps back", []string{"a", "b", "c"}, 2, Forward, []string{"a", "b"}, 1, true},
		{"backward middle steps back", []string{"a", "b", "c"}, 1, Backward, []string{"a", "c"}, 0, true},
		{"backward first stays", []string{"a", "b"}, 0, Backward, []string{"b"}, 0, true},
		{"backward last steps back", []string{"a", "b"}, 1, Backward, []string{"a"}, 0, true},
		{"only entry forward", []string{"a"}, 0, Forward, []string{}, 0, false},
		{"only entry backward", []string{"a"}, 0, Backward, []string{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNavigator(pathsOf(tt.paths...), tt.cursor)
			require.NoError(t, err)

			cursor, ok := n.RemoveCurrent(tt.dir)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cursorOut, cursor)
			assert.Equal(t, tt.expected, namesOf(n.Paths()))
			assert.Equal(t, !tt.ok, n.IsEmpty())
		})
	}
}

func TestNavigatorEmpty(t *testing.T) {
	n, err := NewNavigator(pathsOf("a"), 0)
	require.NoError(t, err)
	n.RemoveCurrent(Forward)

	_, ok := n.Current()
	assert.False(t, ok)
	_, ok = n.RemoveCurrent(Forward)
	assert.False(t, ok)
	_, ok = n.Advance(Forward)
	assert.False(t, ok)
	_, ok = n.Advance(Backward)
	assert.False(t, ok)
}
