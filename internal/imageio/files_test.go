package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestNewImageName(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		expected string
	}{
		{"empty directory", nil, "shot_001.png"},
		{"unrelated names", []string{"shot.png", "shot_1.png"}, "shot_001.png"},
		{"any extension blocks the stem", []string{"shot_001.pgm", "shot_002.png"}, "shot_003.png"},
		{"gap is reused", []string{"shot_001.png", "shot_003.png"}, "shot_002.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.existing {
				touch(t, filepath.Join(dir, name))
			}

			name, err := NewImageName(filepath.Join(dir, "shot"))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.expected), name)
		})
	}
}

func TestNewImageNameExhausted(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= maxCaptureIndex; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("full_%03d.png", i)))
	}

	name, err := NewImageName(filepath.Join(dir, "full"))
	assert.Empty(t, name)
	assert.ErrorIs(t, err, ErrNoUnusedName)
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.png")

	img := image.NewRGBA(image.Rect(0, 0, 7, 3))
	require.NoError(t, SaveImage(name, img))

	a, err := NewLoader(0, 0).AttemptDecode(FilePath(name))
	require.NoError(t, err)
	assert.Equal(t, 7, a.OriginalWidth())
	assert.Equal(t, 3, a.OriginalHeight())
}

func TestRetire(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	touch(t, path)

	target, err := Retire(FilePath(path))
	require.NoError(t, err)
	assert.Equal(t, path+".bak", target)
	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".bak")

	// gone already
	_, err = Retire(FilePath(path))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Retire(ImagePath{Path: "a.zip:x.png", ArchivePath: "a.zip", EntryPath: "x.png"})
	assert.Error(t, err)
}

func TestCaptureBase(t *testing.T) {
	tests := []struct {
		path     ImagePath
		expected string
	}{
		{FilePath("/data/left.pfm"), "/data/left"},
		{FilePath("/data/noext"), "/data/noext"},
		{ImagePath{Path: "/a/set.zip:dir/x.png", ArchivePath: "/a/set.zip", EntryPath: "dir/x.png"}, "/a/set_x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.path.CaptureBase(), tt.path.Path)
	}
}
