package imageio

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSingleFileExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"img10.png", "img2.png", "img1.pfm", "notes.txt"} {
		touch(t, filepath.Join(dir, name))
	}

	list, first, err := Collect([]string{filepath.Join(dir, "img2.png")}, CollectOptions{SortMethod: SortNatural})
	require.NoError(t, err)
	assert.Equal(t, pathsOf(
		filepath.Join(dir, "img1.pfm"),
		filepath.Join(dir, "img2.png"),
		filepath.Join(dir, "img10.png"),
	), list)
	assert.Equal(t, 1, first)
}

func TestCollectDirectoryWithMatch(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	for _, name := range []string{"disp0.pfm", "im0.png", "sub/disp1.pfm"} {
		touch(t, filepath.Join(dir, name))
	}

	list, first, err := Collect([]string{dir}, CollectOptions{SortMethod: SortSimple, Match: "disp*"})
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, pathsOf(filepath.Join(dir, "disp0.pfm"), filepath.Join(sub, "disp1.pfm")), list)
}

func TestCollectInvalidMatch(t *testing.T) {
	_, _, err := Collect([]string{t.TempDir()}, CollectOptions{Match: "[unterminated"})
	assert.Error(t, err)
}

func TestCollectZipArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "set.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"b.png", "a.png", "readme.md"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	list, _, err := Collect([]string{archive}, CollectOptions{SortMethod: SortSimple})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ImagePath{Path: archive + ":a.png", ArchivePath: archive, EntryPath: "a.png"}, list[0])

	rc, err := Open(list[1])
	require.NoError(t, err)
	defer rc.Close()
	data := make([]byte, 5)
	_, err = rc.Read(data)
	require.NoError(t, err)
	assert.Equal(t, "b.png", string(data))
}

func TestCollectMissingArgument(t *testing.T) {
	_, _, err := Collect([]string{filepath.Join(t.TempDir(), "missing")}, CollectOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
