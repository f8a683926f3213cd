package imageio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProperties(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "calib.txt")
	second := filepath.Join(dir, "parameter.txt")
	require.NoError(t, os.WriteFile(first, []byte("# camera\ncam0=[1 0 0; 0 1 0; 0 0 1]\ndoffs=12.5\nrotation=90\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("rotation=180\n"), 0o644))

	var props Properties
	require.NoError(t, props.LoadProperties(first))
	require.NoError(t, props.LoadProperties(second))

	cam, ok := props.String("cam0")
	assert.True(t, ok)
	assert.Equal(t, "[1 0 0; 0 1 0; 0 0 1]", cam)
	doffs, _ := props.String("doffs")
	assert.Equal(t, "12.5", doffs)
	assert.Equal(t, 180, props.Int("rotation", 0))
	assert.Equal(t, 3, props.Len())

	_, ok = props.String("camera")
	assert.False(t, ok)
}

func TestLoadPropertiesMissingFile(t *testing.T) {
	var props Properties
	assert.Error(t, props.LoadProperties(filepath.Join(t.TempDir(), "none.txt")))
}

func TestPropertiesAccessors(t *testing.T) {
	props := NewProperties(map[string]string{"n": "3", "bad": "x", "one": "1", "zero": "0", "yes": "true"})

	assert.Equal(t, 3, props.Int("n", 0))
	assert.Equal(t, 7, props.Int("bad", 7))
	assert.Equal(t, 7, props.Int("missing", 7))

	assert.True(t, props.Bool("one", false))
	assert.False(t, props.Bool("zero", true))
	assert.True(t, props.Bool("yes", false))
	assert.True(t, props.Bool("bad", true))
	assert.False(t, props.Bool("missing", false))

	var empty Properties
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 4, empty.Int("n", 4))
}

func TestViewProperties(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(img+".prop", []byte("rotation=270\nflip=1\n"), 0o644))

	props, err := ViewProperties(FilePath(img))
	require.NoError(t, err)
	assert.Equal(t, 270, props.Int("rotation", 0))
	assert.True(t, props.Bool("flip", false))

	props, err = ViewProperties(FilePath(filepath.Join(dir, "b.png")))
	require.NoError(t, err)
	assert.Equal(t, 0, props.Len())
}

func TestLookupMetadata(t *testing.T) {
	root := t.TempDir()
	images := filepath.Join(root, "images")
	params := filepath.Join(root, "params")
	require.NoError(t, os.MkdirAll(images, 0o755))
	require.NoError(t, os.MkdirAll(params, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(params, "calib.txt"), []byte("baseline=193.0\n"), 0o644))

	img := FilePath(filepath.Join(images, "disp0.pfm"))

	_, err := LookupMetadata(img, "")
	assert.ErrorIs(t, err, ErrMetadataMissing)

	props, err := LookupMetadata(img, filepath.Join(root, "nowhere")+string(os.PathListSeparator)+params)
	require.NoError(t, err)
	assert.Equal(t, "193.0", mustString(t, props, "baseline"))

	// files next to the image win over the search path
	require.NoError(t, os.WriteFile(filepath.Join(images, "parameter.txt"), []byte("baseline=1\n"), 0o644))
	props, err = LookupMetadata(img, params)
	require.NoError(t, err)
	assert.Equal(t, "1", mustString(t, props, "baseline"))
}

func mustString(t *testing.T, props Properties, key string) string {
	t.Helper()
	v, ok := props.String(key)
	require.True(t, ok, key)
	return v
}
