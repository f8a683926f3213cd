package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// ErrNoUnusedName is returned when every capture name for a base is taken
var ErrNoUnusedName = errors.New("cannot determine unused file name")

var errArchiveEntry = errors.New("images inside archives cannot be modified")

const (
	maxCaptureIndex = 999
	retiredSuffix   = ".bak"
)

// NewImageName returns BASE_NNN.png for the smallest NNN such that no file with
// the stem BASE_NNN exists, whatever its extension
func NewImageName(base string) (string, error) {
	dir := filepath.Dir(base)
	prefix := filepath.Base(base)

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		used[trimExt(e.Name())] = true
	}

	for i := 1; i <= maxCaptureIndex; i++ {
		stem := fmt.Sprintf("%s_%03d", prefix, i)
		if !used[stem] {
			return filepath.Join(dir, stem+".png"), nil
		}
	}
	return "", fmt.Errorf("%s: %w", base, ErrNoUnusedName)
}

// SaveImage writes img as PNG
func SaveImage(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Retire renames the file behind p by appending .bak, so it no longer shows up as an image
func Retire(p ImagePath) (string, error) {
	if p.IsArchiveEntry() {
		return "", fmt.Errorf("%s: %w", p.Path, errArchiveEntry)
	}
	target := p.Path + retiredSuffix
	if err := os.Rename(p.Path, target); err != nil {
		return "", err
	}
	return target, nil
}

// DiskFiles performs file side effects of the viewer on the local file system
type DiskFiles struct{}

func (DiskFiles) ViewProperties(p ImagePath) (Properties, error) { return ViewProperties(p) }

func (DiskFiles) LookupMetadata(p ImagePath, searchPath string) (Properties, error) {
	return LookupMetadata(p, searchPath)
}

func (DiskFiles) NewImageName(base string) (string, error) { return NewImageName(base) }

func (DiskFiles) SaveImage(name string, img image.Image) error { return SaveImage(name, img) }

func (DiskFiles) Retire(p ImagePath) error {
	_, err := Retire(p)
	return err
}
