package imageio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ErrMetadataMissing is returned when no parameter file describes an image
var ErrMetadataMissing = errors.New("missing parameter files")

// MetadataFiles are the names of the camera parameter files that accompany disparity images
var MetadataFiles = []string{"calib.txt", "parameter.txt"}

// LookupMetadata loads the parameter files for p. The directory of the image is searched
// first, then each directory of searchPath (a list separated by os.PathListSeparator).
// Files of the first directory containing any of them are merged.
func LookupMetadata(p ImagePath, searchPath string) (Properties, error) {
	dirs := []string{filepath.Dir(p.DiskPath())}
	if searchPath != "" {
		dirs = append(dirs, filepath.SplitList(searchPath)...)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		var props Properties
		found := false
		for _, name := range MetadataFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := props.LoadProperties(path); err != nil {
				return Properties{}, fmt.Errorf("reading %s: %w", path, err)
			}
			found = true
		}
		if found {
			log.WithFields(log.Fields{"image": p.Path, "dir": dir}).Debug("Found parameter files")
			return props, nil
		}
	}
	return Properties{}, fmt.Errorf("%s: %w", p.Path, ErrMetadataMissing)
}
