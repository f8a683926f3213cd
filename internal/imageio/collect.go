package imageio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/gobwas/glob"
	"github.com/nwaples/rardecode"
	log "github.com/sirupsen/logrus"
)

// CollectOptions controls how command line arguments expand into the file list
type CollectOptions struct {
	SortMethod int
	// Match, when not empty, is a glob that base names found while scanning
	// directories and archives must match
	Match string
}

type collector struct {
	sort  SortFunc
	match glob.Glob
}

func newCollector(opts CollectOptions) (*collector, error) {
	c := &collector{sort: SortFor(opts.SortMethod)}
	if opts.Match != "" {
		g, err := glob.Compile(opts.Match)
		if err != nil {
			return nil, fmt.Errorf("invalid match pattern %q: %w", opts.Match, err)
		}
		c.match = g
	}
	return c, nil
}

func (c *collector) accept(name string) bool {
	if !isSupportedExt(name) {
		return false
	}
	return c.match == nil || c.match.Match(filepath.Base(name))
}

// Collect expands args into the list of images to show and the index of the first one.
// A single image file expands to all images of its directory, starting at that file.
func Collect(args []string, opts CollectOptions) ([]ImagePath, int, error) {
	c, err := newCollector(opts)
	if err != nil {
		return nil, 0, err
	}

	if len(args) == 1 && isSupportedExt(args[0]) {
		if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
			return c.sameDirectory(args[0])
		}
	}

	list, err := c.collect(args)
	return list, 0, err
}

// sameDirectory collects image files from the same directory as the given file.
// Does not include archives or subdirectories.
func (c *collector) sameDirectory(filePath string) ([]ImagePath, int, error) {
	dir := filepath.Dir(filePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var images []ImagePath
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if c.accept(fullPath) || fullPath == filepath.Join(dir, filepath.Base(filePath)) {
			images = append(images, FilePath(fullPath))
		}
	}

	images = c.sort(images)

	target := filepath.Join(dir, filepath.Base(filePath))
	for i, img := range images {
		if img.Path == target {
			return images, i, nil
		}
	}
	return images, 0, nil
}

func (c *collector) collect(args []string) ([]ImagePath, error) {
	var list []ImagePath
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			var dirImages []ImagePath
			err := filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if fi.IsDir() {
					return nil
				}
				if c.accept(path) {
					dirImages = append(dirImages, FilePath(path))
				} else if isArchiveExt(path) {
					archiveImages, err := c.processArchive(path)
					if err == nil {
						dirImages = append(dirImages, c.sort(archiveImages)...)
					} else {
						log.WithField("archive", path).WithError(err).Warn("Skipping problematic archive")
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			list = append(list, c.sort(dirImages)...)
		} else if isArchiveExt(p) {
			archiveImages, err := c.processArchive(p)
			if err != nil {
				log.WithField("archive", p).WithError(err).Warn("Skipping problematic archive")
				continue
			}
			list = append(list, c.sort(archiveImages)...)
		} else {
			// explicitly named files are taken as given, whatever their extension
			list = append(list, FilePath(p))
		}
	}

	return list, nil
}

func (c *collector) processArchive(archivePath string) ([]ImagePath, error) {
	ext := strings.ToLower(filepath.Ext(archivePath))
	switch ext {
	case ".zip":
		return c.extractFromZip(archivePath)
	case ".rar":
		return c.extractFromRar(archivePath)
	case ".7z":
		return c.extractFrom7z(archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func (c *collector) entry(archivePath, name string) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + name,
		ArchivePath: archivePath,
		EntryPath:   name,
	}
}

func (c *collector) extractFromZip(archivePath string) ([]ImagePath, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && c.accept(f.Name) {
			images = append(images, c.entry(archivePath, f.Name))
		}
	}
	return images, nil
}

func (c *collector) extractFromRar(archivePath string) ([]ImagePath, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if !header.IsDir && c.accept(header.Name) {
			images = append(images, c.entry(archivePath, header.Name))
		}
	}
	return images, nil
}

func (c *collector) extractFrom7z(archivePath string) ([]ImagePath, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && c.accept(f.Name) {
			images = append(images, c.entry(archivePath, f.Name))
		}
	}
	return images, nil
}
