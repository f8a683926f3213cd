package imageio

import (
	"path/filepath"
	"strings"
)

// ImagePath identifies one entry of the file list
type ImagePath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// FilePath returns an ImagePath for a regular file
func FilePath(path string) ImagePath {
	return ImagePath{Path: path}
}

// IsArchiveEntry reports whether the image lives inside an archive
func (p ImagePath) IsArchiveEntry() bool {
	return p.ArchivePath != ""
}

// DiskPath returns the file on disk that holds the image
func (p ImagePath) DiskPath() string {
	if p.IsArchiveEntry() {
		return p.ArchivePath
	}
	return p.Path
}

func (p ImagePath) String() string {
	return p.Path
}

// CaptureBase returns the name prefix, without extension, used for window captures of p
func (p ImagePath) CaptureBase() string {
	if p.IsArchiveEntry() {
		entry := filepath.Base(filepath.FromSlash(p.EntryPath))
		return trimExt(p.ArchivePath) + "_" + trimExt(entry)
	}
	return trimExt(p.Path)
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff",
		".pgm", ".ppm", ".pnm", ".pfm":
		return true
	default:
		return false
	}
}

// IsSupported reports whether path has an image or archive extension the viewer reads
func IsSupported(path string) bool {
	return isSupportedExt(path) || isArchiveExt(path)
}
