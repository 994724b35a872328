package processor

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the slice of the OS the pipeline touches.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Remove(path string) error
}

// OSFileSystem implements FileSystem on the local disk. The remove field can
// be swapped in tests to simulate deletion failures.
type OSFileSystem struct {
	remove func(name string) error
}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{remove: os.Remove}
}

func (o *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the direct entries of path sorted by name.
func (o *OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFileSystem) Remove(path string) error {
	if o.remove == nil {
		return os.Remove(path)
	}
	return o.remove(path)
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsImageName reports whether name carries a recognised image extension.
// Only the suffix is inspected; content is never read.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
