package assets

import (
	"io/fs"
	"os"
)

// FileSystem is the storage the Resolver reads manifests from.
//
// Stat must report a missing file with an error matching fs.ErrNotExist.
// Directory paths are joined with "/" regardless of platform.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
