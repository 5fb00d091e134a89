package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// OSFileSystem implements FileSystem directly against the host OS.
type OSFileSystem struct{}

// NewOSFileSystem returns a FileSystem backed by the real host filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat implements FileSystem.
func (osfs *OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Lstat implements FileSystem.
func (osfs *OSFileSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

// ReadFile implements FileSystem.
func (osfs *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile implements FileSystem.
func (osfs *OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// ReadDir implements FileSystem.
func (osfs *OSFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Readlink implements FileSystem.
func (osfs *OSFileSystem) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

// Symlink implements FileSystem. The target string is stored verbatim;
// no resolution or normalization is applied.
func (osfs *OSFileSystem) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

// Link implements FileSystem.
func (osfs *OSFileSystem) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

// Rename implements FileSystem.
func (osfs *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove implements FileSystem.
func (osfs *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll implements FileSystem.
func (osfs *OSFileSystem) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

// MkdirAll implements FileSystem.
func (osfs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Chmod implements FileSystem.
func (osfs *OSFileSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

// Chtimes implements FileSystem.
func (osfs *OSFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// Glob implements FileSystem.
func (osfs *OSFileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// WalkDir implements FileSystem.
func (osfs *OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// TempFile implements FileSystem.
func (osfs *OSFileSystem) TempFile(dir, pattern string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}
