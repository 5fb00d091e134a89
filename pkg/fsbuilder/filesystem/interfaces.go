package filesystem

import (
	"io/fs"
	"os"
	"time"
)

// FileID identifies a file by its device and inode numbers. Two paths
// refer to the same underlying file only when both numbers match; an
// equal inode on a different device is a different file.
type FileID struct {
	Dev uint64
	Ino uint64
}

// FileSystem is the OS surface the reconciler operates through. Paths
// are absolute host paths; nothing is rooted or rewritten. The engine
// is injected with an implementation so tests can substitute parts of
// it (notably Identity).
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)
	Readlink(name string) (string, error)
	Symlink(oldname, newname string) error
	Link(oldname, newname string) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(name string) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(name string, mode os.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error
	Glob(pattern string) ([]string, error)
	WalkDir(root string, fn fs.WalkDirFunc) error

	// TempFile creates an empty temporary file in dir and returns its
	// path. The caller owns removal.
	TempFile(dir, pattern string) (string, error)

	// Identity returns the (device, inode) pair for the file at name,
	// following symlinks.
	Identity(name string) (FileID, error)
}
