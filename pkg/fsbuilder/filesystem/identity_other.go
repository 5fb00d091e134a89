//go:build !unix

package filesystem

import "fmt"

// Identity is unavailable on platforms without POSIX stat semantics.
func (osfs *OSFileSystem) Identity(name string) (FileID, error) {
	return FileID{}, fmt.Errorf("file identity not supported on this platform: %s", name)
}
