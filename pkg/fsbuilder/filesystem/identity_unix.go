//go:build unix

package filesystem

import (
	"fmt"
	"os"
	"syscall"
)

// Identity implements FileSystem using the stat device and inode numbers.
func (osfs *OSFileSystem) Identity(name string) (FileID, error) {
	info, err := os.Stat(name)
	if err != nil {
		return FileID{}, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return FileID{}, fmt.Errorf("no stat identity available for %s", name)
	}
	return FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, nil
}
