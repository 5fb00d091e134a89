//go:build unix

package fsbuilder

import (
	"os"
	"syscall"
)

// fileOwner extracts the uid and gid from a FileInfo.
func fileOwner(info os.FileInfo) (uid, gid int, ok bool) {
	st, sok := info.Sys().(*syscall.Stat_t)
	if !sok {
		return 0, 0, false
	}
	return int(st.Uid), int(st.Gid), true
}
