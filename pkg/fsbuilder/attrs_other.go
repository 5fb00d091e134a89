//go:build !unix

package fsbuilder

import "os"

// fileOwner is unavailable without POSIX stat semantics.
func fileOwner(_ os.FileInfo) (uid, gid int, ok bool) {
	return 0, 0, false
}
