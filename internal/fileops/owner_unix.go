//go:build unix

package fileops

import (
	"os"
	"syscall"
)

func ownership(info os.FileInfo) (uint32, uint32) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Uid, st.Gid
	}
	return 0, 0
}
