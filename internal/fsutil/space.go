package fsutil

import (
	"golang.org/x/sys/unix"
)

// AvailableBytes reports the free space available to an unprivileged user
// on the filesystem containing path, for the Executor's dry-run
// free-space check.
func AvailableBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
