//go:build linux || darwin

package simfs

import "golang.org/x/sys/unix"

// VolumeBytes returns the used byte count of the real volume holding
// path, used to size the simulated device when seeding. Returns 0 when
// the volume cannot be inspected.
func VolumeBytes(path string) int64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	used := (int64(st.Blocks) - int64(st.Bfree)) * int64(st.Bsize)
	if used < 0 {
		return 0
	}
	return used
}
