//go:build linux || darwin

package system

import (
	"fmt"
	"syscall"
)

// diskUsed reports used space the way df does: reserved blocks count as
// neither used nor available.
func diskUsed(path string) (float64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	used := st.Blocks - st.Bfree
	denom := used + st.Bavail
	if denom == 0 {
		return 0, fmt.Errorf("statfs %s: no blocks", path)
	}
	return float64(used) / float64(denom) * 100, nil
}
