//go:build !linux && !darwin

package system

import "errors"

func diskUsed(string) (float64, error) {
	return 0, errors.New("disk usage not supported on this platform")
}
