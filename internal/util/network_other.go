//go:build !linux && !darwin

package util

import "syscall"

// detectPlatformNetwork treats every filesystem as local
func detectPlatformNetwork(path string, stat *syscall.Statfs_t) (*NetworkInfo, error) {
	return &NetworkInfo{}, nil
}
