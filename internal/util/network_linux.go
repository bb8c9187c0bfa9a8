//go:build linux

package util

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Linux VFS magic numbers of network filesystems
var networkMagic = map[uint32]string{
	0x6969:     "nfs",
	0xff534d42: "cifs",
	0x517b:     "smb",
	0xfe534d42: "smb2",
	0x564c:     "ncp",
}

// fstype substrings in /proc/mounts that indicate network storage
var networkFSTypes = []string{"nfs", "cifs", "smb", "ncpfs", "fuse.sshfs", "fuse.rclone"}

// detectPlatformNetwork detects network filesystems on Linux
func detectPlatformNetwork(path string, stat *syscall.Statfs_t) (*NetworkInfo, error) {
	info := &NetworkInfo{}

	// stat.Type is int64 on most Linux architectures
	if proto, found := networkMagic[uint32(stat.Type)]; found {
		info.IsNetwork = true
		info.Protocol = proto
	}

	mounts, err := parseProcMounts()
	if err != nil {
		// rely on the magic number alone
		return info, nil
	}

	mountPoint := longestMountPrefix(path, mounts)
	if mountPoint == "" {
		return info, nil
	}
	fsType := strings.ToLower(mounts[mountPoint])
	for _, netType := range networkFSTypes {
		if strings.Contains(fsType, netType) {
			info.IsNetwork = true
			info.Protocol = fsType
			info.MountPath = mountPoint
			break
		}
	}

	return info, nil
}

// longestMountPrefix returns the mount point that contains path
func longestMountPrefix(path string, mounts map[string]string) string {
	best := ""
	for mountPoint := range mounts {
		if !strings.HasPrefix(path, mountPoint) || len(mountPoint) <= len(best) {
			continue
		}
		if mountPoint != "/" && len(path) > len(mountPoint) && path[len(mountPoint)] != '/' {
			continue
		}
		best = mountPoint
	}
	return best
}

// parseProcMounts maps mount points to filesystem types from /proc/mounts
func parseProcMounts() (map[string]string, error) {
	file, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mounts := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		// device mountpoint fstype options dump pass
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts[fields[1]] = fields[2]
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return mounts, nil
}
