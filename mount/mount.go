//go:build linux

package mount

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/configs"
)

// MountFilesystems performs the configured mounts inside the merged
// rootfs in declaration order, recording each resolved destination for
// teardown.
func (r *Rootfs) MountFilesystems(mounts []*configs.Mount) error {
	for _, m := range mounts {
		dest, err := mountToRootfs(m, r.MergedPath)
		if err != nil {
			return fmt.Errorf("mount %s to %s: %w", m.Source, m.Destination, err)
		}
		r.MountPoints = append(r.MountPoints, dest)
	}
	return nil
}

// mountToRootfs resolves the destination inside rootfs, creates the
// mount point and mounts. It returns the resolved destination path.
func mountToRootfs(m *configs.Mount, rootfs string) (string, error) {
	dest, err := securejoin.SecureJoin(rootfs, m.Destination)
	if err != nil {
		return "", err
	}
	flags, data := parseMountOptions(m.Options)
	if err := createIfNotExists(dest, useDirMountpoint(m)); err != nil {
		return "", err
	}
	if err := unix.Mount(m.Source, dest, m.Device, uintptr(flags), data); err != nil {
		return "", err
	}
	if flags&unix.MS_BIND != 0 && flags&unix.MS_RDONLY != 0 {
		// a bind mount picks up read-only only on a remount pass
		if err := unix.Mount(m.Source, dest, "", uintptr(flags|unix.MS_REMOUNT), ""); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// useDirMountpoint decides the mount point shape: binding a regular
// file needs a file to mount over, everything else gets a directory.
func useDirMountpoint(m *configs.Mount) bool {
	if m.Device != "bind" {
		return true
	}
	fi, err := os.Stat(m.Source)
	if err != nil {
		return true
	}
	return fi.IsDir()
}

// createIfNotExists creates the mount point path, as a directory or as
// an empty file.
func createIfNotExists(path string, isDir bool) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	if isDir {
		return os.MkdirAll(path, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// parseMountOptions translates fstab style tokens into mount flags.
// Tokens that do not name a flag are joined into the mount data string
// for the filesystem driver to interpret.
func parseMountOptions(options []string) (int, string) {
	var (
		flag int
		data []string
	)
	flags := map[string]int{
		"ro":       unix.MS_RDONLY,
		"nosuid":   unix.MS_NOSUID,
		"nodev":    unix.MS_NODEV,
		"noexec":   unix.MS_NOEXEC,
		"sync":     unix.MS_SYNCHRONOUS,
		"remount":  unix.MS_REMOUNT,
		"bind":     unix.MS_BIND,
		"rbind":    unix.MS_BIND | unix.MS_REC,
		"private":  unix.MS_PRIVATE,
		"rprivate": unix.MS_PRIVATE | unix.MS_REC,
		"slave":    unix.MS_SLAVE,
		"rslave":   unix.MS_SLAVE | unix.MS_REC,
		"shared":   unix.MS_SHARED,
		"rshared":  unix.MS_SHARED | unix.MS_REC,
	}
	for _, o := range options {
		if f, exists := flags[o]; exists {
			flag |= f
		} else {
			data = append(data, o)
		}
	}
	return flag, strings.Join(data, ",")
}
