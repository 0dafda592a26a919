//go:build linux

package mount

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"
)

// PrepareRootfs assembles the root filesystem for a container inside
// dir. A read-only container bind mounts lowerPath directly; otherwise
// an overlay with a fresh writable layer is mounted. The lower
// directory must already exist.
func PrepareRootfs(dir, id, lowerPath string, readOnly bool) (*Rootfs, error) {
	fi, err := os.Stat(lowerPath)
	if err != nil {
		return nil, fmt.Errorf("rootfs lower dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("rootfs lower path %s is not a directory", lowerPath)
	}

	r := &Rootfs{
		ID:         id,
		Dir:        dir,
		LowerPath:  lowerPath,
		MergedPath: filepath.Join(dir, "rootfs"),
		ReadOnly:   readOnly,
	}
	if err := os.MkdirAll(r.MergedPath, 0o755); err != nil {
		return nil, err
	}

	if readOnly {
		if err := unix.Mount(lowerPath, r.MergedPath, "", unix.MS_BIND, ""); err != nil {
			return nil, fmt.Errorf("bind mount rootfs: %w", err)
		}
		if err := unix.Mount(lowerPath, r.MergedPath, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY, ""); err != nil {
			return nil, fmt.Errorf("remount rootfs read-only: %w", err)
		}
		return r, nil
	}

	r.UpperPath = filepath.Join(dir, "upper")
	r.WorkPath = filepath.Join(dir, "work")
	for _, p := range []string{r.UpperPath, r.WorkPath} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, err
		}
	}
	data := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s", lowerPath, r.UpperPath, r.WorkPath)
	if err := unix.Mount("overlay", r.MergedPath, "overlay", 0, data); err != nil {
		return nil, fmt.Errorf("mount overlay: %w", err)
	}
	return r, nil
}

// PivotRoot switches the calling process's root to the merged path and
// detaches the old root, so nothing of the host tree stays reachable.
// put_old is the new root itself: the old root ends up stacked on top
// of it and a lazy detach of "." peels it off again. This needs no
// scratch directory, which matters because the new root may be mounted
// read-only.
func (r *Rootfs) PivotRoot() error {
	if err := unix.Chdir(r.MergedPath); err != nil {
		return err
	}
	if err := unix.PivotRoot(".", "."); err != nil {
		return fmt.Errorf("pivot_root to %s: %w", r.MergedPath, err)
	}
	if err := unix.Unmount(".", unix.MNT_DETACH); err != nil {
		return fmt.Errorf("unmount old root: %w", err)
	}
	return unix.Chdir("/")
}

// Chroot enters path with the plain chroot call and resets the working
// directory to the new root. Used when the container shares the host
// mount namespace and pivot_root would disturb it.
func Chroot(path string) error {
	if err := unix.Chroot(path); err != nil {
		return fmt.Errorf("chroot to %s: %w", path, err)
	}
	return unix.Chdir("/")
}

// PrepareRoot stops mount propagation back to the host before the
// rootfs is entered. Required for pivot_root on hosts with a shared
// root mount.
func PrepareRoot() error {
	return unix.Mount("", "/", "", unix.MS_REC|unix.MS_PRIVATE, "")
}

// Cleanup unmounts everything the context tracks, newest first, then
// removes the storage directory. Already unmounted targets are fine;
// stray files that resist removal are not allowed to block teardown.
func (r *Rootfs) Cleanup() error {
	var firstErr error
	for i := len(r.MountPoints) - 1; i >= 0; i-- {
		if err := unmount(r.MountPoints[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := unmount(r.MergedPath); err != nil && firstErr == nil {
		firstErr = err
	}
	os.RemoveAll(r.Dir)
	return firstErr
}

// unmount lazily detaches target, treating "not mounted" answers from
// the kernel as success.
func unmount(target string) error {
	if mounted, err := mountinfo.Mounted(target); err == nil && !mounted {
		return nil
	}
	err := unix.Unmount(target, unix.MNT_DETACH)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOENT):
		// not a mount point, or already gone
		return nil
	default:
		return fmt.Errorf("unmount %s: %w", target, err)
	}
}
