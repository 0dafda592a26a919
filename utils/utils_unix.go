//go:build linux

package utils

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const exitSignalOffset = 128

// ExitStatus returns the correct exit status for a process based on if
// it was signaled or exited cleanly.
func ExitStatus(status unix.WaitStatus) int {
	if status.Signaled() {
		return exitSignalOffset + int(status.Signal())
	}
	return status.ExitStatus()
}

// CloseExecFrom sets the close-on-exec flag on every file descriptor
// of the current process greater than or equal to minFd.
func CloseExecFrom(minFd int) error {
	fdList, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		return err
	}
	for _, fi := range fdList {
		fd, err := strconv.Atoi(fi.Name())
		if err != nil {
			// ignore non-numeric file names
			continue
		}
		if fd < minFd {
			continue
		}
		// intentionally ignore errors here, the fd may already be gone
		unix.CloseOnExec(fd)
	}
	return nil
}
