//go:build linux

package fs2

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
)

const (
	// controllers the runtime needs enabled in the parent group.
	neededControllers = "+cpu +memory +io +pids"

	// how long to give the kernel after killing the group's processes
	// before removing the directory, and how long to back off before
	// the single removal retry.
	removeDelay      = 100 * time.Millisecond
	removeRetryDelay = 300 * time.Millisecond
)

// Manager drives one container group on the cgroup v2 unified
// hierarchy.
type Manager struct {
	config  *configs.Cgroup
	dirPath string
}

// NewManager returns a manager for the group at dirPath. An empty
// dirPath derives the location from the configured cgroup path under
// the unified mountpoint.
func NewManager(config *configs.Cgroup, dirPath string) (*Manager, error) {
	if config == nil {
		config = &configs.Cgroup{}
	}
	if dirPath == "" {
		if config.Path == "" {
			return nil, fmt.Errorf("cgroup path is empty")
		}
		dirPath = filepath.Join(cgroups.UnifiedMountpoint, config.Path)
	}
	if !filepath.IsAbs(dirPath) {
		return nil, fmt.Errorf("invalid absolute cgroup path: %s", dirPath)
	}
	return &Manager{
		config:  config,
		dirPath: filepath.Clean(dirPath),
	}, nil
}

func (m *Manager) Path() string {
	return m.dirPath
}

// Create makes the group directory and enables the controllers we use
// in the parent group. Enabling is best-effort: a controller that is
// already enabled, or that this kernel does not offer, is not an error.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.dirPath, 0o755); err != nil {
		return err
	}
	m.enableControllers()
	return nil
}

func (m *Manager) enableControllers() {
	parent := filepath.Dir(m.dirPath)
	if err := cgroups.WriteFile(parent, "cgroup.subtree_control", neededControllers); err == nil {
		return
	}
	// the kernel rejects the whole write when any single controller is
	// unavailable, so fall back to enabling them one at a time
	for _, c := range strings.Fields(neededControllers) {
		_ = cgroups.WriteFile(parent, "cgroup.subtree_control", c)
	}
}

// Apply moves the process with the given pid into the group, creating
// the group first if needed.
func (m *Manager) Apply(pid int) error {
	if err := m.Create(); err != nil {
		return err
	}
	if err := cgroups.WriteFile(m.dirPath, "cgroup.procs", strconv.Itoa(pid)); err != nil {
		return fmt.Errorf("failed to add pid %d to cgroup: %w", pid, err)
	}
	return nil
}

// Set translates the configured limits into control file writes.
func (m *Manager) Set(r *configs.Resources) error {
	if r == nil {
		return nil
	}
	if err := setCpu(m.dirPath, r); err != nil {
		return err
	}
	if err := setMemory(m.dirPath, r); err != nil {
		return err
	}
	if err := setIo(m.dirPath, r); err != nil {
		return err
	}
	if err := setPids(m.dirPath, r); err != nil {
		return err
	}
	return nil
}

func (m *Manager) GetPids() ([]int, error) {
	content, err := cgroups.ReadFile(m.dirPath, "cgroup.procs")
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, v := range strings.Fields(content) {
		pid, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// GetStats reads the group's usage counters. Counters that cannot be
// read are reported as zero so that partial telemetry still flows.
func (m *Manager) GetStats() (*cgroups.Stats, error) {
	stats := cgroups.NewStats()
	statCpu(m.dirPath, stats)
	statMemory(m.dirPath, stats)
	statPids(m.dirPath, stats)
	return stats, nil
}

// Destroy kills everything left in the group and removes its
// directory. The kernel can take a moment to release a group whose
// processes just died, so removal is retried once.
func (m *Manager) Destroy() error {
	m.killAll()
	time.Sleep(removeDelay)
	if err := remove(m.dirPath); err != nil {
		time.Sleep(removeRetryDelay)
		return remove(m.dirPath)
	}
	return nil
}

// killAll terminates the group's processes, preferring the one-shot
// cgroup.kill file when this kernel has it.
func (m *Manager) killAll() {
	if _, err := os.Stat(filepath.Join(m.dirPath, "cgroup.kill")); err == nil {
		if err := cgroups.WriteFile(m.dirPath, "cgroup.kill", "1"); err == nil {
			return
		}
	}
	pids, err := m.GetPids()
	if err != nil {
		// no membership file means nothing left to kill
		return
	}
	for _, pid := range pids {
		// tolerate processes that exited on their own
		_ = unix.Kill(pid, unix.SIGKILL)
	}
}

func remove(dir string) error {
	err := os.Remove(dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cgroup %s: %w", dir, err)
	}
	return nil
}
