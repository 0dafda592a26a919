package libcell

import (
	"time"

	"github.com/libcell/libcell/configs"
	"github.com/libcell/libcell/mount"
)

// The name of the runtime state file inside a container's directory
// under the factory root.
const stateFilename = "state.json"

// The status of a container.
type Status int

const (
	// Creating is the status for a container in the middle of create.
	// It is never persisted: a container that fails create is removed
	// entirely so the id can be reused.
	Creating Status = iota

	// Created is the status that denotes the container exists but has
	// not been run yet.
	Created

	// Running is the status that denotes the container's init process
	// runs.
	Running

	// Stopped is the status that denotes the init process has exited.
	Stopped
)

func (s Status) String() string {
	switch s {
	case Creating:
		return "creating"
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// State represents a container's persisted state.
type State struct {
	// ID is the container ID.
	ID string `json:"id"`

	// Status is the lifecycle position at the last recorded
	// transition.
	Status Status `json:"status"`

	// Bundle is the path to the container's bundle directory.
	Bundle string `json:"bundle"`

	// Created is the time the container was created.
	Created time.Time `json:"created"`

	// InitProcessPid is the init process id in the caller's pid
	// namespace. Zero until the container was started.
	InitProcessPid int `json:"init_process_pid,omitempty"`

	// ExitCode is the recorded exit status of the init process. Only
	// meaningful once Status is Stopped and the exit was observed by
	// this runtime's monitor.
	ExitCode *int `json:"exit_code,omitempty"`

	// Config is the container's full runtime configuration.
	Config configs.Config `json:"config"`

	// Rootfs is the filesystem context needed to tear the container
	// down.
	Rootfs *mount.Rootfs `json:"rootfs,omitempty"`

	// CgroupPath is the container's resource group directory. Empty
	// when the container declared no limits.
	CgroupPath string `json:"cgroup_path,omitempty"`

	// NamespacePaths are the /proc paths of the init process's
	// namespaces, recorded for re-entry and inspection.
	NamespacePaths map[configs.NamespaceType]string `json:"namespace_paths,omitempty"`
}
