package cgroups

import (
	"github.com/libcell/libcell/configs"
)

// Manager owns one container's control group. Implementations create
// the group, move processes into it, translate configured limits into
// kernel control files and tear the group down again.
type Manager interface {
	// Create makes the group directory and enables the controllers the
	// runtime uses in the parent group. Creating an existing group is
	// not an error.
	Create() error

	// Apply adds the process with the given pid to the group.
	Apply(pid int) error

	// Set translates the resource limits into control file writes.
	Set(r *configs.Resources) error

	// GetPids returns the pids currently in the group.
	GetPids() ([]int, error)

	// GetStats returns usage counters for the group. Unreadable
	// counters are reported as zero rather than failing the call.
	GetStats() (*Stats, error)

	// Destroy kills any remaining processes in the group and removes
	// the group directory.
	Destroy() error

	// Path returns the absolute path of the group directory.
	Path() string
}
