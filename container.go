package libcell

import (
	"os"

	"github.com/libcell/libcell/configs"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// A Container value accesses, and may control, an isolated execution
// environment: a process tree running in its own namespaces, constrained
// by cgroups, on a private root filesystem.
//
// Containers are created using the Factory interface.
//
// A container moves through the statuses Creating, Created, Running and
// Stopped. Each method below documents the statuses it may be called in.
//
// The Container value is not tied to the lifetime of the process that
// created it; a container created by one process may be loaded and
// controlled by another. Methods are safe for concurrent use.
type Container interface {
	// Returns the unique identifier for this container.
	ID() string

	// Returns the current status of the container, probing the init
	// process for liveness so that an exit observed by no one is still
	// reported as Stopped.
	//
	// Errors:
	// System error
	Status() (Status, error)

	// Returns the full state record of the container, including the
	// configuration it was created with.
	//
	// Errors:
	// System error
	State() (*State, error)

	// Returns the state of the container in the form defined by the
	// runtime specification.
	//
	// Errors:
	// System error
	OCIState() (*specs.State, error)

	// Returns the configuration of the container.
	Config() configs.Config

	// Start runs the given process as the container's init process
	// inside the prepared environment. The container transitions to
	// Running once the process has been handed its final execution
	// image.
	//
	// Errors:
	// Container is not in the Created status
	// Process spec is invalid
	// System error
	Start(process *Process) error

	// Signal delivers sig to the container's init process.
	//
	// Errors:
	// Container has no running process
	// System error
	Signal(sig os.Signal) error

	// Wait blocks until the container's init process exits and returns
	// its exit code. If the process was killed by a signal the code is
	// 128 plus the signal number. Wait may be called before Start; it
	// returns once the process has run and exited.
	//
	// Errors:
	// System error
	Wait() (int, error)

	// Returns the pids of all processes inside the container, as
	// recorded by its cgroup.
	//
	// Errors:
	// Container is not Running
	// System error
	Processes() ([]int, error)

	// Returns resource usage statistics for the container.
	//
	// Errors:
	// System error
	Stats() (*Stats, error)

	// Destroys the container once its process has exited: removes its
	// cgroup, unmounts its filesystems and deletes all on-disk state.
	// A running container cannot be destroyed; signal it and wait for
	// the exit first. After Destroy the identifier may be reused.
	//
	// Errors:
	// Container is still running
	// System error
	Destroy() error
}
