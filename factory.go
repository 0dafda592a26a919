package libcell

// A Factory generates new (or recovers existing) Containers.
type Factory interface {
	// Creates a new container with the given id, loading its
	// configuration from the bundle directory. A private root
	// filesystem is assembled, the extra mounts declared by the bundle
	// are applied and, if the bundle declares resource limits, a cgroup
	// is created. The container is returned in the Created status.
	//
	// The id must consist only of letters, digits, underscores, dots
	// and dashes, and must not be in use by another container.
	//
	// Errors:
	// Id is already in use
	// Config is invalid
	// System error
	//
	// On error, any partially created container parts are cleaned up
	// (the operation is atomic).
	Create(id, bundle string) (Container, error)

	// Load recovers the Container value for an already-created
	// container from its on-disk state. Load has two intended uses: it
	// recovers a Container if the creating process has terminated, and
	// it gives a second process read access to a container another
	// process controls.
	//
	// Errors:
	// Container does not exist
	// System error
	Load(id string) (Container, error)

	// List returns the state records of every container known to this
	// factory, ordered by id.
	//
	// Errors:
	// System error
	List() ([]*State, error)

	// StartInitialization performs the inside-the-container setup half
	// of Start. It never returns on success; the caller's process is
	// replaced by the container's process. It is intended to be invoked
	// from a specially arranged init re-execution of the current binary
	// and is not for general use.
	//
	// Errors:
	// Pipe connection error
	// System error
	StartInitialization() error
}
