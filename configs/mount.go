package configs

// Mount describes a filesystem to be mounted inside the container's
// rootfs. Options are the raw fstab style tokens from the bundle; they
// are translated to mount flags and data when the mount is performed.
type Mount struct {
	// Source is a device name, an existing host path for bind mounts,
	// or a pseudo filesystem name such as "proc".
	Source string `json:"source"`

	// Destination is the mount point path, relative to the container
	// root.
	Destination string `json:"destination"`

	// Device is the filesystem type ("proc", "tmpfs", "bind", ...).
	Device string `json:"device"`

	// Options in fstab style ("ro", "nosuid", "size=65536k", ...).
	Options []string `json:"options,omitempty"`
}
