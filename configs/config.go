package configs

// Config defines the isolation and resource settings for a container.
// It is produced from an OCI bundle by the specconv package and is the
// only configuration the runtime consults after create.
type Config struct {
	// Version is the OCI runtime-spec version the bundle declared.
	Version string `json:"version"`

	// Rootfs is the absolute path to the directory that becomes the
	// container's root filesystem.
	Rootfs string `json:"rootfs"`

	// Readonlyfs mounts the container rootfs without a writable layer.
	Readonlyfs bool `json:"readonlyfs"`

	// NoPivotRoot instructs the rootfs setup to use chroot instead of
	// pivot_root when entering the root filesystem.
	NoPivotRoot bool `json:"no_pivot_root"`

	// Hostname sets the container's hostname. Requires a new UTS
	// namespace.
	Hostname string `json:"hostname"`

	// Namespaces lists the namespaces the container's init process is
	// placed into. A namespace with a Path is joined instead of created.
	Namespaces Namespaces `json:"namespaces"`

	// Mounts are performed in order inside the rootfs after the base
	// layer is assembled.
	Mounts []*Mount `json:"mounts"`

	// Cgroups holds the cgroup path and resource limits applied to the
	// container's processes.
	Cgroups *Cgroup `json:"cgroups"`

	// Networks configures interfaces inside the container's network
	// namespace.
	Networks []*Network `json:"networks,omitempty"`

	// Annotations are opaque key/value pairs carried through to the
	// state record.
	Annotations map[string]string `json:"annotations,omitempty"`
}
