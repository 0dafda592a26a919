package mount

// Rootfs describes a container's assembled root filesystem. It is
// created by PrepareRootfs, extended by MountFilesystems and consumed
// in reverse by Cleanup. The struct round-trips through the state file
// so a later process can tear the container down.
type Rootfs struct {
	// ID of the owning container.
	ID string `json:"id"`

	// Dir is the per-container storage directory that holds the
	// merged, upper and work trees.
	Dir string `json:"dir"`

	// LowerPath is the image directory the container was created from.
	LowerPath string `json:"lower_path"`

	// MergedPath is the mounted root the container process sees.
	MergedPath string `json:"merged_path"`

	// UpperPath and WorkPath back the writable overlay layer. Both are
	// empty when the rootfs is read-only.
	UpperPath string `json:"upper_path,omitempty"`
	WorkPath  string `json:"work_path,omitempty"`

	// ReadOnly records whether the rootfs was mounted without a
	// writable layer.
	ReadOnly bool `json:"read_only"`

	// MountPoints are the resolved extra mount destinations in the
	// order they were mounted. Cleanup unmounts them back to front.
	MountPoints []string `json:"mount_points,omitempty"`
}
