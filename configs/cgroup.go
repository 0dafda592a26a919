package configs

// Cgroup holds the control group placement and limits for a container.
type Cgroup struct {
	// Path is the cgroup path relative to the cgroup mount point. When
	// empty the runtime places the container under its own base group.
	Path string `json:"path,omitempty"`

	// Resources are the limits applied to the group. A nil Resources
	// creates the group without writing any limit files.
	*Resources `json:"resources"`
}

// Resources carries the limit values in their bundle form. Values are
// translated to cgroup-v2 syntax when applied; the zero value of a
// field means "leave the kernel default alone" and -1 means unlimited.
type Resources struct {
	// CpuShares is the cpu weight in the legacy shares scale
	// (roughly 2 through 262144).
	CpuShares uint64 `json:"cpu_shares"`

	// CpuQuota is the runtime allowed per period, in microseconds.
	CpuQuota int64 `json:"cpu_quota"`

	// CpuPeriod is the scheduling period length, in microseconds.
	CpuPeriod uint64 `json:"cpu_period"`

	// Memory is the memory limit in bytes.
	Memory int64 `json:"memory"`

	// MemorySwap is the combined memory plus swap limit in bytes.
	MemorySwap int64 `json:"memory_swap"`

	// BlkioWeight is the proportional block IO weight.
	BlkioWeight uint16 `json:"blkio_weight"`

	// PidsLimit caps the number of tasks in the container.
	PidsLimit int64 `json:"pids_limit"`
}
