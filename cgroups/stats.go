package cgroups

// CpuStats reports scheduler accounting for a group.
type CpuStats struct {
	// TotalUsage is the accumulated cpu time in nanoseconds.
	TotalUsage uint64 `json:"total_usage"`
}

// MemoryStats reports memory accounting for a group.
type MemoryStats struct {
	// Usage is the current memory in use, in bytes.
	Usage uint64 `json:"usage"`

	// Peak is the maximum memory usage recorded, in bytes.
	Peak uint64 `json:"peak"`
}

// PidsStats reports task accounting for a group.
type PidsStats struct {
	// Current is the number of tasks in the group.
	Current uint64 `json:"current"`
}

type Stats struct {
	CpuStats    CpuStats    `json:"cpu_stats,omitempty"`
	MemoryStats MemoryStats `json:"memory_stats,omitempty"`
	PidsStats   PidsStats   `json:"pids_stats,omitempty"`
}

func NewStats() *Stats {
	return &Stats{}
}
