package libcell

import "github.com/libcell/libcell/cgroups"

// Stats describes the resource usage of a running container as sampled
// from its cgroup.
type Stats struct {
	CgroupStats *cgroups.Stats
}
