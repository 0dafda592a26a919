//go:build linux

package fs2

import (
	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
)

func setMemory(dirPath string, r *configs.Resources) error {
	if r.Memory != 0 {
		if err := cgroups.WriteFile(dirPath, "memory.max", cgroups.ConvertMemoryToCgroupV2Value(r.Memory)); err != nil {
			return err
		}
	}
	if r.MemorySwap != 0 {
		if err := cgroups.WriteFile(dirPath, "memory.swap.max", cgroups.ConvertMemoryToCgroupV2Value(r.MemorySwap)); err != nil {
			return err
		}
	}
	return nil
}

func statMemory(dirPath string, stats *cgroups.Stats) {
	if usage, err := cgroups.GetCgroupParamUint(dirPath, "memory.current"); err == nil {
		stats.MemoryStats.Usage = usage
	}
	// memory.peak needs a newer kernel, missing is fine
	if peak, err := cgroups.GetCgroupParamUint(dirPath, "memory.peak"); err == nil {
		stats.MemoryStats.Peak = peak
	}
}
