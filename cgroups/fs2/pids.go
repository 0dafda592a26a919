//go:build linux

package fs2

import (
	"strconv"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
)

func setPids(dirPath string, r *configs.Resources) error {
	if r.PidsLimit != 0 {
		val := "max"
		if r.PidsLimit != -1 {
			val = strconv.FormatInt(r.PidsLimit, 10)
		}
		if err := cgroups.WriteFile(dirPath, "pids.max", val); err != nil {
			return err
		}
	}
	return nil
}

func statPids(dirPath string, stats *cgroups.Stats) {
	if current, err := cgroups.GetCgroupParamUint(dirPath, "pids.current"); err == nil {
		stats.PidsStats.Current = current
	}
}
