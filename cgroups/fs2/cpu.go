//go:build linux

package fs2

import (
	"strconv"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
)

// defaultCpuPeriod is used when a quota is configured without an
// explicit period, matching the kernel default.
const defaultCpuPeriod = 100000

func setCpu(dirPath string, r *configs.Resources) error {
	if weight := cgroups.ConvertCpuSharesToCgroupV2Value(r.CpuShares); weight != 0 {
		if err := cgroups.WriteFile(dirPath, "cpu.weight", strconv.FormatUint(weight, 10)); err != nil {
			return err
		}
	}
	if r.CpuQuota != 0 || r.CpuPeriod != 0 {
		if err := cgroups.WriteFile(dirPath, "cpu.max", cpuMax(r.CpuQuota, r.CpuPeriod)); err != nil {
			return err
		}
	}
	return nil
}

// cpuMax renders the cpu.max value: "<quota> <period>", or the literal
// "max" for an unlimited quota.
func cpuMax(quota int64, period uint64) string {
	if quota == -1 {
		return "max"
	}
	if period == 0 {
		period = defaultCpuPeriod
	}
	return strconv.FormatInt(quota, 10) + " " + strconv.FormatUint(period, 10)
}

func statCpu(dirPath string, stats *cgroups.Stats) {
	// the kernel accounts in microseconds
	if usage, err := cgroups.GetValueByKey(dirPath, "cpu.stat", "usage_usec"); err == nil {
		stats.CpuStats.TotalUsage = usage * 1000
	}
}
