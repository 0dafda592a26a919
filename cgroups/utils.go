package cgroups

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UnifiedMountpoint is where the v2 hierarchy lives on a modern host.
const UnifiedMountpoint = "/sys/fs/cgroup"

// ReadFile reads a control file inside dir.
func ReadFile(dir, file string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes data to a control file inside dir. Control files
// always exist on cgroupfs; the create mode only matters for tests that
// point a manager at a scratch directory.
func WriteFile(dir, file, data string) error {
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(data), 0o700); err != nil {
		return fmt.Errorf("failed to write %q to %q: %w", data, path, err)
	}
	return nil
}

// ParseUint converts value to an uint64, treating a negative value as
// zero when negativeOk is set.
func ParseUint(s string, base, bitSize int) (uint64, error) {
	value, err := strconv.ParseUint(s, base, bitSize)
	if err != nil {
		intValue, intErr := strconv.ParseInt(s, base, bitSize)
		// 1. Handle negative values greater than MinInt64 (and)
		// 2. Handle negative values lesser than MinInt64
		if intErr == nil && intValue < 0 {
			return 0, nil
		} else if errors.Is(intErr, strconv.ErrRange) && intValue < 0 {
			return 0, nil
		}
		return value, err
	}
	return value, nil
}

// ParseKeyValue parses a space separated "name value" line from a flat
// keyed control file such as cpu.stat.
func ParseKeyValue(t string) (string, uint64, error) {
	parts := strings.SplitN(t, " ", 3)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("line %q is not in key value format", t)
	}
	value, err := ParseUint(parts[1], 10, 64)
	if err != nil {
		return "", 0, err
	}
	return parts[0], value, nil
}

// GetValueByKey reads a flat keyed file and returns the value stored
// under key, or zero when the key is absent.
func GetValueByKey(dir, file, key string) (uint64, error) {
	content, err := ReadFile(dir, file)
	if err != nil {
		return 0, err
	}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		name, value, err := ParseKeyValue(sc.Text())
		if err != nil {
			return 0, err
		}
		if name == key {
			return value, nil
		}
	}
	return 0, sc.Err()
}

// GetCgroupParamUint reads a single value control file. The literal
// "max" is reported as the maximum uint64.
func GetCgroupParamUint(dir, file string) (uint64, error) {
	contents, err := ReadFile(dir, file)
	if err != nil {
		return 0, err
	}
	contents = strings.TrimSpace(contents)
	if contents == "max" {
		return ^uint64(0), nil
	}
	res, err := ParseUint(contents, 10, 64)
	if err != nil {
		return res, fmt.Errorf("unable to parse %q as a uint from cgroup file %q", contents, filepath.Join(dir, file))
	}
	return res, nil
}

// ConvertCpuSharesToCgroupV2Value converts cpu shares in the legacy
// 2..262144 scale to a v2 weight by dividing by 26 and clamping the
// result to the kernel's accepted 1..10000 range. Zero means the caller
// did not configure shares and no weight should be written.
func ConvertCpuSharesToCgroupV2Value(shares uint64) uint64 {
	if shares == 0 {
		return 0
	}
	weight := shares / 26
	if weight < 1 {
		return 1
	}
	if weight > 10000 {
		return 10000
	}
	return weight
}

// ConvertBlkIOToIOWeightValue clamps a proportional IO weight to the
// 1..10000 range accepted by io.weight.
func ConvertBlkIOToIOWeightValue(blkIoWeight uint16) uint64 {
	if blkIoWeight == 0 {
		return 0
	}
	weight := uint64(blkIoWeight)
	if weight < 1 {
		return 1
	}
	if weight > 10000 {
		return 10000
	}
	return weight
}

// ConvertMemoryToCgroupV2Value renders a byte limit for memory.max
// style files, with -1 meaning no limit.
func ConvertMemoryToCgroupV2Value(limit int64) string {
	if limit == -1 {
		return "max"
	}
	return strconv.FormatInt(limit, 10)
}
