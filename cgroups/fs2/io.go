//go:build linux

package fs2

import (
	"strconv"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
)

func setIo(dirPath string, r *configs.Resources) error {
	if weight := cgroups.ConvertBlkIOToIOWeightValue(r.BlkioWeight); weight != 0 {
		// "default" sets the weight for every device at once
		if err := cgroups.WriteFile(dirPath, "io.weight", "default "+strconv.FormatUint(weight, 10)); err != nil {
			return err
		}
	}
	return nil
}
