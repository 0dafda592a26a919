//go:build linux

package fs2

import (
	"testing"

	"github.com/libcell/libcell/configs"
)

func TestSetCpuWeight(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{CpuShares: 260}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cpu.weight"); value != "10" {
		t.Fatalf("expected cpu.weight to contain 10, got %q", value)
	}
}

func TestSetCpuWeightClamped(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{CpuShares: 300000}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cpu.weight"); value != "10000" {
		t.Fatalf("expected cpu.weight to contain 10000, got %q", value)
	}
}

func TestSetCpuMax(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{CpuQuota: 50000, CpuPeriod: 100000}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cpu.max"); value != "50000 100000" {
		t.Fatalf("expected cpu.max to contain quota and period, got %q", value)
	}
}

func TestSetCpuMaxDefaultPeriod(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{CpuQuota: 25000}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cpu.max"); value != "25000 100000" {
		t.Fatalf("expected the default period to be filled in, got %q", value)
	}
}

func TestSetCpuMaxUnlimited(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{CpuQuota: -1}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cpu.max"); value != "max" {
		t.Fatalf("expected cpu.max to contain the unlimited marker, got %q", value)
	}
}

func TestSetCpuNothingConfigured(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setCpu(helper.CgroupPath, &configs.Resources{}); err != nil {
		t.Fatal(err)
	}
	stats, err := helper.manager.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.CpuStats.TotalUsage != 0 {
		t.Fatalf("expected zero usage without a cpu.stat file, got %d", stats.CpuStats.TotalUsage)
	}
}

func TestStatCpu(t *testing.T) {
	helper := NewCgroupTestUtil(t)
	helper.writeFileContents(map[string]string{
		"cpu.stat": "usage_usec 27418395\nuser_usec 20982142\nsystem_usec 6436253\n",
	})

	stats, err := helper.manager.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.CpuStats.TotalUsage != 27418395000 {
		t.Fatalf("expected usage in nanoseconds, got %d", stats.CpuStats.TotalUsage)
	}
}
