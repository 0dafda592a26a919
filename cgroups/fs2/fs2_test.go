//go:build linux

package fs2

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libcell/libcell/configs"
)

func TestNewManagerRequiresPath(t *testing.T) {
	if _, err := NewManager(&configs.Cgroup{}, ""); err == nil {
		t.Fatal("expected error when neither path nor directory is given")
	}
	if _, err := NewManager(&configs.Cgroup{}, "relative/path"); err == nil {
		t.Fatal("expected error for a relative cgroup directory")
	}
}

func TestNewManagerDerivesPath(t *testing.T) {
	m, err := NewManager(&configs.Cgroup{Path: "/libcell/cell1"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if m.Path() != "/sys/fs/cgroup/libcell/cell1" {
		t.Fatalf("unexpected derived path %s", m.Path())
	}
}

func TestApplyWritesPid(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := helper.manager.Apply(1234); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("cgroup.procs"); value != "1234" {
		t.Fatalf("expected cgroup.procs to contain the pid, got %q", value)
	}
}

func TestGetPids(t *testing.T) {
	helper := NewCgroupTestUtil(t)
	helper.writeFileContents(map[string]string{
		"cgroup.procs": "10\n20\n30\n",
	})

	pids, err := helper.manager.GetPids()
	if err != nil {
		t.Fatal(err)
	}
	if len(pids) != 3 || pids[0] != 10 || pids[1] != 20 || pids[2] != 30 {
		t.Fatalf("unexpected pids %v", pids)
	}
}

func TestSetIoWeight(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setIo(helper.CgroupPath, &configs.Resources{BlkioWeight: 500}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("io.weight"); value != "default 500" {
		t.Fatalf("expected io.weight to carry the default prefix, got %q", value)
	}
}

func TestSetPidsMax(t *testing.T) {
	helper := NewCgroupTestUtil(t)

	if err := setPids(helper.CgroupPath, &configs.Resources{PidsLimit: 42}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("pids.max"); value != "42" {
		t.Fatalf("expected pids.max to contain the limit, got %q", value)
	}

	if err := setPids(helper.CgroupPath, &configs.Resources{PidsLimit: -1}); err != nil {
		t.Fatal(err)
	}
	if value := helper.readFileContents("pids.max"); value != "max" {
		t.Fatalf("expected pids.max to contain the unlimited marker, got %q", value)
	}
}

func TestStatPids(t *testing.T) {
	helper := NewCgroupTestUtil(t)
	helper.writeFileContents(map[string]string{
		"pids.current": "7\n",
	})

	stats, err := helper.manager.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.PidsStats.Current != 7 {
		t.Fatalf("unexpected pid count %d", stats.PidsStats.Current)
	}
}

func TestCreateEnablesControllers(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "parent", "cell1")

	m, err := NewManager(&configs.Cgroup{Path: "/parent/cell1"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Create(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(base, "parent", "cgroup.subtree_control"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != neededControllers {
		t.Fatalf("unexpected subtree_control contents %q", data)
	}
}

func TestDestroyRemovesEmptyGroup(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "cell1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(&configs.Cgroup{Path: "/cell1"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Destroy(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected the group directory to be removed, stat err %v", err)
	}

	// a second destroy of the absent group is clean
	if err := m.Destroy(); err != nil {
		t.Fatal(err)
	}
}
