package validate

import (
	"testing"

	"github.com/libcell/libcell/configs"
)

func TestProcMount(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Namespaces: configs.Namespaces{{Type: configs.NEWPID}},
	}
	err := v.procMount(config)
	if err != nil {
		t.Fatalf("procMount failed to check proc mount")
	}

	config = &configs.Config{
		Namespaces: configs.Namespaces{{Type: configs.NEWNS}},
	}
	err = v.procMount(config)
	if err == nil {
		t.Fatalf("procMount failed to check proc mount")
	}

	config = &configs.Config{
		Namespaces: configs.Namespaces{{Type: configs.NEWNS}},
		Mounts: []*configs.Mount{
			{
				Source:      "proc",
				Destination: "/proc",
			},
		},
	}
	err = v.procMount(config)
	if err != nil {
		t.Fatalf("procMount failed to check proc mount")
	}
}

func TestProcMountJoinedNamespace(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Namespaces: configs.Namespaces{
			{Type: configs.NEWNS, Path: "/proc/1/ns/mnt"},
		},
	}
	if err := v.procMount(config); err != nil {
		t.Fatalf("joined mount namespace should not require a proc mount: %v", err)
	}
}

func TestHostname(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Hostname: "cell1",
	}
	if err := v.hostname(config); err == nil {
		t.Fatal("expected error for hostname without UTS namespace")
	}

	config = &configs.Config{
		Hostname:   "cell1",
		Namespaces: configs.Namespaces{{Type: configs.NEWUTS}},
	}
	if err := v.hostname(config); err != nil {
		t.Fatal(err)
	}
}

func TestMountDestinationAbsolute(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Mounts: []*configs.Mount{
			{
				Source:      "tmpfs",
				Destination: "tmp",
				Device:      "tmpfs",
			},
		},
	}
	if err := v.mounts(config); err == nil {
		t.Fatal("expected error for relative mount destination")
	}
}

func TestDuplicateNamespace(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Namespaces: configs.Namespaces{
			{Type: configs.NEWPID},
			{Type: configs.NEWPID},
		},
	}
	if err := v.namespaces(config); err == nil {
		t.Fatal("expected error for duplicate namespace")
	}
}

func TestNamespacePathAbsolute(t *testing.T) {
	v := &ConfigValidator{}

	config := &configs.Config{
		Namespaces: configs.Namespaces{
			{Type: configs.NEWNET, Path: "proc/1/ns/net"},
		},
	}
	if err := v.namespaces(config); err == nil {
		t.Fatal("expected error for relative namespace path")
	}
}

func TestRootfsRequired(t *testing.T) {
	v := New()

	config := &configs.Config{}
	if err := v.Validate(config); err == nil {
		t.Fatal("expected error for missing rootfs")
	}
}
