//go:build linux

package namespaces

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/configs"
)

func TestPath(t *testing.T) {
	p, err := Path(1234, configs.NEWNET)
	if err != nil {
		t.Fatal(err)
	}
	if p != "/proc/1234/ns/net" {
		t.Fatalf("unexpected namespace path %s", p)
	}

	if _, err := Path(1234, configs.NamespaceType("NEWBOGUS")); err == nil {
		t.Fatal("expected an error for an unknown namespace kind")
	}
}

func TestPathAllKinds(t *testing.T) {
	for _, kind := range configs.NamespaceTypes() {
		if _, err := Path(1, kind); err != nil {
			t.Fatalf("kind %s rejected: %v", kind, err)
		}
	}
}

func TestCloneFlags(t *testing.T) {
	flags := CloneFlags(configs.Namespaces{
		{Type: configs.NEWPID},
		{Type: configs.NEWUTS},
	})
	if flags != unix.CLONE_NEWPID|unix.CLONE_NEWUTS {
		t.Fatalf("unexpected clone flags %#x", flags)
	}
}

func TestCloneFlagsSkipsJoined(t *testing.T) {
	flags := CloneFlags(configs.Namespaces{
		{Type: configs.NEWPID},
		{Type: configs.NEWNET, Path: "/proc/1/ns/net"},
	})
	if flags != unix.CLONE_NEWPID {
		t.Fatalf("joined namespaces must not be cloned, got %#x", flags)
	}
}

func TestCloneFlagsSkipsTime(t *testing.T) {
	flags := CloneFlags(configs.Namespaces{
		{Type: configs.NEWTIME},
		{Type: configs.NEWIPC},
	})
	if flags != unix.CLONE_NEWIPC {
		t.Fatalf("the time namespace cannot ride clone, got %#x", flags)
	}
}

func TestOpenSelf(t *testing.T) {
	ctx := Open(os.Getpid(), []configs.NamespaceType{configs.NEWNET, configs.NEWNS})
	defer ctx.Release()

	paths := ctx.Paths()
	if paths[configs.NEWNET] == "" {
		t.Fatal("expected a handle on the caller's network namespace")
	}
	if paths[configs.NEWNS] == "" {
		t.Fatal("expected a handle on the caller's mount namespace")
	}
}

func TestOpenOmitsUnavailable(t *testing.T) {
	// pid 0 has no /proc entry, so every kind is silently omitted
	ctx := Open(0, []configs.NamespaceType{configs.NEWNET})
	defer ctx.Release()

	if len(ctx.Paths()) != 0 {
		t.Fatalf("expected no handles for a nonexistent process, got %v", ctx.Paths())
	}
}

func TestReleaseIdempotent(t *testing.T) {
	ctx := Open(os.Getpid(), []configs.NamespaceType{configs.NEWNET})
	if err := ctx.Release(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Release(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("test requires root")
	}

	ctx, err := Create([]configs.NamespaceType{configs.NEWUTS})
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Release()

	if ctx.Paths()[configs.NEWUTS] == "" {
		t.Fatal("expected a handle on the fresh UTS namespace")
	}
}

func TestCreateUnknownKind(t *testing.T) {
	if _, err := Create([]configs.NamespaceType{configs.NamespaceType("NEWBOGUS")}); err == nil {
		t.Fatal("expected an error for an unknown namespace kind")
	}
}
