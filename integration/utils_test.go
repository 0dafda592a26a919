//go:build linux

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/libcell/libcell"
)

// requiresRoot skips tests that create namespaces and mounts when the
// suite is not running as root.
func requiresRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}
}

func newFactory(t *testing.T) libcell.Factory {
	t.Helper()
	factory, err := libcell.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return factory
}

// templateSpec returns a bundle configuration running args on a
// read-only bind of the host root with the common namespaces. Tests
// mutate the result before writing it out.
func templateSpec(args ...string) *specs.Spec {
	return &specs.Spec{
		Version: specs.Version,
		Root: &specs.Root{
			Path:     "/",
			Readonly: true,
		},
		Process: &specs.Process{
			Args: args,
			Env:  []string{"PATH=/usr/sbin:/usr/bin:/sbin:/bin"},
			Cwd:  "/",
		},
		Mounts: []specs.Mount{
			{
				Destination: "/proc",
				Type:        "proc",
				Source:      "proc",
				Options:     []string{"nosuid", "noexec", "nodev"},
			},
		},
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.PIDNamespace},
				{Type: specs.MountNamespace},
				{Type: specs.IPCNamespace},
				{Type: specs.UTSNamespace},
				{Type: specs.NetworkNamespace},
				{Type: specs.CgroupNamespace},
			},
		},
	}
}

// writeBundle materializes spec as a bundle directory.
func writeBundle(t *testing.T, spec *specs.Spec) string {
	t.Helper()
	bundle := t.TempDir()
	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bundle, "config.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	return bundle
}

// stdio collects the container process's output.
type stdio struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// runContainer drives a bundle through a full create, start, wait,
// destroy cycle and returns the process's exit code and output.
func runContainer(t *testing.T, spec *specs.Spec, id string) (int, *stdio) {
	t.Helper()
	factory := newFactory(t)
	container, err := factory.Create(id, writeBundle(t, spec))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Destroy()

	var buffers stdio
	process := &libcell.Process{
		Args:   spec.Process.Args,
		Env:    spec.Process.Env,
		Cwd:    spec.Process.Cwd,
		Stdout: &buffers.Stdout,
		Stderr: &buffers.Stderr,
	}
	if err := container.Start(process); err != nil {
		t.Fatalf("start: %v", err)
	}
	exitCode, err := container.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return exitCode, &buffers
}
