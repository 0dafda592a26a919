//go:build linux

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestExitStatusExited(t *testing.T) {
	status := unix.WaitStatus(3 << 8)
	if !status.Exited() {
		t.Fatal("expected status to report a normal exit")
	}
	if s := ExitStatus(status); s != 3 {
		t.Fatalf("expected exit status 3 but received %d", s)
	}
}

func TestExitStatusSignaled(t *testing.T) {
	status := unix.WaitStatus(uint32(unix.SIGKILL))
	if !status.Signaled() {
		t.Fatal("expected status to report a signaled exit")
	}
	if s := ExitStatus(status); s != 128+int(unix.SIGKILL) {
		t.Fatalf("expected exit status %d but received %d", 128+int(unix.SIGKILL), s)
	}
}

func TestCleanPath(t *testing.T) {
	path := CleanPath("")
	if path != "" {
		t.Fatalf("expected to receive empty string and received %s", path)
	}

	path = CleanPath("rootfs")
	if path != "rootfs" {
		t.Fatalf("expected to receive 'rootfs' and received %s", path)
	}

	path = CleanPath("../../../var")
	if path != "var" {
		t.Fatalf("expected to receive 'var' and received %s", path)
	}

	path = CleanPath("/../../../var")
	if path != "/var" {
		t.Fatalf("expected to receive '/var' and received %s", path)
	}

	path = CleanPath("/foo/bar/")
	if path != "/foo/bar" {
		t.Fatalf("expected to receive '/foo/bar' and received %s", path)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	record := struct {
		ID  string `json:"id"`
		Pid int    `json:"pid"`
	}{ID: "cell1", Pid: 42}

	if err := WriteJSON(path, &record); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\"id\":\"cell1\",\"pid\":42}\n" {
		t.Fatalf("unexpected serialized state %q", data)
	}

	// rewriting must replace, not append
	if err := WriteJSON(path, &record); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the temp file to be renamed away, found %d entries", len(entries))
	}
}
