//go:build linux

/*
Utility for testing cgroup operations.

Creates a mock of the unified cgroup filesystem for the duration of the
test so that control file writes land in a scratch directory.
*/
package fs2

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libcell/libcell/configs"
)

type cgroupTestUtil struct {
	manager *Manager

	// Path to the mock cgroup directory.
	CgroupPath string

	t *testing.T
}

// NewCgroupTestUtil creates a manager rooted in a scratch directory.
func NewCgroupTestUtil(t *testing.T) *cgroupTestUtil {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cell_test")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := NewManager(&configs.Cgroup{Path: "/cell_test"}, path)
	if err != nil {
		t.Fatal(err)
	}
	return &cgroupTestUtil{manager: m, CgroupPath: path, t: t}
}

// Write the specified contents into the mock of the specified cgroup
// files.
func (c *cgroupTestUtil) writeFileContents(fileContents map[string]string) {
	c.t.Helper()
	for file, contents := range fileContents {
		if err := os.WriteFile(filepath.Join(c.CgroupPath, file), []byte(contents), 0o700); err != nil {
			c.t.Fatal(err)
		}
	}
}

// readFileContents returns the contents of a mock control file.
func (c *cgroupTestUtil) readFileContents(file string) string {
	c.t.Helper()
	data, err := os.ReadFile(filepath.Join(c.CgroupPath, file))
	if err != nil {
		c.t.Fatal(err)
	}
	return string(data)
}
