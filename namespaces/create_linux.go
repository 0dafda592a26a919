//go:build linux

package namespaces

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/configs"
)

// Context holds the namespace membership of a process: the /proc paths
// of its namespace files and, while the context is live, open handles
// to them. Handles keep a namespace alive even after its last process
// exits, so contexts must be released when no longer needed.
type Context struct {
	paths   map[configs.NamespaceType]string
	handles map[configs.NamespaceType]*os.File
}

// Paths returns a copy of the namespace file paths by kind.
func (c *Context) Paths() map[configs.NamespaceType]string {
	out := make(map[configs.NamespaceType]string, len(c.paths))
	for t, p := range c.paths {
		out[t] = p
	}
	return out
}

// Release closes every held namespace handle. It is safe to call more
// than once.
func (c *Context) Release() error {
	var firstErr error
	for t, f := range c.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.handles, t)
	}
	return firstErr
}

// Create detaches the calling process from the given namespace kinds
// with a single unshare call, then opens the process's own namespace
// files as durable handles. A kind whose file cannot be opened is left
// out of the context rather than failing the call.
//
// The kernel refuses to unshare the user namespace from a threaded
// process, and a new pid namespace only takes effect for children of
// the caller.
func Create(kinds []configs.NamespaceType) (*Context, error) {
	var flags int
	for _, t := range kinds {
		flag, known := namespaceInfo[t]
		if !known {
			return nil, fmt.Errorf("unknown namespace kind %q", t)
		}
		flags |= flag
	}
	if err := unix.Unshare(flags); err != nil {
		return nil, fmt.Errorf("unshare %#x: %w", flags, err)
	}
	return Open(os.Getpid(), kinds), nil
}

// Open collects namespace handles for an existing process, best-effort:
// kinds whose files cannot be opened are silently omitted.
func Open(pid int, kinds []configs.NamespaceType) *Context {
	c := &Context{
		paths:   make(map[configs.NamespaceType]string),
		handles: make(map[configs.NamespaceType]*os.File),
	}
	for _, t := range kinds {
		p, err := Path(pid, t)
		if err != nil {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		c.paths[t] = p
		c.handles[t] = f
	}
	return c
}

// Join re-associates the calling thread with the namespace at path.
// The namespace file is closed again before returning, whether or not
// the join succeeded. The caller is expected to have locked its OS
// thread.
func Join(path string, t configs.NamespaceType) error {
	flag, known := namespaceInfo[t]
	if !known {
		return fmt.Errorf("unknown namespace kind %q", t)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open namespace %s: %w", path, err)
	}
	defer f.Close()
	if err := unix.Setns(int(f.Fd()), flag); err != nil {
		return fmt.Errorf("setns to %s: %w", path, err)
	}
	return nil
}
