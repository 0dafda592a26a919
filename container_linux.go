//go:build linux

package libcell

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
	"github.com/libcell/libcell/mount"
	"github.com/libcell/libcell/utils"
)

type linuxContainer struct {
	id       string
	root     string
	bundle   string
	config   *configs.Config
	initPath string
	initArgs []string
	factory  *LinuxFactory

	m              sync.Mutex
	status         Status
	created        time.Time
	rootfs         *mount.Rootfs
	cgroup         cgroups.Manager
	nsPaths        map[configs.NamespaceType]string
	initProcessPid int
	exitCode       *int

	// waitCh is closed by the monitor once the init process has been
	// reaped; monitored is true only in the process that spawned it
	monitored bool
	waitCh    chan struct{}
	destroyed bool
}

// ID returns the container's unique ID
func (c *linuxContainer) ID() string {
	return c.id
}

// Config returns the container's configuration
func (c *linuxContainer) Config() configs.Config {
	return *c.config
}

func (c *linuxContainer) Status() (Status, error) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.currentStatus()
}

func (c *linuxContainer) State() (*State, error) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.currentState()
}

func (c *linuxContainer) OCIState() (*specs.State, error) {
	c.m.Lock()
	defer c.m.Unlock()
	status, err := c.currentStatus()
	if err != nil {
		return nil, err
	}
	state := &specs.State{
		Version:     specs.Version,
		ID:          c.id,
		Status:      specs.ContainerState(status.String()),
		Bundle:      c.bundle,
		Annotations: c.config.Annotations,
	}
	if status == Running {
		state.Pid = c.initProcessPid
	}
	return state, nil
}

func (c *linuxContainer) Start(process *Process) error {
	c.m.Lock()
	defer c.m.Unlock()
	status, err := c.currentStatus()
	if err != nil {
		return err
	}
	if status != Created {
		return newGenericError(fmt.Errorf("container is %s, can only start a created container", status), InvalidState)
	}
	if len(process.Args) == 0 {
		return newGenericError(fmt.Errorf("process args cannot be empty"), ConfigInvalid)
	}
	parent, err := c.newInitProcess(process)
	if err != nil {
		return newSystemErrorWithCause(err, "creating init process")
	}
	logrus.Debugf("container %s: starting init process", c.id)
	if err := parent.start(); err != nil {
		return newSystemErrorWithCause(err, "starting container process")
	}
	c.initProcessPid = parent.pid()
	c.nsPaths = parent.namespacePaths
	c.status = Running
	c.monitored = true
	if err := c.updateState(); err != nil {
		// the process runs but its record does not say so; another
		// runtime could tear the container down underneath it, so
		// undo the start instead
		parent.terminate()
		c.initProcessPid = 0
		c.nsPaths = nil
		c.status = Created
		c.monitored = false
		return newSystemError(err)
	}
	go c.monitor(parent)
	logrus.Debugf("container %s: running with pid %d", c.id, parent.pid())
	return nil
}

// monitor reaps the init process and records its exit. The container
// must end up Stopped even when the wait itself fails.
func (c *linuxContainer) monitor(parent *initProcess) {
	exitCode := parent.wait()
	c.m.Lock()
	c.status = Stopped
	c.exitCode = &exitCode
	if !c.destroyed {
		if err := c.updateState(); err != nil {
			logrus.Warnf("container %s: recording exit status: %v", c.id, err)
		}
	}
	close(c.waitCh)
	c.m.Unlock()
	logrus.Debugf("container %s: exited with status %d", c.id, exitCode)
}

func (c *linuxContainer) Signal(sig os.Signal) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.initProcessPid == 0 {
		return newGenericError(fmt.Errorf("container has no process to signal"), InvalidState)
	}
	status, err := c.currentStatus()
	if err != nil {
		return err
	}
	// an exited process is no failure for the signaler, and its pid
	// must not be reused as a target
	if status == Stopped {
		return nil
	}
	s, ok := sig.(unix.Signal)
	if !ok {
		return newGenericError(fmt.Errorf("unsupported signal %v", sig), ConfigInvalid)
	}
	if err := unix.Kill(c.initProcessPid, s); err != nil {
		if err == unix.ESRCH {
			return nil
		}
		return newSystemErrorWithCause(err, "signaling init process")
	}
	return nil
}

func (c *linuxContainer) Wait() (int, error) {
	c.m.Lock()
	status, err := c.currentStatus()
	if err != nil {
		c.m.Unlock()
		return -1, err
	}
	if status == Stopped {
		defer c.m.Unlock()
		if c.exitCode == nil {
			return -1, newGenericError(fmt.Errorf("exit status was not observed by this process"), InvalidState)
		}
		return *c.exitCode, nil
	}
	if status == Running && !c.monitored {
		c.m.Unlock()
		return -1, newGenericError(fmt.Errorf("container was started by another process, its exit cannot be awaited here"), InvalidState)
	}
	ch := c.waitCh
	c.m.Unlock()

	<-ch

	c.m.Lock()
	defer c.m.Unlock()
	if c.exitCode == nil {
		return -1, newSystemError(fmt.Errorf("exit status was not recorded"))
	}
	return *c.exitCode, nil
}

func (c *linuxContainer) Processes() ([]int, error) {
	c.m.Lock()
	defer c.m.Unlock()
	status, err := c.currentStatus()
	if err != nil {
		return nil, err
	}
	if status != Running {
		return nil, newGenericError(fmt.Errorf("container is %s, it has no processes", status), InvalidState)
	}
	if c.cgroup == nil {
		// without a cgroup only the init process is tracked
		return []int{c.initProcessPid}, nil
	}
	pids, err := c.cgroup.GetPids()
	if err != nil {
		return nil, newSystemErrorWithCause(err, "getting container pids")
	}
	return pids, nil
}

func (c *linuxContainer) Stats() (*Stats, error) {
	c.m.Lock()
	defer c.m.Unlock()
	stats := &Stats{CgroupStats: cgroups.NewStats()}
	if c.cgroup == nil {
		return stats, nil
	}
	var err error
	if stats.CgroupStats, err = c.cgroup.GetStats(); err != nil {
		return stats, newSystemErrorWithCause(err, "getting container stats")
	}
	return stats, nil
}

func (c *linuxContainer) Destroy() error {
	c.m.Lock()
	defer c.m.Unlock()
	status, err := c.currentStatus()
	if err != nil {
		return err
	}
	if status == Running {
		return newGenericError(fmt.Errorf("container is running, it must be stopped before it can be destroyed"), InvalidState)
	}
	if err := c.teardown(); err != nil {
		return newSystemErrorWithCause(err, "destroying container")
	}
	c.destroyed = true
	c.factory.removeContainer(c.id)
	logrus.Debugf("container %s: destroyed", c.id)
	return nil
}

// teardown releases the container's kernel resources in reverse order
// of their creation. Removal of the state directory is best-effort; a
// stray busy file must not make a container undeletable.
func (c *linuxContainer) teardown() error {
	var firstErr error
	if c.cgroup != nil {
		if err := c.cgroup.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.rootfs != nil {
		if err := c.rootfs.Cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := os.RemoveAll(c.root); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("container %s: removing state directory: %v", c.id, err)
	}
	return firstErr
}

func (c *linuxContainer) updateState() error {
	state, err := c.currentState()
	if err != nil {
		return err
	}
	return utils.WriteJSON(filepath.Join(c.root, stateFilename), state)
}

// currentStatus probes the init process so that an exit observed by no
// monitor is still reported. Callers must hold c.m.
func (c *linuxContainer) currentStatus() (Status, error) {
	if c.status == Running {
		if err := unix.Kill(c.initProcessPid, 0); err == unix.ESRCH {
			c.status = Stopped
		}
	}
	return c.status, nil
}

func (c *linuxContainer) currentState() (*State, error) {
	status, err := c.currentStatus()
	if err != nil {
		return nil, err
	}
	state := &State{
		ID:             c.id,
		Status:         status,
		Bundle:         c.bundle,
		Created:        c.created,
		InitProcessPid: c.initProcessPid,
		ExitCode:       c.exitCode,
		Config:         *c.config,
		Rootfs:         c.rootfs,
		NamespacePaths: c.nsPaths,
	}
	if c.cgroup != nil {
		state.CgroupPath = c.cgroup.Path()
	}
	return state, nil
}
