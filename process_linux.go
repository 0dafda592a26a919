//go:build linux

package libcell

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/configs"
	"github.com/libcell/libcell/mount"
	"github.com/libcell/libcell/namespaces"
	"github.com/libcell/libcell/syncpipe"
	"github.com/libcell/libcell/utils"
)

// number of stdio descriptors a process starts with, which is also the
// child side fd of the first file passed through ExtraFiles
const stdioFdCount = 3

// initPipeEnv tells the re-executed init which fd carries its
// configuration.
const initPipeEnv = "_LIBCELL_INITPIPE"

// initConfig is the payload shipped to the container's init over the
// sync pipe. It carries everything init needs to finish setting up the
// container from the inside.
type initConfig struct {
	Args             []string        `json:"args"`
	Env              []string        `json:"env"`
	Cwd              string          `json:"cwd"`
	Uid              int             `json:"uid"`
	Gid              int             `json:"gid"`
	AdditionalGroups []int           `json:"additional_groups,omitempty"`
	Config           *configs.Config `json:"config"`
	Rootfs           *mount.Rootfs   `json:"rootfs"`
}

// initProcess is the parent's handle on a container init process from
// the moment it is cloned until it has been handed the user's
// execution image.
type initProcess struct {
	cmd     *exec.Cmd
	pipe    *syncpipe.SyncPipe
	manager cgroups.Manager
	config  *initConfig

	// namespacePaths is recorded during start while the process is
	// parked on the pipe and certainly alive
	namespacePaths map[configs.NamespaceType]string
}

func (c *linuxContainer) newInitProcess(process *Process) (*initProcess, error) {
	pipe, err := syncpipe.New()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(c.initPath, c.initArgs[1:]...)
	cmd.Args[0] = c.initArgs[0]
	cmd.Stdin = process.Stdin
	cmd.Stdout = process.Stdout
	cmd.Stderr = process.Stderr
	cmd.Dir = c.rootfs.MergedPath
	cmd.ExtraFiles = []*os.File{pipe.Child()}
	cmd.Env = []string{fmt.Sprintf("%s=%d", initPipeEnv, stdioFdCount)}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: namespaces.CloneFlags(c.config.Namespaces),
	}
	// no parent death signal: the container must outlive the process
	// that created it
	if process.Terminal {
		// the caller wired stdio to a pty slave; make it the
		// controlling terminal on a fresh session
		cmd.SysProcAttr.Setsid = true
		cmd.SysProcAttr.Setctty = true
	}
	if c.config.Namespaces.Contains(configs.NEWUSER) && c.config.Namespaces.PathOf(configs.NEWUSER) == "" {
		// a fresh user namespace needs at least one mapping before
		// anything inside it can run
		cmd.SysProcAttr.UidMappings = []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getuid(), Size: 1}}
		cmd.SysProcAttr.GidMappings = []syscall.SysProcIDMap{{ContainerID: 0, HostID: os.Getgid(), Size: 1}}
	}
	return &initProcess{
		cmd:     cmd,
		pipe:    pipe,
		manager: c.cgroup,
		config: &initConfig{
			Args:             process.Args,
			Env:              process.Env,
			Cwd:              process.Cwd,
			Uid:              process.Uid,
			Gid:              process.Gid,
			AdditionalGroups: process.AdditionalGroups,
			Config:           c.config,
			Rootfs:           c.rootfs,
		},
	}, nil
}

func (p *initProcess) pid() int {
	return p.cmd.Process.Pid
}

// start launches the init process and walks it through setup: the
// process sits parked on the pipe until the parent has put it in its
// cgroup and recorded its namespaces, and the parent returns only once
// init reports setup complete by closing the pipe over its exec.
func (p *initProcess) start() (retErr error) {
	if err := p.cmd.Start(); err != nil {
		p.pipe.Close()
		return err
	}
	// the child end travels with the child; release our copy so its
	// exec produces our EOF
	p.pipe.CloseChild()
	defer func() {
		if retErr != nil {
			p.terminate()
			p.pipe.Close()
		}
	}()

	// into the cgroup before the child can exec so that not one tick
	// of the user's work happens outside the limits
	if p.manager != nil {
		if err := p.manager.Apply(p.pid()); err != nil {
			return fmt.Errorf("applying cgroup configuration: %w", err)
		}
	}

	ctx := namespaces.Open(p.pid(), configs.NamespaceTypes())
	p.namespacePaths = ctx.Paths()
	if err := ctx.Release(); err != nil {
		logrus.Warnf("releasing namespace handles: %v", err)
	}

	if err := p.pipe.SendToChild(p.config); err != nil {
		return fmt.Errorf("sending config to init process: %w", err)
	}
	if err := p.pipe.ErrorsFromChild(); err != nil {
		return err
	}
	p.pipe.Close()
	return nil
}

// wait blocks until the init process has been reaped and returns its
// exit code, 128+signal when it was killed by a signal.
func (p *initProcess) wait() int {
	err := p.cmd.Wait()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			// even a failed wait must resolve to an exit code so the
			// container does not stay running forever
			logrus.Warnf("waiting on init process: %v", err)
			return -1
		}
	}
	return utils.ExitStatus(unix.WaitStatus(p.cmd.ProcessState.Sys().(syscall.WaitStatus)))
}

// terminate kills the init process and reaps it. Used on the error
// paths of start where the child may be parked on the pipe.
func (p *initProcess) terminate() {
	if p.cmd.Process == nil {
		return
	}
	p.cmd.Process.Kill()
	p.cmd.Wait()
}
