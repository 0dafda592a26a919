//go:build linux

package libcell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"sync"
	"time"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"

	"github.com/libcell/libcell/cgroups"
	"github.com/libcell/libcell/cgroups/fs2"
	"github.com/libcell/libcell/configs/validate"
	"github.com/libcell/libcell/mount"
	"github.com/libcell/libcell/specconv"
	"github.com/libcell/libcell/syncpipe"
)

var idRegexp = regexp.MustCompile(`^[\w.-]+$`)

// LinuxFactory implements the default factory interface for linux
// based systems.
type LinuxFactory struct {
	// Root directory for the factory to store state.
	Root string

	// InitPath is the binary re-executed to perform container setup
	// from inside the new namespaces.
	InitPath string

	// InitArgs is the argument vector handed to InitPath.
	InitArgs []string

	// Validator provides validation to container configurations.
	Validator validate.Validator

	mu         sync.Mutex
	containers map[string]*linuxContainer
}

// New returns a linux based container factory with its state rooted at
// the given directory, configured with the provided options. The root
// directory is created if it does not exist.
func New(root string, options ...func(*LinuxFactory) error) (Factory, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o700); err != nil {
			return nil, newGenericError(err, SystemError)
		}
	}
	l := &LinuxFactory{
		Root:       root,
		InitPath:   "/proc/self/exe",
		InitArgs:   []string{os.Args[0], "init"},
		Validator:  validate.New(),
		containers: make(map[string]*linuxContainer),
	}
	for _, opt := range options {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// InitArgs returns an options func to configure a LinuxFactory with
// the provided init binary path and arguments.
func InitArgs(args ...string) func(*LinuxFactory) error {
	return func(l *LinuxFactory) (err error) {
		if len(args) > 0 {
			// resolve relative paths so the binary stays reachable
			// after directory changes
			if args[0], err = filepath.Abs(args[0]); err != nil {
				return newGenericError(err, ConfigInvalid)
			}
			l.InitPath = args[0]
			l.InitArgs = args
		}
		return nil
	}
}

func (l *LinuxFactory) Create(id, bundle string) (Container, error) {
	if l.Root == "" {
		return nil, newGenericError(fmt.Errorf("invalid root"), ConfigInvalid)
	}
	if !idRegexp.MatchString(id) {
		return nil, newGenericError(fmt.Errorf("invalid id format: %v", id), ConfigInvalid)
	}
	bundle, err := filepath.Abs(bundle)
	if err != nil {
		return nil, newGenericError(err, ConfigInvalid)
	}
	spec, err := specconv.LoadSpec(bundle)
	if err != nil {
		return nil, newGenericError(err, ConfigInvalid)
	}
	config, err := specconv.CreateConfig(&specconv.CreateOpts{
		CgroupName: id,
		Bundle:     bundle,
		Spec:       spec,
	})
	if err != nil {
		return nil, newGenericError(err, ConfigInvalid)
	}
	if err := l.Validator.Validate(config); err != nil {
		return nil, newGenericError(err, ConfigInvalid)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.containers[id]; ok {
		return nil, newGenericError(fmt.Errorf("container with id exists: %v", id), IdInUse)
	}
	containerRoot := filepath.Join(l.Root, id)
	if _, err := os.Stat(containerRoot); err == nil {
		return nil, newGenericError(fmt.Errorf("container with id exists: %v", id), IdInUse)
	} else if !os.IsNotExist(err) {
		return nil, newSystemError(err)
	}
	if err := os.MkdirAll(containerRoot, 0o711); err != nil {
		return nil, newSystemError(err)
	}

	c := &linuxContainer{
		id:       id,
		root:     containerRoot,
		bundle:   bundle,
		config:   config,
		initPath: l.InitPath,
		initArgs: l.InitArgs,
		factory:  l,
		status:   Creating,
		created:  time.Now().UTC(),
		waitCh:   make(chan struct{}),
	}
	return l.build(c, spec)
}

// build performs the kernel-facing half of Create. On any failure the
// completed sub-steps are rolled back so a caller may retry with the
// same id.
func (l *LinuxFactory) build(c *linuxContainer, spec *specs.Spec) (_ Container, retErr error) {
	defer func() {
		if retErr != nil {
			if err := c.teardown(); err != nil {
				logrus.Warnf("container %s: rolling back failed create: %v", c.id, err)
			}
		}
	}()

	logrus.Debugf("container %s: preparing rootfs from %s", c.id, c.config.Rootfs)
	rootfs, err := mount.PrepareRootfs(c.root, c.id, c.config.Rootfs, c.config.Readonlyfs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newGenericError(err, ConfigInvalid)
		}
		return nil, newSystemErrorWithCause(err, "preparing rootfs")
	}
	c.rootfs = rootfs

	if err := rootfs.MountFilesystems(c.config.Mounts); err != nil {
		return nil, newSystemErrorWithCause(err, "mounting filesystems")
	}

	if specconv.HasResources(spec) {
		if !cgroups.IsCgroup2UnifiedMode() {
			return nil, newSystemError(fmt.Errorf("resource limits require the cgroup v2 unified hierarchy at %s", cgroups.UnifiedMountpoint))
		}
		cm, err := fs2.NewManager(c.config.Cgroups, "")
		if err != nil {
			return nil, newSystemError(err)
		}
		if err := cm.Create(); err != nil {
			return nil, newSystemErrorWithCause(err, "creating cgroup")
		}
		c.cgroup = cm
		if err := cm.Set(c.config.Cgroups.Resources); err != nil {
			return nil, newSystemErrorWithCause(err, "applying resource limits")
		}
	}

	c.status = Created
	if err := c.updateState(); err != nil {
		return nil, newSystemError(err)
	}
	l.containers[c.id] = c
	logrus.Debugf("container %s: created", c.id)
	return c, nil
}

func (l *LinuxFactory) Load(id string) (Container, error) {
	if l.Root == "" {
		return nil, newGenericError(fmt.Errorf("invalid root"), ConfigInvalid)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.containers[id]; ok {
		return c, nil
	}
	containerRoot := filepath.Join(l.Root, id)
	state, err := l.loadState(containerRoot, id)
	if err != nil {
		return nil, err
	}
	c := &linuxContainer{
		id:             id,
		root:           containerRoot,
		bundle:         state.Bundle,
		config:         &state.Config,
		initPath:       l.InitPath,
		initArgs:       l.InitArgs,
		factory:        l,
		status:         state.Status,
		created:        state.Created,
		initProcessPid: state.InitProcessPid,
		exitCode:       state.ExitCode,
		rootfs:         state.Rootfs,
		nsPaths:        state.NamespacePaths,
		waitCh:         make(chan struct{}),
	}
	if state.CgroupPath != "" {
		cm, err := fs2.NewManager(state.Config.Cgroups, state.CgroupPath)
		if err != nil {
			return nil, newSystemError(err)
		}
		c.cgroup = cm
	}
	l.containers[id] = c
	return c, nil
}

func (l *LinuxFactory) List() ([]*State, error) {
	if l.Root == "" {
		return nil, newGenericError(fmt.Errorf("invalid root"), ConfigInvalid)
	}
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, newSystemError(err)
	}
	var states []*State
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		container, err := l.Load(entry.Name())
		if err != nil {
			// a directory without a state file is a container that
			// lost a race with create or delete, not a listing error
			if le, ok := err.(Error); ok && le.Code() == ContainerNotExists {
				continue
			}
			return nil, err
		}
		state, err := container.State()
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

// StartInitialization loads a container config from the init pipe and
// finishes setup from inside the container's namespaces. This is a low
// level implementation detail of the init re-exec and should not be
// consumed externally.
func (l *LinuxFactory) StartInitialization() (err error) {
	envPipe := os.Getenv(initPipeEnv)
	pipefd, err := strconv.Atoi(envPipe)
	if err != nil {
		return fmt.Errorf("unable to convert %s=%s to int: %w", initPipeEnv, envPipe, err)
	}
	pipe := syncpipe.NewFromFd(uintptr(pipefd))

	// if anything below fails the parent is parked on the pipe and has
	// to be told why
	defer func() {
		if err != nil {
			pipe.ReportChildError(err)
		}
	}()

	runtime.LockOSThread()

	var config *initConfig
	if err := pipe.ReadFromParent(&config); err != nil {
		return err
	}
	return initialize(config)
}

func (l *LinuxFactory) loadState(root, id string) (*State, error) {
	f, err := os.Open(filepath.Join(root, stateFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newGenericError(fmt.Errorf("container %q does not exist", id), ContainerNotExists)
		}
		return nil, newSystemError(err)
	}
	defer f.Close()
	var state *State
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return nil, newSystemError(err)
	}
	return state, nil
}

func (l *LinuxFactory) removeContainer(id string) {
	l.mu.Lock()
	delete(l.containers, id)
	l.mu.Unlock()
}
