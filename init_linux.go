//go:build linux

package libcell

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/configs"
	"github.com/libcell/libcell/mount"
	"github.com/libcell/libcell/namespaces"
	"github.com/libcell/libcell/network"
	"github.com/libcell/libcell/utils"
)

// initialize finishes container setup from inside the freshly cloned
// init process and replaces it with the user's command. It only
// returns on failure.
func initialize(config *initConfig) error {
	// namespaces configured with a path are joined here; the fresh
	// ones already came with the clone
	for _, ns := range config.Config.Namespaces {
		if ns.Path == "" {
			continue
		}
		if err := namespaces.Join(ns.Path, ns.Type); err != nil {
			return fmt.Errorf("joining %s namespace: %w", ns.Type, err)
		}
	}
	// a fresh time namespace cannot be requested on the clone; detach
	// into one here, the exec below moves us in
	if config.Config.Namespaces.Contains(configs.NEWTIME) && config.Config.Namespaces.PathOf(configs.NEWTIME) == "" {
		ctx, err := namespaces.Create([]configs.NamespaceType{configs.NEWTIME})
		if err != nil {
			return fmt.Errorf("creating time namespace: %w", err)
		}
		ctx.Release()
	}
	if err := network.Initialize(config.Config.Networks); err != nil {
		return fmt.Errorf("setting up network: %w", err)
	}
	if config.Config.Hostname != "" {
		if err := unix.Sethostname([]byte(config.Config.Hostname)); err != nil {
			return fmt.Errorf("setting hostname %s: %w", config.Config.Hostname, err)
		}
	}
	if err := setupRootfs(config); err != nil {
		return fmt.Errorf("setting up rootfs: %w", err)
	}
	return finalizeInit(config)
}

// setupRootfs moves init onto the prepared root filesystem. With a
// fresh mount namespace the switch is a full pivot; otherwise chroot
// is the best that can be done without touching the shared mount
// table.
func setupRootfs(config *initConfig) error {
	ns := config.Config.Namespaces
	freshMountNs := ns.Contains(configs.NEWNS) && ns.PathOf(configs.NEWNS) == ""
	if !freshMountNs || config.Config.NoPivotRoot {
		return mount.Chroot(config.Rootfs.MergedPath)
	}
	// keep mount events in the new namespace from leaking back into
	// the host table
	if err := mount.PrepareRoot(); err != nil {
		return err
	}
	if err := config.Rootfs.PivotRoot(); err != nil {
		return err
	}
	// the proc mounted during create reflects the creating process's
	// pid namespace; mount a fresh instance over it
	if err := unix.Mount("proc", "/proc", "proc", unix.MS_NOEXEC|unix.MS_NOSUID|unix.MS_NODEV, ""); err != nil {
		return fmt.Errorf("mounting proc: %w", err)
	}
	return nil
}

// finalizeInit drops to the configured credentials and execs the
// user's command. Group changes must land before the user change or
// they are no longer permitted.
func finalizeInit(config *initConfig) error {
	// nothing we still hold may leak across the exec, the sync pipe
	// included; closing it is what tells the parent setup succeeded
	if err := utils.CloseExecFrom(stdioFdCount); err != nil {
		return fmt.Errorf("closing inherited file descriptors: %w", err)
	}
	cwd := config.Cwd
	if cwd == "" {
		cwd = "/"
	}
	if err := unix.Chdir(cwd); err != nil {
		return fmt.Errorf("chdir to %s: %w", cwd, err)
	}
	if len(config.AdditionalGroups) > 0 {
		if err := unix.Setgroups(config.AdditionalGroups); err != nil {
			return fmt.Errorf("setgroups: %w", err)
		}
	}
	if err := unix.Setgid(config.Gid); err != nil {
		return fmt.Errorf("setgid: %w", err)
	}
	if err := unix.Setuid(config.Uid); err != nil {
		return fmt.Errorf("setuid: %w", err)
	}
	if err := replaceEnvironment(config.Env); err != nil {
		return err
	}
	name, err := exec.LookPath(config.Args[0])
	if err != nil {
		return err
	}
	return unix.Exec(name, config.Args, os.Environ())
}

// replaceEnvironment swaps the inherited environment for the
// container's own.
func replaceEnvironment(env []string) error {
	os.Clearenv()
	for _, pair := range env {
		p := strings.SplitN(pair, "=", 2)
		if len(p) < 2 {
			return fmt.Errorf("invalid environment variable %q", pair)
		}
		if err := os.Setenv(p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}
