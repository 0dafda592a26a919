package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/libcell/libcell/configs"
)

type Validator interface {
	Validate(*configs.Config) error
}

func New() Validator {
	return &ConfigValidator{}
}

type ConfigValidator struct {
}

// Validate checks that a converted config is internally consistent and
// supportable on the running kernel before any container state is
// created from it.
func (v *ConfigValidator) Validate(config *configs.Config) error {
	checks := []func(*configs.Config) error{
		v.rootfs,
		v.hostname,
		v.mounts,
		v.namespaces,
		v.usernamespace,
		v.timens,
		v.procMount,
	}
	for _, c := range checks {
		if err := c(config); err != nil {
			return err
		}
	}
	return nil
}

// rootfs validates that the rootfs is an absolute path, free of symlink
// trickery in its final component.
func (v *ConfigValidator) rootfs(config *configs.Config) error {
	if config.Rootfs == "" {
		return fmt.Errorf("rootfs must be specified")
	}
	cleaned, err := filepath.Abs(config.Rootfs)
	if err != nil {
		return err
	}
	if cleaned, err = filepath.EvalSymlinks(cleaned); err != nil {
		// the rootfs not existing yet is the factory's problem, not a
		// config shape problem
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if filepath.Clean(config.Rootfs) != cleaned {
		return fmt.Errorf("%s is not an absolute path or is a symlink", config.Rootfs)
	}
	return nil
}

func (v *ConfigValidator) hostname(config *configs.Config) error {
	if config.Hostname != "" && !config.Namespaces.Contains(configs.NEWUTS) {
		return fmt.Errorf("unable to set hostname without a private UTS namespace")
	}
	return nil
}

func (v *ConfigValidator) mounts(config *configs.Config) error {
	for _, m := range config.Mounts {
		if !filepath.IsAbs(m.Destination) {
			return fmt.Errorf("invalid mount %+v: mount destination not absolute", m)
		}
	}
	return nil
}

func (v *ConfigValidator) namespaces(config *configs.Config) error {
	seen := make(map[configs.NamespaceType]bool)
	for _, ns := range config.Namespaces {
		if seen[ns.Type] {
			return fmt.Errorf("duplicate namespace %s", ns.Type)
		}
		seen[ns.Type] = true
		if ns.Path != "" && !filepath.IsAbs(ns.Path) {
			return fmt.Errorf("namespace path %s is not absolute", ns.Path)
		}
	}
	return nil
}

func (v *ConfigValidator) usernamespace(config *configs.Config) error {
	if config.Namespaces.Contains(configs.NEWUSER) {
		if _, err := os.Stat("/proc/self/ns/user"); os.IsNotExist(err) {
			return fmt.Errorf("user namespaces aren't enabled in the kernel")
		}
	}
	return nil
}

func (v *ConfigValidator) timens(config *configs.Config) error {
	if config.Namespaces.Contains(configs.NEWTIME) {
		if _, err := os.Stat("/proc/self/ns/time"); os.IsNotExist(err) {
			return fmt.Errorf("time namespaces aren't enabled in the kernel")
		}
	}
	return nil
}

// procMount requires /proc to be mounted fresh when the container gets
// its own mount namespace, so that the view inside matches the pid
// namespace. Joining an existing mount namespace is exempt.
func (v *ConfigValidator) procMount(config *configs.Config) error {
	if !config.Namespaces.Contains(configs.NEWNS) {
		return nil
	}
	if config.Namespaces.PathOf(configs.NEWNS) != "" {
		return nil
	}
	for _, m := range config.Mounts {
		if m.Destination == "/proc" {
			return nil
		}
	}
	return fmt.Errorf("config requires a new mount namespace but does not mount /proc")
}
