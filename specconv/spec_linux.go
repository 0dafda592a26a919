//go:build linux

// Package specconv converts an OCI runtime spec bundle into the
// runtime's own container configuration.
package specconv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/libcell/libcell/configs"
	"github.com/libcell/libcell/utils"
)

var namespaceMapping = map[specs.LinuxNamespaceType]configs.NamespaceType{
	specs.PIDNamespace:     configs.NEWPID,
	specs.NetworkNamespace: configs.NEWNET,
	specs.MountNamespace:   configs.NEWNS,
	specs.IPCNamespace:     configs.NEWIPC,
	specs.UTSNamespace:     configs.NEWUTS,
	specs.UserNamespace:    configs.NEWUSER,
	specs.CgroupNamespace:  configs.NEWCGROUP,
	specs.TimeNamespace:    configs.NEWTIME,
}

// LoadSpec loads and shape-checks the configuration file of the bundle
// at bundlePath. Every required section must be present; nothing is
// silently defaulted.
func LoadSpec(bundlePath string) (*specs.Spec, error) {
	cf, err := os.Open(filepath.Join(bundlePath, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("bundle %s has no config.json", bundlePath)
		}
		return nil, err
	}
	defer cf.Close()

	var spec specs.Spec
	if err := json.NewDecoder(cf).Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse config.json: %w", err)
	}
	if err := checkSpec(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func checkSpec(spec *specs.Spec) error {
	if spec.Version == "" {
		return errors.New("spec version cannot be empty")
	}
	if spec.Root == nil {
		return errors.New("spec has no root section")
	}
	if spec.Root.Path == "" {
		return errors.New("root path cannot be empty")
	}
	if spec.Process == nil {
		return errors.New("spec has no process section")
	}
	if len(spec.Process.Args) == 0 {
		return errors.New("process arguments cannot be empty")
	}
	return nil
}

// CreateOpts carries the inputs for converting a loaded spec.
type CreateOpts struct {
	// CgroupName is the container id, used to derive the default
	// cgroup path.
	CgroupName string

	// Bundle is the directory relative root paths are resolved
	// against.
	Bundle string

	// Spec is the loaded bundle configuration.
	Spec *specs.Spec
}

// CreateConfig produces the runtime configuration for a container from
// its bundle spec.
func CreateConfig(opts *CreateOpts) (*configs.Config, error) {
	spec := opts.Spec

	rootfsPath := spec.Root.Path
	if !filepath.IsAbs(rootfsPath) {
		rootfsPath = filepath.Join(opts.Bundle, rootfsPath)
	}

	config := &configs.Config{
		Version:     spec.Version,
		Rootfs:      filepath.Clean(rootfsPath),
		Readonlyfs:  spec.Root.Readonly,
		Hostname:    spec.Hostname,
		Annotations: spec.Annotations,
	}

	for _, m := range spec.Mounts {
		config.Mounts = append(config.Mounts, &configs.Mount{
			Source:      m.Source,
			Destination: m.Destination,
			Device:      m.Type,
			Options:     m.Options,
		})
	}

	if spec.Linux != nil {
		for _, ns := range spec.Linux.Namespaces {
			t, exists := namespaceMapping[ns.Type]
			if !exists {
				return nil, fmt.Errorf("namespace %q does not exist", ns.Type)
			}
			if config.Namespaces.Contains(t) {
				return nil, fmt.Errorf("malformed spec file: duplicated namespace %q", ns.Type)
			}
			config.Namespaces.Add(t, ns.Path)
		}
	}

	// a fresh network namespace starts with nothing, bring up loopback
	// so the container is not completely deaf
	if config.Namespaces.Contains(configs.NEWNET) && config.Namespaces.PathOf(configs.NEWNET) == "" {
		config.Networks = []*configs.Network{
			{Type: "loopback"},
		}
	}

	c, err := createCgroupConfig(opts)
	if err != nil {
		return nil, err
	}
	config.Cgroups = c

	return config, nil
}

func createCgroupConfig(opts *CreateOpts) (*configs.Cgroup, error) {
	spec := opts.Spec

	c := &configs.Cgroup{
		Resources: &configs.Resources{},
	}
	if spec.Linux != nil && spec.Linux.CgroupsPath != "" {
		c.Path = filepath.Join("/", utils.CleanPath(spec.Linux.CgroupsPath))
	} else {
		c.Path = filepath.Join("/libcell", opts.CgroupName)
	}

	if spec.Linux == nil || spec.Linux.Resources == nil {
		return c, nil
	}
	r := spec.Linux.Resources
	if r.CPU != nil {
		if r.CPU.Shares != nil {
			c.Resources.CpuShares = *r.CPU.Shares
		}
		if r.CPU.Quota != nil {
			c.Resources.CpuQuota = *r.CPU.Quota
		}
		if r.CPU.Period != nil {
			c.Resources.CpuPeriod = *r.CPU.Period
		}
	}
	if r.Memory != nil {
		if r.Memory.Limit != nil {
			c.Resources.Memory = *r.Memory.Limit
		}
		if r.Memory.Swap != nil {
			c.Resources.MemorySwap = *r.Memory.Swap
		}
	}
	if r.BlockIO != nil && r.BlockIO.Weight != nil {
		c.Resources.BlkioWeight = *r.BlockIO.Weight
	}
	if r.Pids != nil {
		c.Resources.PidsLimit = r.Pids.Limit
	}
	return c, nil
}

// HasResources reports whether the spec declares any resource limits,
// so callers can skip cgroup creation entirely for unlimited
// containers.
func HasResources(spec *specs.Spec) bool {
	if spec.Linux == nil || spec.Linux.Resources == nil {
		return false
	}
	r := spec.Linux.Resources
	return r.CPU != nil || r.Memory != nil || r.BlockIO != nil || r.Pids != nil
}
