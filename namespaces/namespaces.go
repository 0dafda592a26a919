//go:build linux

package namespaces

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/libcell/libcell/configs"
)

// namespaceInfo maps each namespace kind to its clone flag.
var namespaceInfo = map[configs.NamespaceType]int{
	configs.NEWNET:    unix.CLONE_NEWNET,
	configs.NEWNS:     unix.CLONE_NEWNS,
	configs.NEWUSER:   unix.CLONE_NEWUSER,
	configs.NEWIPC:    unix.CLONE_NEWIPC,
	configs.NEWUTS:    unix.CLONE_NEWUTS,
	configs.NEWPID:    unix.CLONE_NEWPID,
	configs.NEWCGROUP: unix.CLONE_NEWCGROUP,
	configs.NEWTIME:   unix.CLONE_NEWTIME,
}

// CloneFlags returns the bitmask to create the configured namespaces at
// process start. Namespaces with a join path are excluded, as is the
// time namespace: the kernel only creates those through unshare, so the
// container init unshares it after launch.
func CloneFlags(namespaces configs.Namespaces) uintptr {
	var flag int
	for _, ns := range namespaces {
		if ns.Path != "" {
			continue
		}
		if ns.Type == configs.NEWTIME {
			continue
		}
		flag |= namespaceInfo[ns.Type]
	}
	return uintptr(flag)
}

// Path builds the /proc path of a process's namespace file, rejecting
// kinds the runtime does not know.
func Path(pid int, t configs.NamespaceType) (string, error) {
	if _, known := namespaceInfo[t]; !known {
		return "", fmt.Errorf("unknown namespace kind %q", t)
	}
	ns := configs.Namespace{Type: t}
	return fmt.Sprintf("/proc/%d/ns/%s", pid, ns.ProcFile()), nil
}
