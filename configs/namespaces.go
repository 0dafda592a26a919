package configs

import "fmt"

type NamespaceType string

const (
	NEWNS     NamespaceType = "NEWNS"
	NEWPID    NamespaceType = "NEWPID"
	NEWNET    NamespaceType = "NEWNET"
	NEWIPC    NamespaceType = "NEWIPC"
	NEWUTS    NamespaceType = "NEWUTS"
	NEWUSER   NamespaceType = "NEWUSER"
	NEWCGROUP NamespaceType = "NEWCGROUP"
	NEWTIME   NamespaceType = "NEWTIME"
)

// NamespaceTypes returns all the namespace types the runtime knows about.
func NamespaceTypes() []NamespaceType {
	return []NamespaceType{
		NEWUSER,
		NEWIPC,
		NEWUTS,
		NEWNET,
		NEWPID,
		NEWNS,
		NEWCGROUP,
		NEWTIME,
	}
}

// Namespace describes one namespace membership for the container. If
// Path is empty a new namespace of the given type is created, otherwise
// the existing namespace at Path is joined.
type Namespace struct {
	Type NamespaceType `json:"type"`
	Path string        `json:"path,omitempty"`
}

// ProcFile returns the name of the namespace file under /proc/<pid>/ns.
func (n *Namespace) ProcFile() string {
	file := map[NamespaceType]string{
		NEWNS:     "mnt",
		NEWPID:    "pid",
		NEWNET:    "net",
		NEWIPC:    "ipc",
		NEWUTS:    "uts",
		NEWUSER:   "user",
		NEWCGROUP: "cgroup",
		NEWTIME:   "time",
	}[n.Type]
	if file == "" {
		panic(fmt.Sprintf("namespace type %q is not supported", n.Type))
	}
	return file
}

type Namespaces []Namespace

func (n *Namespaces) Remove(t NamespaceType) bool {
	i := n.index(t)
	if i == -1 {
		return false
	}
	*n = append((*n)[:i], (*n)[i+1:]...)
	return true
}

func (n *Namespaces) Add(t NamespaceType, path string) {
	i := n.index(t)
	if i == -1 {
		*n = append(*n, Namespace{Type: t, Path: path})
		return
	}
	(*n)[i].Path = path
}

func (n *Namespaces) index(t NamespaceType) int {
	for i, ns := range *n {
		if ns.Type == t {
			return i
		}
	}
	return -1
}

func (n *Namespaces) Contains(t NamespaceType) bool {
	return n.index(t) != -1
}

// PathOf returns the join path configured for the given type, or the
// empty string when the namespace is to be created fresh.
func (n *Namespaces) PathOf(t NamespaceType) string {
	i := n.index(t)
	if i == -1 {
		return ""
	}
	return (*n)[i].Path
}
