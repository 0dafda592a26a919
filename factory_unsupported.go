//go:build !linux

package libcell

import "errors"

// LinuxFactory is a placeholder off linux so that factory options keep
// their types; it is never instantiated here.
type LinuxFactory struct {
	Root     string
	InitPath string
	InitArgs []string
}

// New returns an error on hosts other than linux. The engine drives
// linux kernel facilities directly and has no backend for anything
// else.
func New(root string, options ...func(*LinuxFactory) error) (Factory, error) {
	return nil, newGenericError(errors.New("cannot create factory, this platform is not supported"), PlatformUnsupported)
}

// InitArgs is accepted for interface parity with the linux factory.
func InitArgs(args ...string) func(*LinuxFactory) error {
	return func(l *LinuxFactory) error {
		l.InitArgs = args
		return nil
	}
}
