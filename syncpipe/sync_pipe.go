//go:build linux

package syncpipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// SyncPipe allows communication to and from the child process to its
// parent and allows the two independent processes to synchronize their
// state. The parent sends the serialized container setup down the pipe
// and the child answers with nothing on success or a serialized error
// on failure.
type SyncPipe struct {
	parent, child *os.File
}

// New creates a connected pipe pair for a parent about to launch its
// container init.
func New() (*SyncPipe, error) {
	fds, err := unix.Socketpair(unix.AF_LOCAL, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("create sync pipe: %w", err)
	}
	return &SyncPipe{
		parent: os.NewFile(uintptr(fds[1]), "parentPipe"),
		child:  os.NewFile(uintptr(fds[0]), "childPipe"),
	}, nil
}

// NewFromFd wraps an inherited pipe end, as seen from the child after
// the re-exec.
func NewFromFd(childFd uintptr) *SyncPipe {
	return &SyncPipe{
		child: os.NewFile(childFd, "childPipe"),
	}
}

func (s *SyncPipe) Child() *os.File {
	return s.child
}

func (s *SyncPipe) Parent() *os.File {
	return s.parent
}

// SendToChild serializes v down the pipe and closes the write
// direction so the child's read terminates.
func (s *SyncPipe) SendToChild(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := s.parent.Write(data); err != nil {
		return err
	}
	return unix.Shutdown(int(s.parent.Fd()), unix.SHUT_WR)
}

// ReadFromParent blocks until the parent has sent the complete setup
// payload and deserializes it into v.
func (s *SyncPipe) ReadFromParent(v interface{}) error {
	data, err := io.ReadAll(s.child)
	if err != nil {
		return fmt.Errorf("error reading from sync pipe: %w", err)
	}
	if len(data) == 0 {
		return errors.New("sync pipe closed before the setup payload arrived")
	}
	return json.Unmarshal(data, v)
}

// childError is the wire form of an init failure.
type childError struct {
	Message string `json:"message"`
}

// ReportChildError sends an init failure to the parent and closes the
// child's end of the pipe.
func (s *SyncPipe) ReportChildError(err error) {
	data, merr := json.Marshal(&childError{Message: err.Error()})
	if merr != nil {
		data = []byte(`{"message":"unserializable init error"}`)
	}
	s.child.Write(data)
	s.CloseChild()
}

// ErrorsFromChild blocks until the child either reports a failure or
// execs away, which closes its end of the pipe. A clean close means
// the init sequence succeeded.
func (s *SyncPipe) ErrorsFromChild() error {
	data, err := io.ReadAll(s.parent)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var ce childError
	if err := json.Unmarshal(data, &ce); err != nil {
		return fmt.Errorf("container init failed: %s", data)
	}
	return errors.New(ce.Message)
}

func (s *SyncPipe) Close() error {
	if s.parent != nil {
		s.parent.Close()
	}
	if s.child != nil {
		s.child.Close()
	}
	return nil
}

// CloseChild releases the child's end in the parent process once the
// child holds its own copy.
func (s *SyncPipe) CloseChild() {
	if s.child != nil {
		s.child.Close()
		s.child = nil
	}
}
