package libcell

import "io"

// Process specifies the process to be run inside a container.
type Process struct {
	// The command to be run followed by any arguments.
	Args []string

	// Env populates the process environment as a list of "key=value"
	// entries. It replaces the environment inherited from the caller.
	Env []string

	// Cwd is the working directory of the process, resolved inside the
	// container's root filesystem. It defaults to "/".
	Cwd string

	// Uid and Gid are the credentials the process is switched to after
	// the container environment has been prepared, before the group
	// list so that supplementary and primary groups are in place by the
	// time privileges are dropped.
	Uid int
	Gid int

	// AdditionalGroups lists supplementary group ids applied alongside
	// Gid.
	AdditionalGroups []int

	// Stdin is a reader which provides the standard input stream.
	// Stdout is a writer which receives the standard output stream.
	// Stderr is a writer which receives the standard error stream.
	//
	// If a reader or writer is nil, the stream is connected to the null
	// device.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Terminal, when true, runs the process with a controlling terminal
	// on its own session. The caller is expected to wire the standard
	// streams to a pty pair.
	Terminal bool
}
