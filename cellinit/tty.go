package main

import (
	"io"
	"os"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/libcell/libcell"
)

// tty handles the cli's terminal plumbing into the container's
// process.
type tty struct {
	master *os.File
	slave  *os.File
	state  *term.State
}

// newTty wires the process's stdio. When terminal is set a pty pair
// is opened: the slave end becomes the process's stdio and controlling
// terminal while the master end is proxied to the calling terminal,
// which is placed in raw mode until Close.
func newTty(terminal bool, process *libcell.Process) (*tty, error) {
	if !terminal {
		// inherit our own stdio directly
		process.Stdin = os.Stdin
		process.Stdout = os.Stdout
		process.Stderr = os.Stderr
		return &tty{}, nil
	}
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}
	process.Stdin = slave
	process.Stdout = slave
	process.Stderr = slave
	t := &tty{
		master: master,
		slave:  slave,
	}
	go io.Copy(master, os.Stdin)
	go io.Copy(os.Stdout, master)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			t.Close()
			return nil, err
		}
		t.state = state
	}
	if err := t.resize(); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// ClosePostStart releases the slave end once the container holds its
// own copy, so that the master sees EOF when the process exits.
func (t *tty) ClosePostStart() {
	if t.slave != nil {
		t.slave.Close()
		t.slave = nil
	}
}

func (t *tty) Close() error {
	t.ClosePostStart()
	if t.master != nil {
		t.master.Close()
		t.master = nil
	}
	if t.state != nil {
		term.Restore(int(os.Stdin.Fd()), t.state)
		t.state = nil
	}
	return nil
}

// resize copies the calling terminal's dimensions onto the pty.
func (t *tty) resize() error {
	if t.master == nil || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return pty.InheritSize(os.Stdin, t.master)
}
