package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/urfave/cli"
	"golang.org/x/sys/unix"

	"github.com/libcell/libcell"
)

// loadFactory returns the container factory rooted at the global
// --root directory.
func loadFactory(context *cli.Context) (libcell.Factory, error) {
	root, err := filepath.Abs(context.GlobalString("root"))
	if err != nil {
		return nil, err
	}
	return libcell.New(root)
}

// getContainer loads the container named by the command's first
// argument.
func getContainer(context *cli.Context) (libcell.Container, error) {
	id := context.Args().First()
	if id == "" {
		return nil, fmt.Errorf("%s requires a container id", context.Command.Name)
	}
	factory, err := loadFactory(context)
	if err != nil {
		return nil, err
	}
	return factory.Load(id)
}

// newProcess converts the bundle's process description into the
// process the container will run.
func newProcess(p *specs.Process) *libcell.Process {
	process := &libcell.Process{
		Args:     p.Args,
		Env:      p.Env,
		Cwd:      p.Cwd,
		Uid:      int(p.User.UID),
		Gid:      int(p.User.GID),
		Terminal: p.Terminal,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
	for _, g := range p.User.AdditionalGids {
		process.AdditionalGroups = append(process.AdditionalGroups, int(g))
	}
	return process
}

// parseSignal accepts a number or a name, with or without the SIG
// prefix.
func parseSignal(rawSignal string) (unix.Signal, error) {
	if n, err := strconv.Atoi(rawSignal); err == nil {
		return unix.Signal(n), nil
	}
	name := strings.ToUpper(rawSignal)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	signal := unix.SignalNum(name)
	if signal == 0 {
		return 0, fmt.Errorf("unknown signal %q", rawSignal)
	}
	return signal, nil
}

// fatal prints the error's details if it is a libcell specific error
// type then exits the program with an exit status of 1.
func fatal(err error) {
	if lerr, ok := err.(libcell.Error); ok {
		lerr.Detail(os.Stderr)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func fatalf(t string, v ...interface{}) {
	fatal(fmt.Errorf(t, v...))
}
