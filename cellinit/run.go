package main

import (
	"errors"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/sys/unix"

	"github.com/libcell/libcell"
	"github.com/libcell/libcell/specconv"
)

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "create a container, run its process to completion, then delete it",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "bundle, b", Value: "", Usage: "path to the bundle directory, defaults to the current directory"},
		cli.BoolFlag{Name: "tty, t", Usage: "allocate a pty for the container"},
	},
	Action: func(context *cli.Context) error {
		status, err := runContainer(context)
		if err != nil {
			fatal(err)
		}
		os.Exit(status)
		return nil
	},
}

func runContainer(context *cli.Context) (int, error) {
	id := context.Args().First()
	if id == "" {
		return -1, errors.New("run requires a container id")
	}
	factory, err := loadFactory(context)
	if err != nil {
		return -1, err
	}
	bundle := context.String("bundle")
	if bundle == "" {
		if bundle, err = os.Getwd(); err != nil {
			return -1, err
		}
	}
	spec, err := specconv.LoadSpec(bundle)
	if err != nil {
		return -1, err
	}
	container, err := factory.Create(id, bundle)
	if err != nil {
		return -1, err
	}
	// run owns the whole lifecycle, so the container goes away with
	// its process
	defer func() {
		if err := container.Destroy(); err != nil {
			logrus.Error(err)
		}
	}()
	process := newProcess(spec.Process)
	if context.Bool("tty") {
		process.Terminal = true
	}
	tty, err := newTty(process.Terminal, process)
	if err != nil {
		return -1, err
	}
	defer tty.Close()
	go handleSignals(container, tty)
	if err := container.Start(process); err != nil {
		return -1, err
	}
	tty.ClosePostStart()
	return container.Wait()
}

// handleSignals forwards the signals a terminal session delivers to
// the container's init process and keeps the pty sized to our own
// terminal.
func handleSignals(container libcell.Container, tty *tty) {
	sigc := make(chan os.Signal, 10)
	signal.Notify(sigc, unix.SIGHUP, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM, unix.SIGWINCH)
	for sig := range sigc {
		if sig == unix.SIGWINCH {
			if err := tty.resize(); err != nil {
				logrus.Error(err)
			}
			continue
		}
		if err := container.Signal(sig); err != nil {
			logrus.Error(err)
		}
	}
}
