package main

import (
	"github.com/urfave/cli"
)

var killCommand = cli.Command{
	Name:      "kill",
	Usage:     "send a signal to the container's init process",
	ArgsUsage: "<id> [signal]",
	Action: func(context *cli.Context) error {
		container, err := getContainer(context)
		if err != nil {
			fatal(err)
		}
		sigstr := context.Args().Get(1)
		if sigstr == "" {
			sigstr = "SIGTERM"
		}
		signal, err := parseSignal(sigstr)
		if err != nil {
			fatal(err)
		}
		if err := container.Signal(signal); err != nil {
			fatal(err)
		}
		return nil
	},
}
