package main

import (
	"github.com/urfave/cli"

	"github.com/libcell/libcell/specconv"
)

var startCommand = cli.Command{
	Name:      "start",
	Usage:     "start the process inside a created container",
	ArgsUsage: "<id>",
	Action: func(context *cli.Context) error {
		container, err := getContainer(context)
		if err != nil {
			fatal(err)
		}
		state, err := container.State()
		if err != nil {
			fatal(err)
		}
		spec, err := specconv.LoadSpec(state.Bundle)
		if err != nil {
			fatal(err)
		}
		process := newProcess(spec.Process)
		// start detaches after the process is running, leaving no one
		// to drive a terminal
		process.Terminal = false
		if err := container.Start(process); err != nil {
			fatal(err)
		}
		return nil
	},
}
