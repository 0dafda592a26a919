package main

import (
	"github.com/urfave/cli"
)

var deleteCommand = cli.Command{
	Name:      "delete",
	Usage:     "delete a stopped container and its on disk state",
	ArgsUsage: "<id>",
	Action: func(context *cli.Context) error {
		container, err := getContainer(context)
		if err != nil {
			fatal(err)
		}
		if err := container.Destroy(); err != nil {
			fatal(err)
		}
		return nil
	},
}
