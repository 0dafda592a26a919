package main

import (
	"os"

	"github.com/urfave/cli"
)

var createCommand = cli.Command{
	Name:      "create",
	Usage:     "create a container from a bundle directory",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "bundle, b", Value: "", Usage: "path to the bundle directory, defaults to the current directory"},
	},
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			fatalf("create requires a container id")
		}
		factory, err := loadFactory(context)
		if err != nil {
			fatal(err)
		}
		bundle := context.String("bundle")
		if bundle == "" {
			if bundle, err = os.Getwd(); err != nil {
				fatal(err)
			}
		}
		if _, err := factory.Create(id, bundle); err != nil {
			fatal(err)
		}
		return nil
	},
}
