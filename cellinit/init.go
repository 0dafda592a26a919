package main

import (
	"runtime"

	"github.com/urfave/cli"

	"github.com/libcell/libcell"
)

var initCommand = cli.Command{
	Name:   "init",
	Usage:  "runs the init process inside the namespaces, not to be invoked by hand",
	Hidden: true,
	Action: func(context *cli.Context) error {
		runtime.GOMAXPROCS(1)
		runtime.LockOSThread()
		factory, err := libcell.New("")
		if err != nil {
			fatal(err)
		}
		if err := factory.StartInitialization(); err != nil {
			fatal(err)
		}
		panic("init: initialization returned instead of exec")
	},
}
