package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "cellinit"
	app.Usage = "standalone container runtime"
	app.Version = "1"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "root", Value: "/run/libcell", Usage: "root directory for container state"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug output in the logs"},
		cli.StringFlag{Name: "log-file", Value: "", Usage: "write logs to this file instead of stderr"},
	}
	app.Commands = []cli.Command{
		createCommand,
		startCommand,
		runCommand,
		killCommand,
		deleteCommand,
		stateCommand,
		listCommand,
		eventsCommand,
		initCommand,
	}
	app.Before = func(context *cli.Context) error {
		if context.GlobalBool("debug") {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if path := context.GlobalString("log-file"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			logrus.SetOutput(f)
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
