package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"
)

var stateCommand = cli.Command{
	Name:      "state",
	Usage:     "output the state of a container as json",
	ArgsUsage: "<id>",
	Action: func(context *cli.Context) error {
		container, err := getContainer(context)
		if err != nil {
			fatal(err)
		}
		state, err := container.OCIState()
		if err != nil {
			fatal(err)
		}
		data, err := json.MarshalIndent(state, "", "\t")
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s\n", data)
		return nil
	},
}

var listCommand = cli.Command{
	Name:  "list",
	Usage: "list the containers under the runtime's root",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "quiet, q", Usage: "display only container ids"},
	},
	Action: func(context *cli.Context) error {
		factory, err := loadFactory(context)
		if err != nil {
			fatal(err)
		}
		states, err := factory.List()
		if err != nil {
			fatal(err)
		}
		if context.Bool("quiet") {
			for _, s := range states {
				fmt.Println(s.ID)
			}
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 12, 1, 3, ' ', 0)
		fmt.Fprint(w, "ID\tSTATUS\tPID\tBUNDLE\tCREATED\n")
		for _, s := range states {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				s.ID, s.Status, s.InitProcessPid, s.Bundle, s.Created.Format(time.RFC3339))
		}
		return w.Flush()
	},
}
