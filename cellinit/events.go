package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/libcell/libcell"
)

// event struct for encoding the event data to json.
type event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

var eventsCommand = cli.Command{
	Name:      "events",
	Usage:     "display container resource usage at a fixed interval",
	ArgsUsage: "<id>",
	Flags: []cli.Flag{
		cli.DurationFlag{Name: "interval", Value: 5 * time.Second, Usage: "time between each stats sample"},
		cli.BoolFlag{Name: "human", Usage: "print a readable summary instead of json"},
	},
	Action: func(context *cli.Context) error {
		container, err := getContainer(context)
		if err != nil {
			fatal(err)
		}
		enc := json.NewEncoder(os.Stdout)
		for range time.Tick(context.Duration("interval")) {
			status, err := container.Status()
			if err != nil {
				fatal(err)
			}
			if status != libcell.Running {
				return nil
			}
			stats, err := container.Stats()
			if err != nil {
				logrus.Error(err)
				continue
			}
			if context.Bool("human") {
				cg := stats.CgroupStats
				fmt.Printf("cpu: %s\tmemory: %s (peak %s)\tpids: %d\n",
					time.Duration(cg.CpuStats.TotalUsage),
					units.BytesSize(float64(cg.MemoryStats.Usage)),
					units.BytesSize(float64(cg.MemoryStats.Peak)),
					cg.PidsStats.Current)
				continue
			}
			if err := enc.Encode(&event{Type: "stats", Data: stats}); err != nil {
				logrus.Error(err)
			}
		}
		return nil
	},
}
