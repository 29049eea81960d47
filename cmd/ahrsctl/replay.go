package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tracktum/ahrs-engine/ahrs"
	"github.com/tracktum/ahrs-engine/config"
	"github.com/tracktum/ahrs-engine/engine"
	"github.com/tracktum/ahrs-engine/simharness"
)

func newReplayCmd(log zerolog.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "replay <flight-log.csv>",
		Short: "Replay a recorded flight log through the engine and print the final attitude",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ahrs.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			samples, err := simharness.LoadCSV(args[0])
			if err != nil {
				return err
			}

			sensors := &simharness.ReplaySensors{}
			eng := engine.New(cfg, engine.Options{
				Sensors: sensors,
				GPS:     simharness.StaticGPS{},
				Modes:   simharness.StaticModes{},
				Armed:   simharness.AlwaysArmed{},
				Sticks:  simharness.NeutralSticks{},
			})
			h := &simharness.Harness{Engine: eng, Sensors: sensors, Log: log}

			h.RunReplay(samples)
			fmt.Println(h.DescribeFinal())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (defaults applied for anything omitted)")
	return cmd
}
