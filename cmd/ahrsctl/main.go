// Command ahrsctl is a development/replay harness for the AHRS engine:
// it is not the flight controller's own configurator CLI, just a way
// to drive the engine from a recorded flight log or a canned scenario
// while developing it.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ahrsctl",
		Short: "Replay and self-test harness for the AHRS engine",
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	root.AddCommand(newReplayCmd(log))
	root.AddCommand(newSelftestCmd(log))
	return root
}
