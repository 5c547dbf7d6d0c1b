// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/signalk_imu/internal/app"
	"github.com/relabs-tech/signalk_imu/internal/cmd"
)

func main() {
	var opts app.MockConsoleOptions

	root := &cobra.Command{
		Use:           "console",
		Short:         "run the motion pipeline on a simulated IMU (mock console)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return app.RunMockConsole(c.Context(), os.Stdout, opts)
		},
	}
	root.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed, 0 seeds from the clock")
	root.Flags().DurationVar(&opts.Period, "period", 100*time.Millisecond, "sampling period")
	root.Flags().Float64Var(&opts.Deviation, "deviation", 0, "magnetic deviation in degrees, positive east")
	root.Flags().IntVar(&opts.Windows.Pose, "pose-window", 5, "pose smoothing window")
	root.Flags().IntVar(&opts.Windows.Rate, "rate-window", 5, "rate smoothing window")
	root.Flags().IntVar(&opts.Windows.Heading, "heading-window", 30, "heading smoothing window")
	root.Flags().IntVar(&opts.EnvWindow, "env-window", 5, "temperature and pressure smoothing window")

	cmd.Execute(root)
}
