// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/sim"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

// MockConsoleOptions configures RunMockConsole.
type MockConsoleOptions struct {
	Seed      uint64 // 0 seeds from the clock
	Period    time.Duration
	Deviation float64 // degrees, positive east
	Windows   orientation.MotionWindows
	EnvWindow int
}

// RunMockConsole runs the motion pipeline on a simulated IMU and prints
// every tick to out. No broker is needed.
func RunMockConsole(ctx context.Context, out io.Writer, opts MockConsoleOptions) error {
	if opts.Period <= 0 {
		return fmt.Errorf("period must be positive, got %s", opts.Period)
	}
	if opts.Windows.Pose < 1 || opts.Windows.Rate < 1 || opts.Windows.Heading < 1 || opts.EnvWindow < 1 {
		return fmt.Errorf("windows must be at least 1, got %+v, env %d", opts.Windows, opts.EnvWindow)
	}

	var rnd sim.Uniform
	if opts.Seed != 0 {
		rnd = sim.NewUniform(opts.Seed)
	}
	src := sim.NewIMU(rnd)
	motion := orientation.NewMotion(opts.Windows, units.DegToRad(opts.Deviation))
	env := orientation.NewEnvStats(opts.EnvWindow)

	ticker := time.NewTicker(opts.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r := src.Sample()
		snap := motion.Update(r)
		env.Set(r)

		if _, err := fmt.Fprintln(out, formatMockLine(snap, env.Mean())); err != nil {
			return err
		}
	}
}

func formatMockLine(s orientation.Snapshot, e orientation.Environment) string {
	return fmt.Sprintf(
		"HDG=%6.1f (±%.3f)  ROLL=%6.1f  PITCH=%6.1f  ROT=%7.1f°/min  T=%5.1f°C  P=%7.1fhPa",
		units.RadToDeg(s.Heading),
		s.HeadingStdev,
		units.RadToDeg(s.Attitude.Roll),
		units.RadToDeg(s.Attitude.Pitch),
		units.RadPerSecToDegPerMin(s.Rate.Z),
		e.Temperature,
		e.Pressure,
	)
}
