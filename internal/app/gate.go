// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/signalk_imu/internal/imu"
)

// startupGate holds motion publishing back until the sensor reports a
// passing self test and full calibration. Passing results are cached so a
// ready sensor is only polled until it first reports ready.
type startupGate struct {
	reporter imu.StatusReporter

	systemOK   bool
	calibrated bool
}

// newStartupGate returns a gate for src. Sources that do not report status
// are always ready.
func newStartupGate(src imu.Source) *startupGate {
	g := &startupGate{}
	if r, ok := src.(imu.StatusReporter); ok {
		g.reporter = r
	}
	return g
}

// Ready reports whether motion may be published. A non-nil error means the
// sensor could not be queried; the caller skips the tick either way.
func (g *startupGate) Ready() (bool, error) {
	if g.reporter == nil {
		return true, nil
	}

	if !g.systemOK {
		st, err := g.reporter.SystemStatus()
		if err != nil {
			return false, fmt.Errorf("system status: %w", err)
		}
		if !st.OK() {
			return false, fmt.Errorf("system not ready: self-test %s, status %d, %s",
				st.SelfTestResult, st.SystemStatus, st.SystemError)
		}
		g.systemOK = true
	}

	if !g.calibrated {
		c, err := g.reporter.CalibrationStatus()
		if err != nil {
			return false, fmt.Errorf("calibration status: %w", err)
		}
		if !c.FullyCalibrated() {
			return false, fmt.Errorf("not calibrated: sys=%d gyro=%d accel=%d mag=%d",
				c.System, c.Gyro, c.Accel, c.Mag)
		}
		g.calibrated = true
	}

	return true, nil
}
