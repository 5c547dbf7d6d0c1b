// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package signalk

import (
	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

const (
	PathHeadingMagnetic = "navigation.headingMagnetic"
	PathAttitude        = "navigation.attitude"
	PathRateOfTurn      = "navigation.rateOfTurn"
	PathGyroRoll        = "navigation.gyro.roll"
	PathGyroPitch       = "navigation.gyro.pitch"
	PathGyroYaw         = "navigation.gyro.yaw"
	PathTemperature     = "environment.inside.temperature"
	PathPressure        = "environment.inside.pressure"
)

// MotionValues lists the values of a motion tick. Angles and rates stay in
// radians.
func MotionValues(s orientation.Snapshot) []Value {
	return []Value{
		{Path: PathHeadingMagnetic, Value: s.Heading},
		{Path: PathAttitude, Value: Attitude{
			Roll:  s.Attitude.Roll,
			Pitch: s.Attitude.Pitch,
			Yaw:   s.Attitude.Yaw,
		}},
		{Path: PathRateOfTurn, Value: s.Rate.Z},
		{Path: PathGyroRoll, Value: s.Rate.X},
		{Path: PathGyroPitch, Value: s.Rate.Y},
		{Path: PathGyroYaw, Value: s.Rate.Z},
	}
}

// EnvironmentValues lists the values of an environment tick in SI units.
func EnvironmentValues(e orientation.Environment) []Value {
	return []Value{
		{Path: PathTemperature, Value: units.CelsiusToKelvin(e.Temperature)},
		{Path: PathPressure, Value: units.HPaToPa(e.Pressure)},
	}
}
