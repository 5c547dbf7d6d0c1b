// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/stats"
)

// PoseStats smooths a pose. Yaw wraps, so it is averaged on the circle.
type PoseStats struct {
	Roll  *stats.RunningStats
	Pitch *stats.RunningStats
	Yaw   *stats.CircularStats
}

// NewPoseStats creates pose accumulators of window samples each.
func NewPoseStats(window int) *PoseStats {
	return &PoseStats{
		Roll:  stats.NewRunningStats(window, "pose.roll"),
		Pitch: stats.NewRunningStats(window, "pose.pitch"),
		Yaw:   stats.NewCircularStats(window, "pose.yaw"),
	}
}

// Set adds a pose with x=roll, y=pitch, z=yaw.
func (p *PoseStats) Set(v imu.Vec3) {
	p.Roll.Set(v.X)
	p.Pitch.Set(v.Y)
	p.Yaw.Set(v.Z)
}

// Mean returns the smoothed pose. Yaw is in (-π, π].
func (p *PoseStats) Mean() Pose {
	return Pose{
		Roll:  p.Roll.Mean(),
		Pitch: p.Pitch.Mean(),
		Yaw:   p.Yaw.Mean(),
	}
}

// RateStats smooths gyro rates. Rate of turn does not wrap, so every axis
// uses a plain accumulator.
type RateStats struct {
	Roll  *stats.RunningStats
	Pitch *stats.RunningStats
	Yaw   *stats.RunningStats
}

// NewRateStats creates rate accumulators of window samples each.
func NewRateStats(window int) *RateStats {
	return &RateStats{
		Roll:  stats.NewRunningStats(window, "gyro.roll"),
		Pitch: stats.NewRunningStats(window, "gyro.pitch"),
		Yaw:   stats.NewRunningStats(window, "gyro.yaw"),
	}
}

// Set adds one gyro sample in rad/s.
func (r *RateStats) Set(v imu.Vec3) {
	r.Roll.Set(v.X)
	r.Pitch.Set(v.Y)
	r.Yaw.Set(v.Z)
}

// Mean returns the smoothed rates.
func (r *RateStats) Mean() imu.Vec3 {
	return imu.Vec3{X: r.Roll.Mean(), Y: r.Pitch.Mean(), Z: r.Yaw.Mean()}
}

// EnvStats smooths temperature (°C) and pressure (hPa).
type EnvStats struct {
	Temperature *stats.RunningStats
	Pressure    *stats.RunningStats
}

// NewEnvStats creates temperature and pressure accumulators.
func NewEnvStats(window int) *EnvStats {
	return &EnvStats{
		Temperature: stats.NewRunningStats(window, "env.temperature"),
		Pressure:    stats.NewRunningStats(window, "env.pressure"),
	}
}

// Set adds the environment part of a reading.
func (e *EnvStats) Set(r imu.Reading) {
	e.Temperature.Set(r.Temperature)
	e.Pressure.Set(r.Pressure)
}

// Environment is a smoothed environment sample.
type Environment struct {
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // hPa
}

// Mean returns the smoothed environment.
func (e *EnvStats) Mean() Environment {
	return Environment{
		Temperature: e.Temperature.Mean(),
		Pressure:    e.Pressure.Mean(),
	}
}
