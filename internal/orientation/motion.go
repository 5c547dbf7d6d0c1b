// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/stats"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

// Motion is the per-tick state of the motion channel: smoothed pose, rates
// and a heading derived from the pose's yaw.
type Motion struct {
	Pose    *PoseStats
	Rate    *RateStats
	Heading *stats.CircularStats

	deviation float64 // rad
}

// MotionWindows sizes the accumulators of a Motion.
type MotionWindows struct {
	Pose    int
	Rate    int
	Heading int
}

// NewMotion creates the motion channel. deviation is the magnetic
// deviation in radians.
func NewMotion(w MotionWindows, deviation float64) *Motion {
	return &Motion{
		Pose:      NewPoseStats(w.Pose),
		Rate:      NewRateStats(w.Rate),
		Heading:   stats.NewCircularStats(w.Heading, "heading"),
		deviation: deviation,
	}
}

// Snapshot is what a motion tick publishes.
type Snapshot struct {
	Attitude     Pose     `json:"attitude"`
	Rate         imu.Vec3 `json:"rate"`
	Heading      float64  `json:"heading"`       // rad, [0, 2π)
	HeadingStdev float64  `json:"heading_stdev"` // dispersion of the heading window
}

// Update feeds one reading into the accumulators, re-derives the heading
// and returns the smoothed values.
func (m *Motion) Update(r imu.Reading) Snapshot {
	m.Pose.Set(r.Pose)
	m.Rate.Set(r.Gyro)
	m.Heading.Set(stats.HeadingFromYaw(m.Pose.Yaw, m.deviation))
	return m.Snapshot()
}

// Snapshot returns the current smoothed values without updating.
func (m *Motion) Snapshot() Snapshot {
	return Snapshot{
		Attitude:     m.Pose.Mean(),
		Rate:         m.Rate.Mean(),
		Heading:      units.Normalize2Pi(m.Heading.Mean()),
		HeadingStdev: m.Heading.Stdev(),
	}
}

// Deviation returns the configured magnetic deviation in radians.
func (m *Motion) Deviation() float64 { return m.deviation }
