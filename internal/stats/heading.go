// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stats

import "math"

// HeadingFromYaw turns the yaw statistic of a pose into a heading, in
// radians, corrected by the magnetic deviation.
//
// The quadrant correction keys off the last raw yaw, not the mean, and the
// result is wrapped once in each direction.
func HeadingFromYaw(yaw *CircularStats, deviation float64) float64 {
	h := yaw.Mean() - deviation
	if yaw.Last() < math.Pi/2 {
		h += 1.5 * math.Pi
	} else {
		h -= math.Pi / 2
	}
	if h < 0 {
		h += 2 * math.Pi
	}
	if h > 2*math.Pi {
		h -= 2 * math.Pi
	}
	return h
}
