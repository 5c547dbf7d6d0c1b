// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stats

import "math"

// CircularStats averages angles through their unit vectors so the window
// mean is correct across the 0/2π seam.
type CircularStats struct {
	last  float64
	cos   *RunningStats
	sin   *RunningStats
	label string
}

// NewCircularStats creates an angular accumulator holding the last capacity
// angles.
func NewCircularStats(capacity int, label string) *CircularStats {
	return &CircularStats{
		cos:   NewRunningStats(capacity, label+".cos"),
		sin:   NewRunningStats(capacity, label+".sin"),
		label: label,
	}
}

// Set records an angle in radians.
func (s *CircularStats) Set(angle float64) {
	s.last = angle
	s.cos.Set(math.Cos(angle))
	s.sin.Set(math.Sin(angle))
}

// Mean returns the circular mean in (-π, π], 0 when empty.
func (s *CircularStats) Mean() float64 {
	if s.cos.Len() == 0 {
		return 0
	}
	return math.Atan2(s.sin.Mean(), s.cos.Mean())
}

// Stdev returns sqrt(cosVar² + sinVar²), a dispersion measure on the unit
// circle built from the component variances.
func (s *CircularStats) Stdev() float64 {
	cv := s.cos.StdevAbout(s.cos.Mean())
	sv := s.sin.StdevAbout(s.sin.Mean())
	return math.Sqrt(cv*cv + sv*sv)
}

// Last returns the most recently set angle, unprocessed.
func (s *CircularStats) Last() float64 { return s.last }

// Len returns how many angles are in the window.
func (s *CircularStats) Len() int { return s.cos.Len() }

// Label returns the channel name.
func (s *CircularStats) Label() string { return s.label }
