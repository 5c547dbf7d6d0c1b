// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stats keeps moving-window statistics for sensor channels.
//
// Accumulators are owned by a single caller and carry no locks.
package stats

import "fmt"

// RunningStats holds the last N samples of a channel in a ring.
type RunningStats struct {
	buf    []float64
	head   int
	filled int
	last   float64
	label  string
}

// NewRunningStats creates an accumulator holding the last capacity samples.
func NewRunningStats(capacity int, label string) *RunningStats {
	if capacity < 1 {
		panic(fmt.Sprintf("stats: capacity of %q must be at least 1, got %d", label, capacity))
	}
	return &RunningStats{
		buf:   make([]float64, capacity),
		label: label,
	}
}

// Set records v, overwriting the oldest sample once the ring is full.
func (s *RunningStats) Set(v float64) {
	s.buf[s.head] = v
	s.last = v
	if s.filled < len(s.buf) {
		s.filled++
	}
	s.head++
	if s.head >= len(s.buf) {
		s.head = 0
	}
}

// Mean returns the arithmetic mean of the window, 0 when empty.
func (s *RunningStats) Mean() float64 {
	if s.filled == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.buf[:s.filled] {
		sum += v
	}
	return sum / float64(s.filled)
}

// Stdev returns the biased variance (divided by n) of the window about its
// own mean. Despite the name the result is not square-rooted.
func (s *RunningStats) Stdev() float64 {
	return s.StdevAbout(s.Mean())
}

// StdevAbout is Stdev with a precomputed mean.
func (s *RunningStats) StdevAbout(mean float64) float64 {
	if s.filled == 0 {
		return 0
	}
	var acc float64
	for _, v := range s.buf[:s.filled] {
		d := mean - v
		acc += d * d
	}
	return acc / float64(s.filled)
}

// Last returns the most recently set value.
func (s *RunningStats) Last() float64 { return s.last }

// Len returns how many samples are in the window.
func (s *RunningStats) Len() int { return s.filled }

// Cap returns the window size.
func (s *RunningStats) Cap() int { return len(s.buf) }

// Label returns the channel name.
func (s *RunningStats) Label() string { return s.label }

// Values returns the window contents, oldest first.
func (s *RunningStats) Values() []float64 {
	out := make([]float64, s.filled)
	if s.filled < len(s.buf) {
		copy(out, s.buf[:s.filled])
	} else {
		n := copy(out, s.buf[s.head:])
		copy(out[n:], s.buf[:s.head])
	}
	return out
}
