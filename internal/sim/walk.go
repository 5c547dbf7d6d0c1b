// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sim generates synthetic sensor channels so the telemetry pipeline
// can run without an IMU attached.
package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
)

const twoPi = 2 * math.Pi

// ErrInvalidRange is returned when a walk is built with min >= max.
var ErrInvalidRange = errors.New("sim: min must be below max")

// Uniform draws values uniformly from [0, 1).
// *rand.Rand from golang.org/x/exp/rand and math/rand both satisfy it.
type Uniform interface {
	Float64() float64
}

// NewUniform returns a seeded PCG generator. Two generators with the same
// seed produce the same draws.
func NewUniform(seed uint64) Uniform {
	return rand.New(rand.NewSource(seed))
}

func defaultUniform() Uniform {
	return NewUniform(uint64(time.Now().UnixNano()))
}

// ScalarWalk is a mean-reverting random walk clamped to [min, max].
type ScalarWalk struct {
	velocity float64
	current  float64
	rng      float64
	mean     float64
	min      float64
	max      float64
	rnd      Uniform
}

// NewScalarWalk creates a walk over [min, max]. Step scales by 5*(max-min), which
// must stay finite. A nil rnd uses a time seeded generator.
func NewScalarWalk(min, max float64, rnd Uniform) (*ScalarWalk, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) ||
		min >= max || math.IsInf(5*(max-min), 0) {
		return nil, fmt.Errorf("%w (min=%v, max=%v)", ErrInvalidRange, min, max)
	}
	if rnd == nil {
		rnd = defaultUniform()
	}
	return &ScalarWalk{
		rng:  max - min,
		mean: (max + min) / 2,
		min:  min,
		max:  max,
		rnd:  rnd,
	}, nil
}

// mustScalarWalk is for the fixed domains of the simulated IMU.
func mustScalarWalk(min, max float64, rnd Uniform) *ScalarWalk {
	w, err := NewScalarWalk(min, max, rnd)
	if err != nil {
		panic(err)
	}
	return w
}

// Step advances the walk by one tick and returns the clamped value.
//
// The (velocity - range) factor pulls the walk back before it reaches the
// upper bound and velocity/(5*range) damps large excursions.
func (w *ScalarWalk) Step() float64 {
	u := w.rnd.Float64() - 0.5
	w.velocity -= (u - w.velocity/(5*w.rng)) * (w.velocity - w.rng) / 10

	c := w.mean + w.velocity
	if c > w.max {
		c = w.max
	} else if c < w.min {
		c = w.min
	}
	w.current = c
	return c
}

// Current returns the value produced by the last Step.
func (w *ScalarWalk) Current() float64 { return w.current }

// Bounds returns the clamping domain.
func (w *ScalarWalk) Bounds() (min, max float64) { return w.min, w.max }

// AngularWalk drifts around the circle with no restoring force.
// Values stay in [0, 2π).
type AngularWalk struct {
	velocity float64
	current  float64
	rnd      Uniform
}

// NewAngularWalk creates a walk starting at 0 rad.
func NewAngularWalk(rnd Uniform) *AngularWalk {
	if rnd == nil {
		rnd = defaultUniform()
	}
	return &AngularWalk{rnd: rnd}
}

// Step moves the angle by at most ±1° and wraps it into [0, 2π).
func (w *AngularWalk) Step() float64 {
	u := w.rnd.Float64() - 0.5
	w.velocity = normalizeAngle(w.velocity - u*math.Pi/90)
	w.current = w.velocity
	return w.current
}

// Current returns the value produced by the last Step.
func (w *AngularWalk) Current() float64 { return w.current }

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	// a tiny negative plus 2π can round up to exactly 2π
	if a >= twoPi {
		a -= twoPi
	}
	return a
}
