// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package units converts between the internal units (radians, °C, hPa) and
// the units published on the wire.
package units

import "math"

// Normalize2Pi wraps an angle into [0, 2π).
func Normalize2Pi(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// CelsiusToKelvin is used for Signal K temperatures.
func CelsiusToKelvin(c float64) float64 { return c + 273.15 }

// HPaToPa is used for Signal K pressures.
func HPaToPa(hpa float64) float64 { return hpa * 100.0 }

// RadPerSecToDegPerMin converts a gyro rate to the NMEA rate-of-turn unit.
func RadPerSecToDegPerMin(rps float64) float64 { return RadToDeg(rps) * 60.0 }
