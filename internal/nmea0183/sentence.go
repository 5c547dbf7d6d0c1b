// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmea0183 encodes heading and rate-of-turn sentences for NMEA 0183
// listeners such as autopilots and chart plotters.
package nmea0183

import (
	"fmt"
	"math"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

const (
	talkerCompass = "HC" // magnetic compass
	talkerTurn    = "TI" // turn rate indicator
)

// Encode wraps comma separated fields into a checksummed sentence,
// without the trailing CRLF.
func Encode(talker, kind string, fields ...string) string {
	body := talker + kind
	if len(fields) > 0 {
		body += "," + strings.Join(fields, ",")
	}
	return "$" + body + nmea.ChecksumSep + nmea.Checksum(body)
}

// HDG encodes a heading with its deviation, both in degrees. Positive
// deviation is east.
func HDG(headingDeg, deviationDeg float64) string {
	dir := "E"
	if deviationDeg < 0 {
		dir = "W"
	}
	return Encode(talkerCompass, nmea.TypeHDG,
		fmt.Sprintf("%.1f", normalizeDeg(headingDeg)),
		fmt.Sprintf("%.1f", math.Abs(deviationDeg)),
		dir,
		"", "",
	)
}

// ROT encodes a rate of turn in degrees per minute. Negative turns to port.
func ROT(degPerMin float64) string {
	return Encode(talkerTurn, nmea.TypeROT, fmt.Sprintf("%.1f", degPerMin), nmea.ValidROT)
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// 359.96 prints as 360.0
	if d >= 359.95 {
		d = 0
	}
	return d
}
