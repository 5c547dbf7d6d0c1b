// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package signalk models Signal K delta messages.
package signalk

import (
	"time"
)

// Delta is a Signal K delta message.
type Delta struct {
	Context string   `json:"context"`
	Updates []Update `json:"updates"`
}

// Update groups the values read from one source at one time.
type Update struct {
	Source    Source  `json:"source"`
	Timestamp string  `json:"timestamp"` // RFC3339, UTC, millisecond precision
	Values    []Value `json:"values"`
}

// Source identifies the device that produced an update.
type Source struct {
	Label string `json:"label,omitempty"`
	Src   string `json:"src"`
}

// Value is one path/value pair. Value is a number or an object.
type Value struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Attitude is the object published under navigation.attitude.
type Attitude struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// VesselContext returns the delta context for a vessel id, e.g. "vessels.self".
func VesselContext(selfID string) string {
	return "vessels." + selfID
}

// FormatTimestamp renders t the way Signal K servers do.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NewDelta builds a delta with a single update.
func NewDelta(context string, src Source, ts time.Time, values ...Value) Delta {
	return Delta{
		Context: context,
		Updates: []Update{{
			Source:    src,
			Timestamp: FormatTimestamp(ts),
			Values:    values,
		}},
	}
}

// Values flattens every value in the delta into a path keyed map.
// Later updates win.
func (d Delta) Values() map[string]interface{} {
	out := make(map[string]interface{})
	for _, u := range d.Updates {
		for _, v := range u.Values {
			out[v.Path] = v.Value
		}
	}
	return out
}
