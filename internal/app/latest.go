// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/relabs-tech/signalk_imu/internal/signalk"
)

// latestValues keeps the most recent value per Signal K path as seen on the
// delta topic. MQTT callbacks write it; HTTP handlers and the display read it.
type latestValues struct {
	mu        sync.RWMutex
	values    map[string]interface{}
	timestamp string
}

func newLatestValues() *latestValues {
	return &latestValues{values: make(map[string]interface{})}
}

// ingest decodes a delta payload and merges its values.
func (l *latestValues) ingest(payload []byte) (signalk.Delta, error) {
	var d signalk.Delta
	if err := json.Unmarshal(payload, &d); err != nil {
		return signalk.Delta{}, fmt.Errorf("delta unmarshal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for path, v := range d.Values() {
		l.values[path] = v
	}
	for _, u := range d.Updates {
		l.timestamp = u.Timestamp
	}
	return d, nil
}

// snapshot copies the current values. ok is false until a delta arrived.
func (l *latestValues) snapshot() (values map[string]interface{}, timestamp string, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.values) == 0 {
		return nil, "", false
	}
	values = make(map[string]interface{}, len(l.values))
	for k, v := range l.values {
		values[k] = v
	}
	return values, l.timestamp, true
}

// number returns a numeric value for path.
func (l *latestValues) number(path string) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, ok := l.values[path].(float64)
	return f, ok
}

// attitude returns navigation.attitude decoded from its JSON object.
func (l *latestValues) attitude() (signalk.Attitude, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return decodeAttitude(l.values[signalk.PathAttitude])
}

func decodeAttitude(v interface{}) (signalk.Attitude, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return signalk.Attitude{}, false
	}
	roll, ok1 := obj["roll"].(float64)
	pitch, ok2 := obj["pitch"].(float64)
	yaw, ok3 := obj["yaw"].(float64)
	if !ok1 || !ok2 || !ok3 {
		return signalk.Attitude{}, false
	}
	return signalk.Attitude{Roll: roll, Pitch: pitch, Yaw: yaw}, true
}
