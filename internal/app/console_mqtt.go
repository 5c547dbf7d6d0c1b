// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/signalk_imu/internal/config"
	"github.com/relabs-tech/signalk_imu/internal/signalk"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

// RunConsoleMQTT prints every delta published on the delta topic until ctx
// is done.
func RunConsoleMQTT(ctx context.Context) error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicDelta, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var d signalk.Delta
		if err := json.Unmarshal(msg.Payload(), &d); err != nil {
			log.Printf("console: delta unmarshal error: %v", err)
			return
		}
		for _, line := range formatDelta(d) {
			fmt.Println(line)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicDelta)

	<-ctx.Done()

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

// formatDelta renders one line per value in display units, sorted by path
// within each update.
func formatDelta(d signalk.Delta) []string {
	var lines []string
	for _, u := range d.Updates {
		values := append([]signalk.Value(nil), u.Values...)
		sort.Slice(values, func(i, j int) bool { return values[i].Path < values[j].Path })
		for _, v := range values {
			lines = append(lines, fmt.Sprintf("[%s] %-32s %s", u.Timestamp, v.Path, formatValue(v.Path, v.Value)))
		}
	}
	return lines
}

// formatValue converts SI values to the units a navigator reads.
func formatValue(path string, v interface{}) string {
	if path == signalk.PathAttitude {
		a, ok := decodeAttitude(v)
		if !ok {
			return fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("roll=%6.1f° pitch=%6.1f° yaw=%6.1f°",
			units.RadToDeg(a.Roll), units.RadToDeg(a.Pitch), units.RadToDeg(a.Yaw))
	}

	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}

	switch path {
	case signalk.PathHeadingMagnetic:
		return fmt.Sprintf("%6.1f°", units.RadToDeg(f))
	case signalk.PathRateOfTurn:
		return fmt.Sprintf("%6.1f°/min", units.RadPerSecToDegPerMin(f))
	case signalk.PathGyroRoll, signalk.PathGyroPitch, signalk.PathGyroYaw:
		return fmt.Sprintf("%6.2f°/s", units.RadToDeg(f))
	case signalk.PathTemperature:
		return fmt.Sprintf("%.2f K (%.1f °C)", f, f-273.15)
	case signalk.PathPressure:
		return humanize.SI(f, "Pa")
	default:
		return fmt.Sprintf("%g", f)
	}
}
