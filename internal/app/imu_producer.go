// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/signalk_imu/internal/config"
	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/metrics"
	"github.com/relabs-tech/signalk_imu/internal/nmea0183"
	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/sensors"
	"github.com/relabs-tech/signalk_imu/internal/sim"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

// mqttPublisher publishes retained QoS 0 messages to one topic.
type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

func (m *mqttPublisher) Publish(payload []byte) error {
	if token := m.client.Publish(m.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish %s: %w", m.topic, token.Error())
	}
	return nil
}

// openSource returns the configured IMU source.
func openSource(cfg *config.Config) (imu.Source, error) {
	switch cfg.IMUSource {
	case config.SourceMPU9250:
		log.Printf("using MPU9250 on %s (CS %s)", cfg.IMUSPIDevice, cfg.IMUCSPin)
		s, err := sensors.NewMPU9250Source(cfg.IMUSPIDevice, cfg.IMUCSPin, cfg.BMPSPIDevice)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		log.Printf("using simulated IMU (seed %d)", cfg.SimSeed)
		var rnd sim.Uniform
		if cfg.SimSeed != 0 {
			rnd = sim.NewUniform(cfg.SimSeed)
		}
		s := sim.NewIMU(rnd)
		s.Begin()
		return s, nil
	}
}

// RunIMUProducer samples the IMU on the motion and environment periods and
// publishes Signal K deltas until ctx is done.
func RunIMUProducer(ctx context.Context) error {
	log.Println("starting signalk-imu producer")
	started := time.Now()

	cfg := config.Get()

	src, err := openSource(cfg)
	if err != nil {
		return fmt.Errorf("open IMU source: %w", err)
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	reg := prometheus.NewRegistry()
	m := metrics.NewProducer(reg)
	if cfg.MetricsPort > 0 {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsPort); err != nil {
				log.Errorf("metrics: %v", err)
			}
		}()
	}

	p := newProducer(src, &mqttPublisher{client: client, topic: cfg.TopicDelta}, m, producerOptions{
		Windows: orientation.MotionWindows{
			Pose:    cfg.PoseWindow,
			Rate:    cfg.RateWindow,
			Heading: cfg.HeadingWindow,
		},
		EnvWindow:   cfg.EnvWindow,
		Deviation:   units.DegToRad(cfg.MagneticDeviation),
		SelfID:      cfg.SignalKSelfID,
		SourceLabel: cfg.SourceLabel,
	})

	// --- optional NMEA 0183 output ---
	if cfg.NMEASerialPort != "" {
		port, err := nmea0183.OpenSerial(cfg.NMEASerialPort, cfg.NMEABaudRate)
		if err != nil {
			return err
		}
		defer port.Close()
		p.nmea = nmea0183.NewWriter(port)
		log.Printf("NMEA 0183 output on %s at %d baud", cfg.NMEASerialPort, cfg.NMEABaudRate)
	}

	log.Printf("publishing to %s every %dms (motion) and %dms (environment)",
		cfg.TopicDelta, cfg.MotionPeriod, cfg.EnvironmentPeriod)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runTicker(ctx, time.Duration(cfg.MotionPeriod)*time.Millisecond, p.motionTick)
	}()
	if p.hasEnv {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runTicker(ctx, time.Duration(cfg.EnvironmentPeriod)*time.Millisecond, p.environmentTick)
		}()
	} else {
		log.Println("no environment sensor, environment deltas disabled")
	}
	wg.Wait()

	log.Printf("producer stopping: started %s, %s motion and %s environment deltas published",
		humanize.Time(started), humanize.Comma(p.motionDeltas), humanize.Comma(p.envDeltas))
	return nil
}

// runTicker calls fn every period until ctx is done.
func runTicker(ctx context.Context, period time.Duration, fn func()) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
