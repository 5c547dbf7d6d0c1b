// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/metrics"
	"github.com/relabs-tech/signalk_imu/internal/nmea0183"
	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/signalk"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

const (
	channelMotion      = "motion"
	channelEnvironment = "environment"
)

// publisher sends one encoded delta to the bus.
type publisher interface {
	Publish(payload []byte) error
}

// producer owns the accumulators of both channels. The motion and
// environment tickers run in separate goroutines, so every call into the
// source or the accumulators happens under mu.
type producer struct {
	mu     sync.Mutex
	src    imu.Source
	hasEnv bool
	gate   *startupGate
	motion *orientation.Motion
	env    *orientation.EnvStats

	context string
	source  signalk.Source
	pub     publisher
	nmea    *nmea0183.Writer // nil when NMEA output is off
	metrics *metrics.Producer
	now     func() time.Time

	motionDeltas int64
	envDeltas    int64
}

type producerOptions struct {
	Windows     orientation.MotionWindows
	EnvWindow   int
	Deviation   float64 // rad
	SelfID      string
	SourceLabel string
}

func newProducer(src imu.Source, pub publisher, m *metrics.Producer, opts producerOptions) *producer {
	return &producer{
		src:     src,
		hasEnv:  imu.HasEnvironment(src),
		gate:    newStartupGate(src),
		motion:  orientation.NewMotion(opts.Windows, opts.Deviation),
		env:     orientation.NewEnvStats(opts.EnvWindow),
		context: signalk.VesselContext(opts.SelfID),
		source:  signalk.Source{Label: opts.SourceLabel, Src: "imu"},
		pub:     pub,
		metrics: m,
		now:     time.Now,
	}
}

// motionTick samples the source, updates pose, rate and heading, and
// publishes the motion delta. Errors are logged and counted; the tick is
// skipped.
func (p *producer) motionTick() {
	p.metrics.Ticks.WithLabelValues(channelMotion).Inc()

	p.mu.Lock()
	ready, err := p.gate.Ready()
	if !ready {
		p.mu.Unlock()
		p.metrics.GateSkips.Inc()
		log.WithField("component", "producer").Debugf("motion skipped: %v", err)
		return
	}

	r, err := p.src.Read()
	if err != nil {
		p.mu.Unlock()
		p.metrics.ReadErrors.WithLabelValues(channelMotion).Inc()
		log.WithField("component", "producer").Errorf("motion read error: %v", err)
		return
	}
	snap := p.motion.Update(r)
	p.mu.Unlock()

	delta := signalk.NewDelta(p.context, p.source, p.now(), signalk.MotionValues(snap)...)
	if err := p.publish(channelMotion, delta); err != nil {
		log.WithField("component", "producer").Errorf("motion publish error: %v", err)
		return
	}
	p.motionDeltas++
	p.metrics.Heading.Set(snap.Heading)

	if p.nmea != nil {
		p.writeNMEA(snap)
	}

	log.WithField("component", "producer").Debugf("motion: HDG=%.1f° R=%.1f° P=%.1f° ROT=%.1f°/min",
		units.RadToDeg(snap.Heading),
		units.RadToDeg(snap.Attitude.Roll),
		units.RadToDeg(snap.Attitude.Pitch),
		units.RadPerSecToDegPerMin(snap.Rate.Z))
}

// environmentTick samples the source and publishes temperature and
// pressure means. Sources without an environment sensor publish nothing.
func (p *producer) environmentTick() {
	if !p.hasEnv {
		return
	}
	p.metrics.Ticks.WithLabelValues(channelEnvironment).Inc()

	p.mu.Lock()
	r, err := p.src.Read()
	if err != nil {
		p.mu.Unlock()
		p.metrics.ReadErrors.WithLabelValues(channelEnvironment).Inc()
		log.WithField("component", "producer").Errorf("environment read error: %v", err)
		return
	}
	p.env.Set(r)
	mean := p.env.Mean()
	p.mu.Unlock()

	values := signalk.EnvironmentValues(mean)
	delta := signalk.NewDelta(p.context, p.source, p.now(), values...)
	if err := p.publish(channelEnvironment, delta); err != nil {
		log.WithField("component", "producer").Errorf("environment publish error: %v", err)
		return
	}
	p.envDeltas++
	p.metrics.Temperature.Set(units.CelsiusToKelvin(mean.Temperature))
	p.metrics.Pressure.Set(units.HPaToPa(mean.Pressure))
}

func (p *producer) publish(channel string, d signalk.Delta) error {
	payload, err := json.Marshal(d)
	if err != nil {
		p.metrics.PublishErrors.WithLabelValues(channel).Inc()
		return fmt.Errorf("marshal %s delta: %w", channel, err)
	}
	if err := p.pub.Publish(payload); err != nil {
		p.metrics.PublishErrors.WithLabelValues(channel).Inc()
		return err
	}
	p.metrics.Published.WithLabelValues(channel).Inc()
	return nil
}

func (p *producer) writeNMEA(snap orientation.Snapshot) {
	hdg := nmea0183.HDG(units.RadToDeg(snap.Heading), units.RadToDeg(p.motion.Deviation()))
	if err := p.nmea.WriteSentence(hdg); err != nil {
		log.WithField("component", "nmea").Errorf("HDG write error: %v", err)
		return
	}
	rot := nmea0183.ROT(units.RadPerSecToDegPerMin(snap.Rate.Z))
	if err := p.nmea.WriteSentence(rot); err != nil {
		log.WithField("component", "nmea").Errorf("ROT write error: %v", err)
	}
}
