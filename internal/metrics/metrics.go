// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics exposes producer counters to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const namespace = "signalk_imu"

// Producer holds the metrics of the IMU producer.
type Producer struct {
	Ticks         *prometheus.CounterVec // by channel: motion, environment
	ReadErrors    *prometheus.CounterVec
	Published     *prometheus.CounterVec
	PublishErrors *prometheus.CounterVec
	GateSkips     prometheus.Counter

	Heading     prometheus.Gauge
	Temperature prometheus.Gauge
	Pressure    prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewProducer creates the producer metrics and registers them with reg.
func NewProducer(reg *prometheus.Registry) *Producer {
	channel := []string{"channel"}
	m := &Producer{
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Sampling ticks handled.",
		}, channel),
		ReadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Sensor reads that failed.",
		}, channel),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deltas_published_total",
			Help:      "Signal K deltas published.",
		}, channel),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Deltas that could not be marshalled or published.",
		}, channel),
		GateSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_skips_total",
			Help:      "Motion ticks skipped while the sensor was not ready.",
		}),
		Heading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heading_radians",
			Help:      "Last published magnetic heading.",
		}),
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_kelvin",
			Help:      "Last published inside temperature.",
		}),
		Pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pressure_pascal",
			Help:      "Last published inside pressure.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Ticks, m.ReadErrors, m.Published, m.PublishErrors, m.GateSkips,
		m.Heading, m.Temperature, m.Pressure)
	return m
}

// Serve exposes /metrics on port until ctx is done.
func (m *Producer) Serve(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("metrics: listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
