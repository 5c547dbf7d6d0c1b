// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/signalk_imu/internal/config"
	"github.com/relabs-tech/signalk_imu/internal/signalk"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

const (
	displayWidth  = 128
	displayHeight = 64
	lineHeight    = 13
)

// RunDisplay shows heading, attitude and rate of turn on an SSD1306 OLED
// until ctx is done.
func RunDisplay(ctx context.Context) error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	if err := drawLines(dev, []string{"", "  Signal K IMU", "  waiting..."}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	latest := newLatestValues()

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicDelta, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if _, err := latest.ingest(msg.Payload()); err != nil {
			log.Printf("display: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicDelta)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for {
		select {
		case <-ctx.Done():
			return dev.Halt()
		case <-ticker.C:
		}

		if err := drawLines(dev, displayLines(latest)); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
}

// displayLines lays out the latest motion values, one per text row.
func displayLines(l *latestValues) []string {
	hdg, okH := l.number(signalk.PathHeadingMagnetic)
	att, okA := l.attitude()
	rot, okR := l.number(signalk.PathRateOfTurn)
	if !okH && !okA && !okR {
		return []string{"", "Motion", "Waiting..."}
	}

	lines := make([]string, 0, 4)
	if okH {
		lines = append(lines, fmt.Sprintf("HDG: %5.1f", units.RadToDeg(hdg)))
	} else {
		lines = append(lines, "HDG:   ---")
	}
	if okA {
		lines = append(lines,
			fmt.Sprintf("R:  %6.1f", units.RadToDeg(att.Roll)),
			fmt.Sprintf("P:  %6.1f", units.RadToDeg(att.Pitch)))
	}
	if okR {
		lines = append(lines, fmt.Sprintf("ROT:%6.1f/m", units.RadPerSecToDegPerMin(rot)))
	}
	return lines
}

// renderLines draws up to four rows of 7x13 text on a blank frame.
func renderLines(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		if (i+1)*lineHeight > displayHeight {
			break
		}
		drawer.Dot = fixed.P(0, (i+1)*lineHeight)
		drawer.DrawString(line)
	}
	return img
}

func drawLines(dev *ssd1306.Dev, lines []string) error {
	img := renderLines(lines)
	return dev.Draw(dev.Bounds(), img, image.Point{})
}
