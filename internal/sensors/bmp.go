// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/bmxx80"
)

type bmp struct {
	dev *bmxx80.Dev
}

func openBMP(spiDev string) (*bmp, error) {
	bus, err := spireg.Open(spiDev)
	if err != nil {
		return nil, fmt.Errorf("BMP SPI open (%s): %w", spiDev, err)
	}

	dev, err := bmxx80.NewSPI(bus, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("BMP init: %w", err)
	}

	log.Printf("BMP initialized on %s", spiDev)
	return &bmp{dev: dev}, nil
}

// sense returns temperature in °C and pressure in hPa.
func (b *bmp) sense() (float64, float64, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return 0, 0, fmt.Errorf("BMP sense: %w", err)
	}

	pressurePa := float64(e.Pressure) / float64(physic.Pascal)
	return e.Temperature.Celsius(), pressurePa / 100.0, nil
}
