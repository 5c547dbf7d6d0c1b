// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"github.com/relabs-tech/signalk_imu/internal/app"
	"github.com/relabs-tech/signalk_imu/internal/cmd"
)

func main() {
	cmd.Execute(cmd.NewConfigCommand("display",
		"show heading and attitude on the SSD1306 OLED",
		app.RunDisplay))
}
