// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sim

import (
	"math"

	"github.com/relabs-tech/signalk_imu/internal/imu"
)

const (
	tiltLimit = math.Pi / 4

	pressureMin = 950.0 // hPa
	pressureMax = 1050.0
	tempMin     = -5.0 // °C
	tempMax     = 40.0

	// calibration byte increment per status poll; 0xFF after 16 polls
	calibStep = 0x10
)

type pose struct {
	roll, pitch *ScalarWalk
	yaw         *AngularWalk
}

type rateGyro struct {
	x, y, z *ScalarWalk
}

// IMU is a synthetic 3-axis pose, rate gyro, pressure and temperature
// source. It is not safe for concurrent use.
type IMU struct {
	pose        pose
	gyro        rateGyro
	pressure    *ScalarWalk
	temperature *ScalarWalk
	calib       byte
}

// NewIMU builds a simulated IMU. All channels share rnd so a seeded
// generator reproduces the whole trajectory.
func NewIMU(rnd Uniform) *IMU {
	if rnd == nil {
		rnd = defaultUniform()
	}
	return &IMU{
		pose: pose{
			roll:  mustScalarWalk(-tiltLimit, tiltLimit, rnd),
			pitch: mustScalarWalk(-tiltLimit, tiltLimit, rnd),
			yaw:   NewAngularWalk(rnd),
		},
		gyro: rateGyro{
			x: mustScalarWalk(-tiltLimit, tiltLimit, rnd),
			y: mustScalarWalk(-tiltLimit, tiltLimit, rnd),
			z: mustScalarWalk(-tiltLimit, tiltLimit, rnd),
		},
		pressure:    mustScalarWalk(pressureMin, pressureMax, rnd),
		temperature: mustScalarWalk(tempMin, tempMax, rnd),
	}
}

// Sample steps every channel once and returns the new snapshot.
func (s *IMU) Sample() imu.Reading {
	return imu.Reading{
		Pose: imu.Vec3{
			X: s.pose.roll.Step(),
			Y: s.pose.pitch.Step(),
			Z: s.pose.yaw.Step(),
		},
		Gyro: imu.Vec3{
			X: s.gyro.x.Step(),
			Y: s.gyro.y.Step(),
			Z: s.gyro.z.Step(),
		},
		Pressure:    s.pressure.Step(),
		Temperature: s.temperature.Step(),
	}
}

// Read implements imu.Source. It never fails.
func (s *IMU) Read() (imu.Reading, error) {
	return s.Sample(), nil
}

// Begin restarts the calibration sequence.
func (s *IMU) Begin() {
	s.calib = 0
}

// SystemStatus always reports a passing self test.
func (s *IMU) SystemStatus() (imu.SystemStatus, error) {
	return imu.SystemStatus{
		SelfTestResult: "1111",
		SystemStatus:   0x00,
		SystemError:    "All Ok",
	}, nil
}

// CalibrationStatus advances the simulated calibration by one step and
// reports the decoded levels.
func (s *IMU) CalibrationStatus() (imu.Calibration, error) {
	if s.calib < 0xFF {
		if int(s.calib)+calibStep > 0xFF {
			s.calib = 0xFF
		} else {
			s.calib += calibStep
		}
	}
	return imu.DecodeCalibration(s.calib), nil
}
