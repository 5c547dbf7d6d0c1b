// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// Vec3 is a three-axis value. Angles are in radians, rates in rad/s.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Reading is a single snapshot from an IMU.
type Reading struct {
	Pose        Vec3    `json:"fusionPose"`  // x=roll y=pitch z=yaw
	Gyro        Vec3    `json:"gyro"`        // x=roll y=pitch z=yaw rates
	Pressure    float64 `json:"pressure"`    // hPa
	Temperature float64 `json:"temperature"` // °C
}

// Source is anything that can be sampled on a tick.
type Source interface {
	Read() (Reading, error)
}

// EnvironmentReporter is implemented by sources whose temperature and
// pressure sensor is optional.
type EnvironmentReporter interface {
	HasEnvironment() bool
}

// HasEnvironment reports whether readings from src carry temperature and
// pressure. Sources that do not implement EnvironmentReporter always do.
func HasEnvironment(src Source) bool {
	if r, ok := src.(EnvironmentReporter); ok {
		return r.HasEnvironment()
	}
	return true
}

// SystemStatus is the result of a device self test.
type SystemStatus struct {
	SelfTestResult string `json:"selfTestResult"` // one bit per subsystem, "1111" when all pass
	SystemStatus   int    `json:"systemStatus"`
	SystemError    string `json:"systemErr"`
}

// OK reports whether every subsystem passed.
func (s SystemStatus) OK() bool {
	return s.SelfTestResult == "1111" && s.SystemStatus == 0
}

// Calibration levels run from 0 (uncalibrated) to 3 (fully calibrated).
type Calibration struct {
	System int `json:"systemStatus"`
	Gyro   int `json:"gyroStatus"`
	Accel  int `json:"accelerometerStatus"`
	Mag    int `json:"magnetometerStatus"`
}

// FullyCalibrated reports whether every level is 3.
func (c Calibration) FullyCalibrated() bool {
	return c.System == 3 && c.Gyro == 3 && c.Accel == 3 && c.Mag == 3
}

// DecodeCalibration unpacks a calibration byte laid out as
// SYS[7:6] GYR[5:4] ACC[3:2] MAG[1:0].
func DecodeCalibration(b byte) Calibration {
	return Calibration{
		System: int(b&0xC0) >> 6,
		Gyro:   int(b&0x30) >> 4,
		Accel:  int(b&0x0C) >> 2,
		Mag:    int(b & 0x03),
	}
}

// StatusReporter is implemented by sources that must pass a self test and
// reach full calibration before their readings are trusted.
type StatusReporter interface {
	SystemStatus() (SystemStatus, error)
	CalibrationStatus() (Calibration, error)
}
