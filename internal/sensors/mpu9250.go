// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors binds the telemetry pipeline to an MPU9250 IMU and an
// optional BMP280 on SPI.
package sensors

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/units"
)

const (
	// LSB per °/s at the power-on ±250°/s range
	gyroSensitivity = 131.0

	// MPU9250 self-test passes within ±14% of factory trim
	selfTestTolerance = 14.0
)

// MPU9250Source reads pose and rates from an MPU9250 and, when present,
// temperature and pressure from a BMP280.
type MPU9250Source struct {
	imu *mpu9250.MPU9250
	bmp *bmp

	selfTest   imu.SystemStatus
	calibrated bool

	yaw      float64 // integrated from gyro z, rad
	lastRead time.Time
	now      func() time.Time
}

// NewMPU9250Source initializes the MPU9250 over SPI, runs its self test and
// calibration, and opens the BMP280 on bmpDev unless it is empty.
func NewMPU9250Source(spiDev, csPin, bmpDev string) (*MPU9250Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU SPI transport (%s): %w", spiDev, err)
	}

	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU new device: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU init: %w", err)
	}

	s := &MPU9250Source{imu: dev, now: time.Now}

	// Self-test and calibration failures are reported through the status
	// gate instead of failing start-up.
	result, err := dev.SelfTest()
	if err != nil {
		log.Warnf("IMU self-test failed: %v", err)
		s.selfTest = imu.SystemStatus{SelfTestResult: "0000", SystemStatus: 1, SystemError: err.Error()}
	} else {
		s.selfTest = selfTestStatus(
			result.AccelDeviation.X, result.AccelDeviation.Y, result.AccelDeviation.Z,
			result.GyroDeviation.X, result.GyroDeviation.Y, result.GyroDeviation.Z,
		)
		log.Printf("IMU self-test: %s (accel %.2f%%/%.2f%%/%.2f%%, gyro %.2f%%/%.2f%%/%.2f%%)",
			s.selfTest.SelfTestResult,
			result.AccelDeviation.X, result.AccelDeviation.Y, result.AccelDeviation.Z,
			result.GyroDeviation.X, result.GyroDeviation.Y, result.GyroDeviation.Z)
	}

	if err := dev.Calibrate(); err != nil {
		log.Warnf("IMU calibration failed: %v", err)
	} else {
		s.calibrated = true
		log.Println("IMU calibration complete")
	}

	if bmpDev != "" {
		b, err := openBMP(bmpDev)
		if err != nil {
			return nil, err
		}
		s.bmp = b
	}

	return s, nil
}

// selfTestStatus packs the self-test outcome as MCU, mag, accel, gyro bits.
// The MPU9250 self test covers accel and gyro only.
func selfTestStatus(ax, ay, az, gx, gy, gz float64) imu.SystemStatus {
	within := func(vs ...float64) bool {
		for _, v := range vs {
			if math.Abs(v) > selfTestTolerance {
				return false
			}
		}
		return true
	}
	bit := func(ok bool) string {
		if ok {
			return "1"
		}
		return "0"
	}

	st := imu.SystemStatus{
		SelfTestResult: "11" + bit(within(ax, ay, az)) + bit(within(gx, gy, gz)),
		SystemError:    "All Ok",
	}
	if st.SelfTestResult != "1111" {
		st.SystemStatus = 1
		st.SystemError = "self-test deviation out of range"
	}
	return st
}

// Read samples the IMU and the BMP280.
func (s *MPU9250Source) Read() (imu.Reading, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU accel X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU accel Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU accel Z: %w", err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("IMU gyro Z: %w", err)
	}

	gyro := imu.Vec3{
		X: gyroRate(gx),
		Y: gyroRate(gy),
		Z: gyroRate(gz),
	}

	now := s.now()
	if !s.lastRead.IsZero() {
		s.yaw = integrateYaw(s.yaw, gyro.Z, now.Sub(s.lastRead))
	}
	s.lastRead = now

	pose := orientation.ComputePoseFromAccel(float64(ax), float64(ay), float64(az))
	r := imu.Reading{
		Pose: imu.Vec3{X: pose.Roll, Y: pose.Pitch, Z: s.yaw},
		Gyro: gyro,
	}

	if s.bmp != nil {
		t, p, err := s.bmp.sense()
		if err != nil {
			return imu.Reading{}, err
		}
		r.Temperature = t
		r.Pressure = p
	}

	return r, nil
}

// gyroRate converts raw counts to rad/s.
func gyroRate(raw int16) float64 {
	return units.DegToRad(float64(raw) / gyroSensitivity)
}

func integrateYaw(yaw, rate float64, dt time.Duration) float64 {
	return units.Normalize2Pi(yaw + rate*dt.Seconds())
}

// HasEnvironment reports whether a BMP280 was opened.
func (s *MPU9250Source) HasEnvironment() bool {
	return s.bmp != nil
}

// SystemStatus reports the start-up self test.
func (s *MPU9250Source) SystemStatus() (imu.SystemStatus, error) {
	return s.selfTest, nil
}

// CalibrationStatus reports full calibration once Calibrate succeeded.
// The magnetometer is not used for heading, so it reports with the rest.
func (s *MPU9250Source) CalibrationStatus() (imu.Calibration, error) {
	if !s.calibrated {
		return imu.Calibration{}, nil
	}
	return imu.Calibration{System: 3, Gyro: 3, Accel: 3, Mag: 3}, nil
}
