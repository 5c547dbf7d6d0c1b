// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override file values,
// e.g. SKIMU_MOTION_PERIOD=250.
const EnvPrefix = "SKIMU"

// IMU source kinds.
const (
	SourceSim     = "sim"
	SourceMPU9250 = "mpu9250"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	TopicDelta           string

	// Signal K
	SignalKSelfID string
	SourceLabel   string

	// IMU
	IMUSource    string // "sim" or "mpu9250"
	IMUSPIDevice string
	IMUCSPin     string
	BMPSPIDevice string // optional, empty disables environment readings from hardware
	SimSeed      uint64 // 0 seeds from the clock

	// Timing
	MotionPeriod      int // milliseconds
	EnvironmentPeriod int // milliseconds

	// Smoothing windows (samples)
	PoseWindow    int
	RateWindow    int
	HeadingWindow int
	EnvWindow     int

	// Magnetic deviation in degrees, positive east
	MagneticDeviation float64

	// NMEA 0183 output, disabled when the port is empty
	NMEASerialPort string
	NMEABaudRate   int

	// Servers
	WebServerPort int
	MetricsPort   int // 0 disables /metrics

	// Display
	DisplayUpdateInterval int // milliseconds

	LogLevel string
}

// keys lists every accepted key with its default. Keys without a sensible
// default carry "" and are checked in validate.
var keys = []struct {
	name string
	def  interface{}
}{
	{"MQTT_BROKER", ""},
	{"MQTT_CLIENT_ID_PRODUCER", "signalk-imu-producer"},
	{"MQTT_CLIENT_ID_CONSOLE", "signalk-imu-console"},
	{"MQTT_CLIENT_ID_WEB", "signalk-imu-web"},
	{"MQTT_CLIENT_ID_DISPLAY", "signalk-imu-display"},
	{"TOPIC_DELTA", "signalk/delta"},
	{"SIGNALK_SELF_ID", "self"},
	{"SOURCE_LABEL", "signalk-imu"},
	{"IMU_SOURCE", SourceSim},
	{"IMU_SPI_DEVICE", ""},
	{"IMU_CS_PIN", ""},
	{"BMP_SPI_DEVICE", ""},
	{"SIM_SEED", 0},
	{"MOTION_PERIOD", 1000},
	{"ENVIRONMENT_PERIOD", 5000},
	{"POSE_WINDOW", 5},
	{"RATE_WINDOW", 5},
	{"HEADING_WINDOW", 30},
	{"ENV_WINDOW", 5},
	{"MAGNETIC_DEVIATION", 0.0},
	{"NMEA_SERIAL_PORT", ""},
	{"NMEA_BAUD_RATE", 4800},
	{"WEB_SERVER_PORT", 8080},
	{"METRICS_PORT", 0},
	{"DISPLAY_UPDATE_INTERVAL", 500},
	{"LOG_LEVEL", "info"},
}

// Package-level unexported variables for the singleton:
//   - globalConfig is only reachable through Get.
//   - configOnce makes InitGlobal run once.
//   - configMu guards globalConfig; Get takes the read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads a KEY=VALUE configuration file and returns a Config struct.
// Lines starting with # are comments. SKIMU_<KEY> environment variables
// override values from the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for _, k := range keys {
		v.SetDefault(k.name, k.def)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[strings.ToLower(k.name)] = true
	}
	for _, key := range v.AllKeys() {
		if !known[key] {
			return nil, fmt.Errorf("unknown config key: %q", strings.ToUpper(key))
		}
	}

	cfg := &Config{}
	for _, k := range keys {
		value := strings.TrimSpace(v.GetString(k.name))
		if err := cfg.setValue(k.name, value); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "TOPIC_DELTA":
		c.TopicDelta = value

	// Signal K
	case "SIGNALK_SELF_ID":
		c.SignalKSelfID = value
	case "SOURCE_LABEL":
		c.SourceLabel = value

	// IMU
	case "IMU_SOURCE":
		if value != SourceSim && value != SourceMPU9250 {
			return fmt.Errorf("IMU_SOURCE must be %q or %q, got %q", SourceSim, SourceMPU9250, value)
		}
		c.IMUSource = value
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "BMP_SPI_DEVICE":
		c.BMPSPIDevice = value
	case "SIM_SEED":
		seed, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid SIM_SEED %q: %w", value, err)
		}
		c.SimSeed = seed

	// Timing
	case "MOTION_PERIOD":
		period, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.MotionPeriod = period
	case "ENVIRONMENT_PERIOD":
		period, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.EnvironmentPeriod = period

	// Windows
	case "POSE_WINDOW":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.PoseWindow = n
	case "RATE_WINDOW":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.RateWindow = n
	case "HEADING_WINDOW":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.HeadingWindow = n
	case "ENV_WINDOW":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.EnvWindow = n

	case "MAGNETIC_DEVIATION":
		dev, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MAGNETIC_DEVIATION %q: %w", value, err)
		}
		if dev < -180 || dev > 180 {
			return fmt.Errorf("MAGNETIC_DEVIATION must be -180..180 degrees, got %v", dev)
		}
		c.MagneticDeviation = dev

	// NMEA
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		rate, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.NMEABaudRate = rate

	// Servers
	case "WEB_SERVER_PORT":
		port, err := parsePort(key, value)
		if err != nil {
			return err
		}
		c.WebServerPort = port
	case "METRICS_PORT":
		port, err := parsePort(key, value)
		if err != nil {
			return err
		}
		c.MetricsPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.DisplayUpdateInterval = interval

	case "LOG_LEVEL":
		switch value {
		case "debug", "info", "warn", "error":
			c.LogLevel = value
		default:
			return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", value)
		}

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", key, n)
	}
	return n, nil
}

func parsePort(key, value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be 0-65535, got %d", key, port)
	}
	return port, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicDelta == "" {
		return fmt.Errorf("TOPIC_DELTA is required")
	}
	if c.SignalKSelfID == "" {
		return fmt.Errorf("SIGNALK_SELF_ID is required")
	}
	if c.IMUSource == SourceMPU9250 {
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required for IMU_SOURCE=%s", SourceMPU9250)
		}
		if c.IMUCSPin == "" {
			return fmt.Errorf("IMU_CS_PIN is required for IMU_SOURCE=%s", SourceMPU9250)
		}
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads the file.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
