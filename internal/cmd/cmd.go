// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cmd builds the cobra root commands shared by the binaries.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/signalk_imu/internal/config"
)

// DefaultConfig is the config file looked up when --config is not given.
const DefaultConfig = "./imu_config.txt"

// NewConfigCommand returns a root command that loads the global config
// from --config, applies LOG_LEVEL and calls run with a context cancelled
// on SIGINT or SIGTERM.
func NewConfigCommand(use, short string, run func(ctx context.Context) error) *cobra.Command {
	c := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if err := config.InitGlobal(configPath); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := setLogLevel(cmd, config.Get().LogLevel); err != nil {
				return err
			}

			return run(cmd.Context())
		},
	}
	c.Flags().String("config", DefaultConfig, "path to configuration file")
	c.Flags().Bool("debug", false, "toggle debug logging")
	return c
}

func setLogLevel(cmd *cobra.Command, level string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// Execute runs root until SIGINT or SIGTERM and exits non-zero on error.
func Execute(root *cobra.Command) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Errorf("fatal: %v", err)
		stop()
		os.Exit(1)
	}
}
