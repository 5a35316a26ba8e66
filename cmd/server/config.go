package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=30s"`
	BacklogInterval      time.Duration `env:"BACKLOG_INTERVAL,default=10s"`
	BacklogWarnRatio     float64       `env:"BACKLOG_WARN_RATIO,default=0.8"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	LegacyTrailingFactor bool          `env:"PRIME_LEGACY_TRAILING_FACTOR,default=false"`
	DebugPort            int           `env:"DEBUG_PORT,default=0"`
}

// Validate rejects values the workers cannot run with: a ticker needs a positive period.
func (c Config) Validate() error {
	if c.ConnectionBufferSize < 1 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	}
	for name, d := range map[string]time.Duration{
		"REPORT_INTERVAL":  c.ReportInterval,
		"BACKLOG_INTERVAL": c.BacklogInterval,
		"RESTART_INTERVAL": c.RestartInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}
