package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/ninjatall12/DXcam/internal/frame"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config for invalid values and returns all errors found.
// Out-of-range pool sizes are clamped to safe values and still reported.
func (c *Config) Validate() []error {
	var errs []error

	if _, err := frame.ParseColorMode(c.ColorMode); err != nil {
		errs = append(errs, fmt.Errorf("color_mode: %w", err))
	}

	maxWorkers := runtime.NumCPU() * 4
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d is below minimum 1, clamping", c.Workers))
		c.Workers = 1
	} else if c.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("workers %d exceeds maximum %d, clamping", c.Workers, maxWorkers))
		c.Workers = maxWorkers
	}

	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("queue_size %d is below minimum 1, clamping", c.QueueSize))
		c.QueueSize = 1
	} else if c.QueueSize > 1024 {
		errs = append(errs, fmt.Errorf("queue_size %d exceeds maximum 1024, clamping", c.QueueSize))
		c.QueueSize = 1024
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("output_dir is empty, using \"out\""))
		c.OutputDir = "out"
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
