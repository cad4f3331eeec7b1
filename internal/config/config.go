// Package config provides per-mode run configuration, validation, and merging
// of config-file settings with CLI flag overrides.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Network modes.
const (
	ModeServer = "server"
	ModeClient = "client"
)

// Defaults shared across modes.
const (
	DefaultDuration = 60 * time.Second
	DefaultSizeMB   = 1024
	DefaultThreads  = 4
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 9999
	DefaultClients  = 4
)

// CPUConfig configures the cpu subcommand. Cores == 0 means all logical cores.
type CPUConfig struct {
	Cores    int           `mapstructure:"cores"`
	Duration time.Duration `mapstructure:"duration"`
}

// RAMConfig configures the ram subcommand. SizeMB is the total allocation
// split across Threads workers.
type RAMConfig struct {
	SizeMB   int           `mapstructure:"size"`
	Duration time.Duration `mapstructure:"duration"`
	Threads  int           `mapstructure:"threads"`
}

// NetworkConfig configures the network subcommand.
type NetworkConfig struct {
	Mode     string        `mapstructure:"mode"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Duration time.Duration `mapstructure:"duration"`
	Clients  int           `mapstructure:"clients"`
}

func DefaultCPU() CPUConfig {
	return CPUConfig{Duration: DefaultDuration}
}

func DefaultRAM() RAMConfig {
	return RAMConfig{SizeMB: DefaultSizeMB, Duration: DefaultDuration, Threads: DefaultThreads}
}

func DefaultNetwork() NetworkConfig {
	return NetworkConfig{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Duration: DefaultDuration,
		Clients:  DefaultClients,
	}
}

// Addr returns the host:port dial/listen address.
func (c NetworkConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ValidationError aggregates every configuration issue found in one pass.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c CPUConfig) Validate() error {
	var issues []string
	if c.Cores < 0 {
		issues = append(issues, "cores must be >= 0 (0 means all cores)")
	}
	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (c RAMConfig) Validate() error {
	var issues []string
	if c.SizeMB < 1 {
		issues = append(issues, "size must be >= 1 MB")
	}
	if c.Threads < 1 {
		issues = append(issues, "threads must be >= 1")
	}
	if c.SizeMB >= 1 && c.Threads >= 1 && c.SizeMB/c.Threads < 1 {
		issues = append(issues, fmt.Sprintf("size %dMB split across %d threads leaves each with 0MB", c.SizeMB, c.Threads))
	}
	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (c NetworkConfig) Validate() error {
	var issues []string
	switch c.Mode {
	case ModeServer, ModeClient:
	default:
		issues = append(issues, fmt.Sprintf("invalid mode %q: use %q or %q", c.Mode, ModeServer, ModeClient))
	}
	if strings.TrimSpace(c.Host) == "" {
		issues = append(issues, "host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		issues = append(issues, "port must be in range 1-65535")
	}
	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if c.Mode == ModeClient && c.Clients < 1 {
		issues = append(issues, "clients must be >= 1")
	}
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
