// config.go - Configuration management for stealthctl
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"stealthcoin/internal/curve"
)

const envPrefix = "STEALTH"

const (
	keyGeneratorSeed = "generator_seed"
	keyGeneratorDST  = "generator_dst"
	keyScalarDST     = "scalar_dst"
	keyLogLevel      = "log_level"
	keyLogFile       = "log_file"
	keyEnableAudit   = "enable_audit"
	keyAuditLogPath  = "audit_log_path"
	keyWorkers       = "workers"
)

// Config represents the application configuration
type Config struct {
	// Curve settings, must match the deployed contract
	GeneratorSeed string `json:"generator_seed" mapstructure:"generator_seed"`
	GeneratorDST  string `json:"generator_dst" mapstructure:"generator_dst"`
	ScalarDST     string `json:"scalar_dst" mapstructure:"scalar_dst"`

	// Logging
	LogLevel string `json:"log_level" mapstructure:"log_level"`
	LogFile  string `json:"log_file" mapstructure:"log_file"`

	// Security
	EnableAudit  bool   `json:"enable_audit" mapstructure:"enable_audit"`
	AuditLogPath string `json:"audit_log_path" mapstructure:"audit_log_path"`

	// Performance
	Workers int `json:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		GeneratorSeed: curve.DefaultGeneratorSeed,
		GeneratorDST:  curve.DefaultGeneratorDST,
		ScalarDST:     curve.DefaultScalarDST,
		LogLevel:      "info",
		LogFile:       "",
		EnableAudit:   false,
		AuditLogPath:  "audit.log",
		Workers:       4,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault(keyGeneratorSeed, def.GeneratorSeed)
	v.SetDefault(keyGeneratorDST, def.GeneratorDST)
	v.SetDefault(keyScalarDST, def.ScalarDST)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFile, def.LogFile)
	v.SetDefault(keyEnableAudit, def.EnableAudit)
	v.SetDefault(keyAuditLogPath, def.AuditLogPath)
	v.SetDefault(keyWorkers, def.Workers)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads defaults, then the optional config file, then STEALTH_*
// environment variables. An empty path skips the file.
func LoadConfig(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves configuration to file. The format follows the file extension.
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set(keyGeneratorSeed, config.GeneratorSeed)
	v.Set(keyGeneratorDST, config.GeneratorDST)
	v.Set(keyScalarDST, config.ScalarDST)
	v.Set(keyLogLevel, config.LogLevel)
	v.Set(keyLogFile, config.LogFile)
	v.Set(keyEnableAudit, config.EnableAudit)
	v.Set(keyAuditLogPath, config.AuditLogPath)
	v.Set(keyWorkers, config.Workers)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GeneratorSeed == "" {
		return errors.New("generator_seed must not be empty")
	}
	if len(c.GeneratorDST) == 0 || len(c.GeneratorDST) > 255 {
		return errors.New("generator_dst must be 1 to 255 bytes")
	}
	if c.ScalarDST == "" {
		return errors.New("scalar_dst must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.EnableAudit && c.AuditLogPath == "" {
		return errors.New("audit_log_path is required when enable_audit is set")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	return nil
}

// CurveConfig returns the curve settings of c.
func (c *Config) CurveConfig() curve.Config {
	return curve.Config{
		GeneratorSeed: c.GeneratorSeed,
		GeneratorDST:  c.GeneratorDST,
		ScalarDST:     c.ScalarDST,
	}
}
