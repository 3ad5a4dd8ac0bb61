// SPDX-License-Identifier: EPL-2.0

// Package config loads the audshout service configuration from YAML.
package config

import (
	"log/slog"
	"time"

	"github.com/ik5/audshout/shout"
)

// LogLevel is a slog level name.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is one of the known level names.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level converts l to a slog level. Unknown names map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root of the service configuration file.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Detector shout.Config `yaml:"detector"`
	Fetch    FetchConfig  `yaml:"fetch"`
	S3       S3Config     `yaml:"s3"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	ListenAddr string   `yaml:"listen_addr" validate:"required,hostname_port"`
	LogLevel   LogLevel `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat  string   `yaml:"log_format" validate:"omitempty,oneof=text json"`

	// AnalyzeTimeout bounds fetch, decode and detection of one request.
	AnalyzeTimeout  time.Duration `yaml:"analyze_timeout" validate:"gt=0s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0s"`
	// MaxUploadBytes limits raw bodies posted to /detect.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" validate:"gte=1024"`
}

// FetchConfig controls downloads of remote audio.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0s"`
	MaxBytes  int64         `yaml:"max_bytes" validate:"gte=1024"`
	UserAgent string        `yaml:"user_agent"`
}

// S3Config holds the object storage credentials used for s3:// audio URLs.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
	// Bucket is used for s3 URLs that do not name one.
	Bucket string `yaml:"bucket"`
}

// IsConfigured reports whether S3 credentials are present.
func (c S3Config) IsConfigured() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			LogLevel:        LogInfo,
			LogFormat:       "text",
			AnalyzeTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  64 << 20,
		},
		Detector: shout.DefaultConfig(),
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			MaxBytes:  64 << 20,
			UserAgent: "audshout",
		},
	}
}
