package storage

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

type Config struct {
	Mode            Mode
	LocalDir        string
	Bucket          string
	EmulatorHost    string
	CredentialsJSON string
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingDir          ConfigErrorCode = "missing_dir"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid artifact store config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid ARTIFACT_STORE=%q (allowed: %q, %q, %q)", e.Mode, ModeLocal, ModeGCS, ModeGCSEmulator)
	case ConfigErrorMissingDir:
		return "ARTIFACT_STORE=local requires ARTIFACT_DIR"
	case ConfigErrorMissingBucket:
		return fmt.Sprintf("ARTIFACT_STORE=%q requires GCS_BUCKET_NAME", e.Mode)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("ARTIFACT_STORE=%q requires STORAGE_EMULATOR_HOST", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.EmulatorHost)
	default:
		return "invalid artifact store config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Normalize lower-cases the mode, defaulting to local, and falls back to the
// emulator when only an emulator host is configured.
func (cfg Config) Normalize() Config {
	cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	if cfg.Mode == "" {
		if cfg.EmulatorHost != "" && cfg.Bucket != "" {
			cfg.Mode = ModeGCSEmulator
		} else {
			cfg.Mode = ModeLocal
		}
	}
	return cfg
}

func (cfg Config) Validate() error {
	switch cfg.Mode {
	case ModeLocal:
		if strings.TrimSpace(cfg.LocalDir) == "" {
			return &ConfigError{Code: ConfigErrorMissingDir, Mode: string(cfg.Mode)}
		}
		return nil
	case ModeGCS, ModeGCSEmulator:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
		}
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if cfg.Mode != ModeGCSEmulator {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{
			Code:         ConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	return nil
}
