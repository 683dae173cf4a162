// SPDX-License-Identifier: EPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by FromEnv.
const (
	EnvBackend         = "AUDMIX_BACKEND"
	EnvSampleRate      = "AUDMIX_SAMPLE_RATE"
	EnvChannels        = "AUDMIX_CHANNELS"
	EnvMasterVolume    = "AUDMIX_MASTER_VOLUME"
	EnvMinimumVolume   = "AUDMIX_MIN_VOLUME"
	EnvCategoryVolumes = "AUDMIX_CATEGORY_VOLUMES"
	EnvAssetRoot       = "AUDMIX_ASSET_ROOT"
)

// FromEnv overrides fields of cfg from the environment. The master volume
// is given in percent (0-100) and clamped; category volumes are a JSON
// object such as {"sfx":0.5,"ui":1}. Every malformed variable is reported.
func FromEnv(cfg *Config) error {
	var errs []error

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}

	if v := os.Getenv(EnvAssetRoot); v != "" {
		cfg.AssetRoot = v
	}

	if v := os.Getenv(EnvSampleRate); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleRate = n
		} else {
			errs = append(errs, envError(EnvSampleRate, v))
		}
	}

	if v := os.Getenv(EnvChannels); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Channels = n
		} else {
			errs = append(errs, envError(EnvChannels, v))
		}
	}

	if v := os.Getenv(EnvMasterVolume); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MasterVolume = min(max(float64(n)/100, 0), 1)
		} else {
			errs = append(errs, envError(EnvMasterVolume, v))
		}
	}

	if v := os.Getenv(EnvMinimumVolume); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinimumVolume = f
		} else {
			errs = append(errs, envError(EnvMinimumVolume, v))
		}
	}

	if v := os.Getenv(EnvCategoryVolumes); v != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(v), &volumes); err == nil {
			if cfg.Categories == nil {
				cfg.Categories = make(map[string]float64, len(volumes))
			}
			for name, vol := range volumes {
				cfg.Categories[name] = vol
			}
		} else {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvCategoryVolumes, err))
		}
	}

	return errors.Join(errs...)
}

func envError(key, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value)
}
