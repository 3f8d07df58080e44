package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to the envconfig key of every Config field.
const EnvPrefix = "PAYSTREAM"

// parseEnv overlays cfg with the PAYSTREAM_* variables that are set. Unset
// variables leave the current value in place.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}
	return nil
}
