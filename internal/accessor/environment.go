package accessor

import (
	"fmt"
	"strings"

	"github.com/andronet-dev/andronet/internal/device"
)

// Environment drives shell environment variables. Unset variables read as
// the empty string, and writes only last for the current session.
type Environment struct {
	bridge device.Bridge
}

func (e *Environment) Read(key string) (string, error) {
	if err := validateEnvName(key); err != nil {
		return "", err
	}
	value, _ := e.bridge.Getenv(key)
	return value, nil
}

func (e *Environment) Write(key, value string) error {
	if err := validateEnvName(key); err != nil {
		return err
	}
	if err := e.bridge.Setenv(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (e *Environment) Name() string {
	return "environment variable"
}

func validateEnvName(key string) error {
	if key == "" || strings.ContainsAny(key, "= \t") {
		return fmt.Errorf("%w: %q is not an environment variable name", ErrMalformedKey, key)
	}
	return nil
}
