package accessor

import (
	"fmt"
	"strings"

	"github.com/andronet-dev/andronet/internal/device"
)

// Properties drives android system properties through getprop/setprop.
type Properties struct {
	bridge device.Bridge
}

func (p *Properties) Read(key string) (string, error) {
	if !p.bridge.HasCommand("getprop") {
		return "", fmt.Errorf("%w: getprop", ErrToolMissing)
	}
	out, err := p.bridge.Run("getprop", key)
	if err != nil {
		return "", fmt.Errorf("failed to read property %s: %w", key, err)
	}
	return out, nil
}

func (p *Properties) Write(key, value string) error {
	if !p.bridge.HasCommand("setprop") {
		return fmt.Errorf("%w: setprop", ErrToolMissing)
	}
	out, err := p.bridge.Run("setprop", key, value)
	if err != nil {
		if strings.HasPrefix(key, "ro.") {
			return fmt.Errorf("property %s is read-only after boot: %w", key, err)
		}
		if out != "" {
			return fmt.Errorf("failed to set property %s: %s", key, out)
		}
		return fmt.Errorf("failed to set property %s: %w", key, err)
	}
	return nil
}

func (p *Properties) Name() string {
	return "system property"
}
