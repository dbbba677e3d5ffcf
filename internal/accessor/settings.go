package accessor

import (
	"fmt"
	"strings"

	"github.com/andronet-dev/andronet/internal/device"
)

// Settings drives the android settings database. Schema keys use the form
// settings.<namespace>.<name>, e.g. settings.global.wifi_sleep_policy.
type Settings struct {
	bridge device.Bridge
}

// SplitKey breaks settings.<namespace>.<name> into its parts. The name may
// itself contain dots; only the first two segments are structural.
func SplitKey(key string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(key, "settings.")
	if !ok {
		return "", "", fmt.Errorf("%w: settings key %q must start with \"settings.\"", ErrMalformedKey, key)
	}
	namespace, name, ok = strings.Cut(rest, ".")
	if !ok || namespace == "" || name == "" {
		return "", "", fmt.Errorf("%w: settings key %q must be settings.<namespace>.<name>", ErrMalformedKey, key)
	}
	return namespace, name, nil
}

func (s *Settings) Read(key string) (string, error) {
	namespace, name, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	if !s.bridge.HasCommand("settings") {
		return "", fmt.Errorf("%w: settings", ErrToolMissing)
	}
	out, err := s.bridge.Run("settings", "get", namespace, name)
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s/%s: %w", namespace, name, err)
	}
	// `settings get` prints the literal string null for keys that were
	// never written.
	if out == "null" {
		return "", nil
	}
	return out, nil
}

func (s *Settings) Write(key, value string) error {
	namespace, name, err := SplitKey(key)
	if err != nil {
		return err
	}
	if !s.bridge.HasCommand("settings") {
		return fmt.Errorf("%w: settings", ErrToolMissing)
	}
	if _, err := s.bridge.Run("settings", "put", namespace, name, value); err != nil {
		return fmt.Errorf("failed to write setting %s/%s: %w", namespace, name, err)
	}
	return nil
}

func (s *Settings) Name() string {
	return "android setting"
}
