package accessor

import (
	"fmt"
	"strings"

	"github.com/andronet-dev/andronet/internal/device"
)

// Kernel drives sysctl parameters. Keys are the full /proc/sys paths from
// the schema; writes go through `sysctl -w` when available and fall back to
// writing the proc file directly.
type Kernel struct {
	bridge device.Bridge
}

func (k *Kernel) Read(key string) (string, error) {
	if err := validateProcPath(key); err != nil {
		return "", err
	}
	if !k.bridge.FileExists(key) {
		return "", fmt.Errorf("kernel parameter %s does not exist on this device", key)
	}
	out, err := k.bridge.ReadFile(key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return out, nil
}

func (k *Kernel) Write(key, value string) error {
	if err := validateProcPath(key); err != nil {
		return err
	}
	if !k.bridge.FileExists(key) {
		return fmt.Errorf("kernel parameter %s does not exist on this device", key)
	}
	if k.bridge.HasCommand("sysctl") {
		if _, err := k.bridge.Run("sysctl", "-w", dottedName(key)+"="+value); err == nil {
			return nil
		}
	}
	if err := k.bridge.WriteFile(key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (k *Kernel) Name() string {
	return "kernel parameter"
}

// dottedName turns /proc/sys/net/ipv4/tcp_keepalive_time into the
// net.ipv4.tcp_keepalive_time form sysctl expects.
func dottedName(path string) string {
	return strings.ReplaceAll(strings.TrimPrefix(path, "/proc/sys/"), "/", ".")
}

func validateProcPath(key string) error {
	if !strings.HasPrefix(key, "/proc/sys/") {
		return fmt.Errorf("%w: kernel parameter key %q must be a path under /proc/sys/", ErrMalformedKey, key)
	}
	return nil
}
