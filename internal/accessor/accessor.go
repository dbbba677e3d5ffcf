// Package accessor maps each category type onto the concrete read/write
// mechanism the device exposes for it: getprop/setprop for system
// properties, /proc/sys files for kernel parameters, the shell environment
// for environment variables, and the settings tool for android settings.
package accessor

import (
	"errors"
	"fmt"

	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/schema"
)

var (
	// ErrToolMissing marks reads/writes that failed because the device
	// lacks the required tool, not because the value is bad.
	ErrToolMissing = errors.New("required tool not available")

	// ErrMalformedKey marks keys that do not fit the shape their
	// category type requires.
	ErrMalformedKey = errors.New("malformed key")
)

// Accessor reads and writes one category type's settings. Read returns the
// live value, with "not set" normalized to the empty string where the
// underlying tool has such a notion.
type Accessor interface {
	Read(key string) (string, error)
	Write(key, value string) error
	Name() string
}

// ForType returns the accessor for a category type.
func ForType(ctype schema.CategoryType, bridge device.Bridge) (Accessor, error) {
	switch ctype {
	case schema.SystemProperties:
		return &Properties{bridge: bridge}, nil
	case schema.KernelParameters:
		return &Kernel{bridge: bridge}, nil
	case schema.EnvironmentVariables:
		return &Environment{bridge: bridge}, nil
	case schema.AndroidSpecific:
		return &Settings{bridge: bridge}, nil
	}
	return nil, fmt.Errorf("no accessor for category type %q", ctype)
}
