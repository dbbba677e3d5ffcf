package device

import (
	"fmt"
	"os/exec"

	"github.com/andronet-dev/andronet/internal/logger"
)

// Bridge abstracts where accessor operations execute: directly on the local
// host, or on a device reached through adb. Accessors never touch the OS
// except through a Bridge.
type Bridge interface {
	// Run executes a command and returns its trimmed combined output.
	Run(name string, args ...string) (string, error)
	// ReadFile returns the trimmed content of a file on the target.
	ReadFile(path string) (string, error)
	// WriteFile replaces the content of a file on the target.
	WriteFile(path, value string) error
	// FileExists reports whether a path exists on the target.
	FileExists(path string) bool
	// HasCommand reports whether a command is available on the target.
	HasCommand(name string) bool
	// Getenv looks up an environment variable on the target.
	Getenv(name string) (string, bool)
	// Setenv exports an environment variable on the target. The effect is
	// scoped to the current session and does not persist.
	Setenv(name, value string) error
	// Label names the target for user-facing output.
	Label() string
}

// Detect picks a bridge: a device serial forces adb, a host that carries the
// platform tools itself is used directly, otherwise adb is tried.
func Detect(serial string, log *logger.Logger) (Bridge, error) {
	if serial != "" {
		return NewADB(serial, log), nil
	}
	if _, err := exec.LookPath("getprop"); err == nil {
		return NewLocal(log), nil
	}
	if _, err := exec.LookPath("adb"); err == nil {
		return NewADB("", log), nil
	}
	return nil, fmt.Errorf("no android target found: neither getprop nor adb is on PATH (use --local or --adb to force a mode)")
}
