package device

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/andronet-dev/andronet/internal/logger"
)

// ADB routes every operation through `adb shell` to an attached device.
// An empty serial lets adb pick the only connected device.
type ADB struct {
	serial string
	log    *logger.Logger
}

func NewADB(serial string, log *logger.Logger) *ADB {
	if log == nil {
		log = logger.Discard()
	}
	return &ADB{serial: serial, log: log.WithComponent("adb")}
}

func (a *ADB) Run(name string, args ...string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, shellQuote(arg))
	}
	return a.shell(strings.Join(parts, " "))
}

func (a *ADB) ReadFile(path string) (string, error) {
	return a.shell("cat " + shellQuote(path))
}

func (a *ADB) WriteFile(path, value string) error {
	_, err := a.shell(fmt.Sprintf("echo %s > %s", shellQuote(value), shellQuote(path)))
	return err
}

func (a *ADB) FileExists(path string) bool {
	// Echoing the verdict avoids relying on exit-status forwarding, which
	// older adb versions do not do.
	out, err := a.shell(fmt.Sprintf("[ -e %s ] && echo yes || echo no", shellQuote(path)))
	return err == nil && out == "yes"
}

func (a *ADB) HasCommand(name string) bool {
	out, err := a.shell("command -v " + shellQuote(name))
	return err == nil && out != ""
}

// Getenv queries the device shell environment. Unset and set-but-empty are
// indistinguishable through a one-shot shell, so empty output reads as unset.
func (a *ADB) Getenv(name string) (string, bool) {
	out, err := a.shell("printenv " + shellQuote(name))
	if err != nil || out == "" {
		return "", false
	}
	return out, true
}

// Setenv exports into a one-shot device shell. The export dies with that
// shell; environment writes through adb never outlive the session.
func (a *ADB) Setenv(name, value string) error {
	_, err := a.shell(fmt.Sprintf("export %s=%s", name, shellQuote(value)))
	return err
}

func (a *ADB) Label() string {
	if a.serial != "" {
		return "adb device " + a.serial
	}
	return "adb device"
}

func (a *ADB) shell(cmdline string) (string, error) {
	args := make([]string, 0, 4)
	if a.serial != "" {
		args = append(args, "-s", a.serial)
	}
	args = append(args, "shell", cmdline)

	start := time.Now()
	cmd := exec.Command("adb", args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	a.log.Debug().
		Str("cmd", "adb "+strings.Join(args, " ")).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("shell")
	return out, err
}

// shellQuote single-quotes s for the device shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
