package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func BuildTestBinary(t *testing.T) string {
	tmpDir, err := os.MkdirTemp("", "andronet-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	binaryPath := filepath.Join(tmpDir, "andronet")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/andronet")

	projectRoot := findProjectRoot(t)
	cmd.Dir = projectRoot

	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	return binaryPath
}

func findProjectRoot(t *testing.T) string {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatalf("could not find project root (go.mod)")
		}
		wd = parent
	}
}

type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RunBinary executes the built binary with extra environment entries layered
// over the test process environment.
func RunBinary(binary string, env []string, args ...string) CommandResult {
	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		result.ExitCode = -1
	}
	return result
}

func AssertCommandSuccess(t *testing.T, result CommandResult) {
	if result.Err != nil {
		t.Errorf("expected command to succeed, got error: %v\nstdout: %s\nstderr: %s", result.Err, result.Stdout, result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

func AssertCommandFailure(t *testing.T, result CommandResult) {
	if result.ExitCode == 0 {
		t.Errorf("expected command to fail, but exit code was 0")
	}
}

// FakeDeviceTools writes shell-script stand-ins for getprop, setprop and
// settings into a fresh directory and returns that directory, ready to be
// prepended to PATH. State lives in files under <dir>/.state so values
// written by one invocation are visible to the next.
func FakeDeviceTools(t *testing.T) string {
	binDir := t.TempDir()
	stateDir := filepath.Join(binDir, ".state")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}

	writeTool(t, binDir, "getprop", strings.ReplaceAll(`#!/bin/sh
f="@STATE@/props"
[ -f "$f" ] || exit 0
while IFS='=' read -r k v; do
  [ "$k" = "$1" ] && { printf '%s\n' "$v"; exit 0; }
done < "$f"
exit 0
`, "@STATE@", stateDir))

	writeTool(t, binDir, "setprop", strings.ReplaceAll(`#!/bin/sh
f="@STATE@/props"
case "$1" in
  ro.*) echo "setprop: failed to set property '$1'" >&2; exit 1;;
esac
tmp="$f.tmp"
[ -f "$f" ] && grep -v "^$1=" "$f" > "$tmp" 2>/dev/null
printf '%s=%s\n' "$1" "$2" >> "$tmp"
mv "$tmp" "$f"
`, "@STATE@", stateDir))

	writeTool(t, binDir, "settings", strings.ReplaceAll(`#!/bin/sh
f="@STATE@/settings"
case "$1" in
  get)
    if [ -f "$f" ]; then
      while IFS='=' read -r k v; do
        [ "$k" = "$2/$3" ] && { printf '%s\n' "$v"; exit 0; }
      done < "$f"
    fi
    echo null
    ;;
  put)
    tmp="$f.tmp"
    [ -f "$f" ] && grep -v "^$2/$3=" "$f" > "$tmp" 2>/dev/null
    printf '%s=%s\n' "$2/$3" "$4" >> "$tmp"
    mv "$tmp" "$f"
    ;;
  *)
    exit 1
    ;;
esac
`, "@STATE@", stateDir))

	// sysctl only needs to exist for tool probes; the tests never apply
	// kernel parameters through the fake.
	writeTool(t, binDir, "sysctl", `#!/bin/sh
echo "$2"
`)

	return binDir
}

func writeTool(t *testing.T, dir, name, script string) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake %s: %v", name, err)
	}
}

// SeedProperty plants a property value the fake getprop will report.
func SeedProperty(t *testing.T, toolDir, key, value string) {
	appendState(t, filepath.Join(toolDir, ".state", "props"), key+"="+value+"\n")
}

// SeedSetting plants a settings-database value the fake settings tool will
// report for `settings get <namespace> <name>`.
func SeedSetting(t *testing.T, toolDir, namespace, name, value string) {
	appendState(t, filepath.Join(toolDir, ".state", "settings"), namespace+"/"+name+"="+value+"\n")
}

// ReadFakeProperty returns what the fake device currently stores for key,
// or "" when it was never set.
func ReadFakeProperty(t *testing.T, toolDir, key string) string {
	data, err := os.ReadFile(filepath.Join(toolDir, ".state", "props"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok && k == key {
			return v
		}
	}
	return ""
}

func appendState(t *testing.T, path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("failed to open state file: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		t.Fatalf("failed to seed state: %v", err)
	}
}
