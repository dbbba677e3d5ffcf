package device

import (
	"fmt"
	"strings"
)

// Fake is an in-memory Bridge for tests. It emulates the handful of android
// tools the accessors shell out to (getprop, setprop, settings, sysctl) over
// plain maps, and records every mutating call so tests can assert that
// dry runs touch nothing.
type Fake struct {
	Props    map[string]string
	Files    map[string]string
	Env      map[string]string
	Settings map[string]string // keyed "<namespace> <key>"

	// Missing marks commands HasCommand should deny.
	Missing map[string]bool
	// FailRun forces an error for any Run whose joined command line starts
	// with the given prefix.
	FailRun map[string]bool
	// FailWrite forces WriteFile errors per path.
	FailWrite map[string]bool

	// Calls records every Run, WriteFile and Setenv in order.
	Calls []string
}

func NewFake() *Fake {
	return &Fake{
		Props:     make(map[string]string),
		Files:     make(map[string]string),
		Env:       make(map[string]string),
		Settings:  make(map[string]string),
		Missing:   make(map[string]bool),
		FailRun:   make(map[string]bool),
		FailWrite: make(map[string]bool),
	}
}

func (f *Fake) Run(name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, line)

	for prefix := range f.FailRun {
		if strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("%s: forced failure", name)
		}
	}
	if f.Missing[name] {
		return "", fmt.Errorf("%s: not found", name)
	}

	switch name {
	case "getprop":
		if len(args) != 1 {
			return "", fmt.Errorf("getprop: want 1 arg, got %d", len(args))
		}
		return f.Props[args[0]], nil
	case "setprop":
		if len(args) != 2 {
			return "", fmt.Errorf("setprop: want 2 args, got %d", len(args))
		}
		if strings.HasPrefix(args[0], "ro.") {
			return "", fmt.Errorf("setprop: failed to set property '%s'", args[0])
		}
		f.Props[args[0]] = args[1]
		return "", nil
	case "settings":
		return f.settingsCmd(args)
	case "sysctl":
		return f.sysctlCmd(args)
	}
	return "", nil
}

func (f *Fake) settingsCmd(args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("settings: want get|put <namespace> <key>")
	}
	slot := args[1] + " " + args[2]
	switch args[0] {
	case "get":
		v, ok := f.Settings[slot]
		if !ok {
			// Real `settings get` prints the literal string null for
			// unknown keys.
			return "null", nil
		}
		return v, nil
	case "put":
		if len(args) != 4 {
			return "", fmt.Errorf("settings put: want <namespace> <key> <value>")
		}
		f.Settings[slot] = args[3]
		return "", nil
	}
	return "", fmt.Errorf("settings: unknown verb %q", args[0])
}

func (f *Fake) sysctlCmd(args []string) (string, error) {
	if len(args) != 2 || args[0] != "-w" {
		return "", fmt.Errorf("sysctl: want -w key=value")
	}
	key, value, ok := strings.Cut(args[1], "=")
	if !ok {
		return "", fmt.Errorf("sysctl: want -w key=value")
	}
	path := "/proc/sys/" + strings.ReplaceAll(key, ".", "/")
	if _, exists := f.Files[path]; !exists {
		return "", fmt.Errorf("sysctl: cannot stat %s: No such file or directory", path)
	}
	f.Files[path] = value
	return args[1], nil
}

func (f *Fake) ReadFile(path string) (string, error) {
	v, ok := f.Files[path]
	if !ok {
		return "", fmt.Errorf("cat: %s: No such file or directory", path)
	}
	return v, nil
}

func (f *Fake) WriteFile(path, value string) error {
	f.Calls = append(f.Calls, "write "+path+" "+value)
	if f.FailWrite[path] {
		return fmt.Errorf("write %s: permission denied", path)
	}
	f.Files[path] = value
	return nil
}

func (f *Fake) FileExists(path string) bool {
	_, ok := f.Files[path]
	return ok
}

func (f *Fake) HasCommand(name string) bool {
	return !f.Missing[name]
}

func (f *Fake) Getenv(name string) (string, bool) {
	v, ok := f.Env[name]
	return v, ok
}

func (f *Fake) Setenv(name, value string) error {
	f.Calls = append(f.Calls, "setenv "+name+" "+value)
	f.Env[name] = value
	return nil
}

func (f *Fake) Label() string {
	return "fake device"
}
