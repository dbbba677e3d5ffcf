package device

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/andronet-dev/andronet/internal/logger"
)

// Local executes everything directly on this host. Meant for runs on the
// Android/Linux target itself, where getprop and friends are on PATH.
type Local struct {
	log *logger.Logger
}

func NewLocal(log *logger.Logger) *Local {
	if log == nil {
		log = logger.Discard()
	}
	return &Local{log: log.WithComponent("local")}
}

func (l *Local) Run(name string, args ...string) (string, error) {
	start := time.Now()
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	l.log.Debug().
		Str("cmd", name+" "+strings.Join(args, " ")).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("run")
	return out, err
}

func (l *Local) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (l *Local) WriteFile(path, value string) error {
	l.log.Debug().Str("path", path).Str("value", value).Msg("write file")
	return os.WriteFile(path, []byte(value+"\n"), 0644)
}

func (l *Local) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *Local) HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (l *Local) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (l *Local) Setenv(name, value string) error {
	l.log.Debug().Str("name", name).Str("value", value).Msg("setenv")
	return os.Setenv(name, value)
}

func (l *Local) Label() string {
	return "local host"
}
