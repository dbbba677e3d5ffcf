package config

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed data/android-network-keys.json
var defaultSchema []byte

// DefaultSchemaFileName is the name the bundled schema is written under
// when a copy is materialized next to a config file.
const DefaultSchemaFileName = "android-network-keys.json"

// Config carries the resolved runtime options every command works from:
// flags layered over environment variables layered over the config file.
type Config struct {
	SchemaPath string // empty means the bundled schema
	BackupDir  string
	Serial     string
	ADB        bool
	Local      bool
	Debug      bool
	NoColor    bool
	Output     string
}

// DefaultSchema returns the schema bundled into the binary.
func DefaultSchema() []byte {
	return defaultSchema
}

// DefaultBackupDir returns ~/.andronet/backups, or empty when the home
// directory cannot be resolved.
func DefaultBackupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".andronet", "backups")
}
