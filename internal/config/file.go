package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfigFileName is the per-directory config file.
const ProjectConfigFileName = ".andronet.yml"

// FileConfig is the optional on-disk configuration. Flags and environment
// variables override anything set here.
type FileConfig struct {
	Version   string `yaml:"version"`
	Schema    string `yaml:"schema,omitempty"`
	BackupDir string `yaml:"backup_dir,omitempty"`
	Serial    string `yaml:"serial,omitempty"`
	Output    string `yaml:"output,omitempty"`
}

// Locate returns the config file to use: .andronet.yml in the working
// directory first, then ~/.andronet/config.yml. Empty when neither exists.
func Locate() string {
	if _, err := os.Stat(ProjectConfigFileName); err == nil {
		return ProjectConfigFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".andronet", "config.yml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// LoadFileConfig reads and validates one config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &fc, nil
}

// Validate checks the config file version gate.
func (fc *FileConfig) Validate() error {
	if fc.Version == "" {
		return fmt.Errorf("version field is required")
	}

	if fc.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (supported: 1.0)", fc.Version)
	}

	return nil
}
