package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/config"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the schema, backups and target device",
	Long: `Run diagnostic checks before touching anything.

Checks performed:
- Schema parses and yields settings
- Config file, when present
- Backup directory is writable
- A target device is reachable
- Platform tools on the target (getprop, setprop, settings, sysctl)
- Kernel parameter tree (/proc/sys/net)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

type checkResult struct {
	name    string
	status  string
	message string
}

func runDoctor() error {
	fmt.Println()
	ui.Header("AndroNet Doctor")
	fmt.Println()

	var results []checkResult
	var issues int

	results = append(results, checkSchema()...)
	results = append(results, checkConfigFile()...)
	results = append(results, checkBackupDir()...)
	results = append(results, checkTarget()...)

	for _, r := range results {
		switch r.status {
		case "ok":
			fmt.Printf("  %s %s\n", ui.Green("✓"), r.name)
		case "warn":
			fmt.Printf("  %s %s: %s\n", ui.Yellow("!"), r.name, r.message)
			issues++
		case "error":
			fmt.Printf("  %s %s: %s\n", ui.Red("✗"), r.name, r.message)
			issues++
		case "info":
			fmt.Printf("  %s %s: %s\n", ui.Cyan("i"), r.name, r.message)
		}
	}

	fmt.Println()
	if issues == 0 {
		ui.Success("All checks passed! The device is ready to configure.")
	} else {
		ui.Muted(fmt.Sprintf("Found %d issue(s).", issues))
	}
	fmt.Println()

	return nil
}

func checkSchema() []checkResult {
	source := "bundled"
	if cfg.SchemaPath != "" {
		source = cfg.SchemaPath
	}

	cat, err := loadCatalog()
	if err != nil {
		return []checkResult{{
			name:    fmt.Sprintf("Schema (%s)", source),
			status:  "error",
			message: err.Error(),
		}}
	}

	return []checkResult{{
		name: fmt.Sprintf("Schema (%s): %d settings in %d categories, %d applyable",
			source, cat.Len(), cat.CategoryCount(), cat.ApplyableCount()),
		status: "ok",
	}}
}

func checkConfigFile() []checkResult {
	path := config.Locate()
	if path == "" {
		return []checkResult{{
			name:    "Config file",
			status:  "info",
			message: "none found (flags and defaults apply)",
		}}
	}

	if _, err := config.LoadFileConfig(path); err != nil {
		return []checkResult{{
			name:    fmt.Sprintf("Config file (%s)", path),
			status:  "error",
			message: err.Error(),
		}}
	}
	return []checkResult{{
		name:   fmt.Sprintf("Config file (%s)", path),
		status: "ok",
	}}
}

func checkBackupDir() []checkResult {
	var results []checkResult

	if err := os.MkdirAll(cfg.BackupDir, 0700); err != nil {
		return []checkResult{{
			name:    "Backup directory",
			status:  "error",
			message: fmt.Sprintf("cannot create %s: %v", cfg.BackupDir, err),
		}}
	}

	probe := filepath.Join(cfg.BackupDir, ".andronet-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return []checkResult{{
			name:    "Backup directory",
			status:  "error",
			message: fmt.Sprintf("not writable: %v", err),
		}}
	}
	_ = os.Remove(probe)

	results = append(results, checkResult{
		name:   fmt.Sprintf("Backup directory writable (%s)", cfg.BackupDir),
		status: "ok",
	})

	files, err := snapshot.NewStore(cfg.BackupDir).List()
	if err != nil {
		results = append(results, checkResult{
			name:    "Backup files",
			status:  "warn",
			message: err.Error(),
		})
		return results
	}

	if records, err := snapshot.NewIndex(cfg.BackupDir).Records(); err != nil {
		results = append(results, checkResult{
			name:    "Backup index",
			status:  "warn",
			message: err.Error(),
		})
	} else if len(records) != len(files) {
		results = append(results, checkResult{
			name:    "Backup index",
			status:  "warn",
			message: fmt.Sprintf("%d snapshot file(s) on disk but %d indexed", len(files), len(records)),
		})
	} else if len(records) > 0 {
		results = append(results, checkResult{
			name:    "Backups",
			status:  "info",
			message: fmt.Sprintf("%d saved, all indexed", len(records)),
		})
	}

	return results
}

func checkTarget() []checkResult {
	b, err := bridge()
	if err != nil {
		return []checkResult{{
			name:    "Target device",
			status:  "error",
			message: err.Error(),
		}}
	}

	var results []checkResult

	release, err := b.Run("getprop", "ro.build.version.release")
	if err != nil || release == "" {
		results = append(results, checkResult{
			name:    fmt.Sprintf("Target device (%s)", b.Label()),
			status:  "warn",
			message: "reachable but getprop returned nothing",
		})
	} else {
		results = append(results, checkResult{
			name:   fmt.Sprintf("Target device (%s): Android %s", b.Label(), release),
			status: "ok",
		})
	}

	tools := []struct {
		name    string
		status  string
		message string
	}{
		{"getprop", "error", "system properties cannot be read"},
		{"setprop", "warn", "system properties cannot be written"},
		{"settings", "warn", "android settings are unavailable"},
		{"sysctl", "info", "kernel writes fall back to /proc/sys files"},
	}
	for _, tool := range tools {
		if b.HasCommand(tool.name) {
			results = append(results, checkResult{
				name:   fmt.Sprintf("%s available", tool.name),
				status: "ok",
			})
		} else {
			results = append(results, checkResult{
				name:    tool.name,
				status:  tool.status,
				message: tool.message,
			})
		}
	}

	if b.FileExists("/proc/sys/net") {
		results = append(results, checkResult{
			name:   "/proc/sys/net present",
			status: "ok",
		})
	} else {
		results = append(results, checkResult{
			name:    "/proc/sys/net",
			status:  "warn",
			message: "kernel parameters are unavailable",
		})
	}

	return results
}
