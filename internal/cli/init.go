package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/config"
	"github.com/andronet-dev/andronet/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .andronet.yml in the current directory",
	Long: `Write a commented starter config file to the current directory.

The file is optional: andronet works without one, using the bundled
schema and default paths. Use --schema-copy to also write the bundled
schema next to the config so it can be reviewed and edited.`,
	Example: `  # Create .andronet.yml
  andronet init

  # Create the config plus an editable copy of the schema
  andronet init --schema-copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		schemaCopy, _ := cmd.Flags().GetBool("schema-copy")
		return runInit(force, schemaCopy)
	},
}

func init() {
	initCmd.Flags().SortFlags = false
	initCmd.Flags().Bool("force", false, "overwrite existing files")
	initCmd.Flags().Bool("schema-copy", false, "also write the bundled schema next to the config")
}

const starterConfig = `version: "1.0"

# Path to the settings schema. Defaults to the bundled copy.
#schema: android-network-keys.json

# Where backups are written. Defaults to ~/.andronet/backups.
#backup_dir: ~/.andronet/backups

# Pin a device serial for adb. Defaults to auto-detection.
#serial: emulator-5554

# Default output format for 'read' (table, compact or json).
#output: table
`

func runInit(force, schemaCopy bool) error {
	if _, err := os.Stat(config.ProjectConfigFileName); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.ProjectConfigFileName)
	}

	content := starterConfig
	if schemaCopy {
		if _, err := os.Stat(config.DefaultSchemaFileName); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.DefaultSchemaFileName)
		}
		if err := os.WriteFile(config.DefaultSchemaFileName, config.DefaultSchema(), 0644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		content = strings.Replace(content,
			"#schema: "+config.DefaultSchemaFileName,
			"schema: "+config.DefaultSchemaFileName, 1)
		ui.Success(fmt.Sprintf("Created %s", config.DefaultSchemaFileName))
	}

	if err := os.WriteFile(config.ProjectConfigFileName, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", config.ProjectConfigFileName))
	ui.Muted("Edit it, then run 'andronet doctor' to verify your setup.")
	return nil
}
