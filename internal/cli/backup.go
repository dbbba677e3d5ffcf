package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/engine"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Save the current device settings to a named backup",
	Long: `Read every schema setting from the device and save the values as a
named backup in the backup directory. The backup can be restored later by
name or by file path.

Unreadable settings are kept in the backup with an empty value and are
skipped on restore.`,
	Example: `  # Save everything under the default name "manual"
  andronet backup

  # A named backup with a note
  andronet backup --name before-roaming --description "leaving for vacation"

  # Only the android settings
  andronet backup --type android_specific`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup(cmd)
	},
}

func init() {
	backupCmd.Flags().SortFlags = false
	backupCmd.Flags().String("name", "manual", "backup name")
	backupCmd.Flags().String("description", "", "free-form note stored in the backup index")
	backupCmd.Flags().String("type", "", "back up one category type only")
	backupCmd.Flags().String("category", "", "back up one category name only")
}

var boldStyle = lipgloss.NewStyle().Bold(true)

func runBackup(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	typeFlag, _ := cmd.Flags().GetString("type")
	categoryFlag, _ := cmd.Flags().GetString("category")

	full, err := loadCatalog()
	if err != nil {
		return err
	}
	scoped, err := scopeCatalog(full, typeFlag, categoryFlag)
	if err != nil {
		return err
	}

	if description == "" && !cmd.Flags().Changed("description") && ui.HasTTY() {
		description, err = ui.Input("Backup description (optional)", "state before office wifi change")
		if err != nil {
			return err
		}
	}

	b, err := bridge()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Header("AndroNet Backup")
	fmt.Println()
	ui.Muted(fmt.Sprintf("Target: %s", b.Label()))
	fmt.Println()

	snap, result, err := engine.Read(engine.ReadOptions{
		Catalog: scoped,
		Bridge:  b,
		Log:     log,
	})
	if err != nil {
		return err
	}

	store := snapshot.NewStore(cfg.BackupDir)
	path, err := store.Save(snap, name, time.Now())
	if err != nil {
		return err
	}

	index := snapshot.NewIndex(cfg.BackupDir)
	rec := snapshot.Record{
		Name:        name,
		File:        filepath.Base(path),
		Timestamp:   snap.Timestamp,
		Description: description,
		CreatedBy:   "andronet backup",
	}
	if err := index.Append(rec); err != nil {
		ui.Warn(fmt.Sprintf("Could not update backup index: %v", err))
	}

	if result.Unreadable > 0 {
		ui.Warn(fmt.Sprintf("Backup is partial: %d setting(s) could not be read", result.Unreadable))
		ui.Muted("  The backup was saved but may be incomplete.")
	}

	fmt.Println()
	ui.Success("Backup saved successfully!")
	fmt.Println()
	fmt.Printf("  %s %d setting(s) in %d group(s)\n", boldStyle.Render("Saved:"), snap.EntryCount(), len(snap.Groups))
	fmt.Printf("  %s %s\n", boldStyle.Render("Location:"), path)
	fmt.Println()
	fmt.Println(boldStyle.Render("  Restore this backup:"))
	fmt.Printf("    %s\n", ui.Gray("andronet restore "+name))
	fmt.Println()
	return nil
}
