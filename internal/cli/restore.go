package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/engine"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [name-or-file]",
	Short: "Write a backup's captured values back to the device",
	Long: `Restore device settings from a backup.

The argument is resolved against the backup index first: a name like
pre-apply or manual picks the earliest backup saved under that name.
Anything that is not an indexed name is treated as a snapshot file path.
--name and --file skip that guessing. With no argument at all, an
interactive picker lists the indexed backups.

Entries captured with an empty value are skipped, so a backup taken on a
device where some settings were unreadable never writes empty strings.`,
	Example: `  # Roll back the last apply
  andronet restore pre-apply

  # Preview what a restore would write
  andronet restore pre-apply --dry-run

  # Restore from a file that was moved elsewhere
  andronet restore --file /tmp/before-roaming-20260825-103000.json

  # Pick from the list of backups
  andronet restore`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return runRestore(cmd, target)
	},
}

func init() {
	restoreCmd.Flags().SortFlags = false
	restoreCmd.Flags().Bool("dry-run", false, "preview changes without writing anything")
	restoreCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	restoreCmd.Flags().String("name", "", "restore the backup with this index name")
	restoreCmd.Flags().String("file", "", "restore directly from a snapshot file")
}

func runRestore(cmd *cobra.Command, target string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	nameFlag, _ := cmd.Flags().GetString("name")
	fileFlag, _ := cmd.Flags().GetString("file")

	if !dryRun && !yes && !ui.HasTTY() {
		return fmt.Errorf("confirmation required: run with --yes in non-interactive sessions")
	}

	var (
		snap *snapshot.Snapshot
		path string
		rec  *snapshot.Record
		err  error
	)
	switch {
	case target != "" && (nameFlag != "" || fileFlag != ""):
		return fmt.Errorf("pass the backup as an argument or through --name/--file, not both")
	case nameFlag != "" && fileFlag != "":
		return fmt.Errorf("--name and --file are mutually exclusive")
	case target != "":
		snap, path, rec, err = resolveBackup(target)
	case nameFlag != "":
		snap, path, rec, err = resolveNamed(nameFlag)
	case fileFlag != "":
		path = fileFlag
		snap, err = snapshot.LoadFile(fileFlag)
	default:
		if !ui.HasTTY() {
			return fmt.Errorf("specify a backup name or file (see 'andronet backups')")
		}
		rec, err = pickBackup()
		if err != nil {
			return err
		}
		snap, path, rec, err = loadIndexed(*rec)
	}
	if err != nil {
		return err
	}

	b, err := bridge()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Header("Restoring from Backup")
	fmt.Printf("  %s %s\n", boldStyle.Render("Source:"), path)
	fmt.Printf("  %s %s\n", boldStyle.Render("Taken:"), snap.Timestamp)
	fmt.Printf("  %s %d setting(s) in %d group(s)\n", boldStyle.Render("Settings:"), snap.EntryCount(), len(snap.Groups))
	if rec != nil && rec.CreatedBy != "" {
		fmt.Printf("  %s %s\n", boldStyle.Render("Created by:"), rec.CreatedBy)
	}
	if rec != nil && rec.Description != "" {
		fmt.Printf("  %s %s\n", boldStyle.Render("Description:"), rec.Description)
	}
	fmt.Printf("  %s %s\n", boldStyle.Render("Target:"), b.Label())
	fmt.Println()

	if dryRun {
		ui.Muted("[DRY-RUN MODE - No settings will be changed]")
		fmt.Println()
	}

	result, err := engine.Restore(engine.RestoreOptions{
		Snapshot: snap,
		Bridge:   b,
		DryRun:   dryRun,
		Yes:      yes,
		Log:      log,
	})
	if err != nil {
		return err
	}
	if result.Cancelled {
		return nil
	}

	fmt.Println()
	if dryRun {
		ui.Muted(fmt.Sprintf("Dry run complete. %d setting(s) would be restored.", result.TotalWouldRestore()))
		fmt.Println()
		return nil
	}

	if result.TotalRestored() > 0 {
		ui.Success(fmt.Sprintf("Restored %d setting(s).", result.TotalRestored()))
	}
	if result.TotalSkipped() > 0 {
		ui.Muted(fmt.Sprintf("%d setting(s) skipped.", result.TotalSkipped()))
	}
	if result.TotalFailed() > 0 {
		ui.Warn(fmt.Sprintf("%d setting(s) failed to restore (see warnings above).", result.TotalFailed()))
	}
	fmt.Println()
	return nil
}

// resolveBackup loads the snapshot behind a restore argument: indexed name
// first, then file path. The record is nil for plain file paths.
func resolveBackup(target string) (*snapshot.Snapshot, string, *snapshot.Record, error) {
	index := snapshot.NewIndex(cfg.BackupDir)
	rec, found, idxErr := index.Lookup(target)
	if idxErr == nil && found {
		return loadIndexed(rec)
	}

	if _, err := os.Stat(target); err == nil {
		snap, err := snapshot.LoadFile(target)
		if err != nil {
			return nil, "", nil, err
		}
		return snap, target, nil, nil
	}

	if idxErr != nil {
		return nil, "", nil, idxErr
	}
	return nil, "", nil, fmt.Errorf("no backup named %q and no backup file at that path", target)
}

// resolveNamed loads strictly by index name, never falling back to paths.
func resolveNamed(name string) (*snapshot.Snapshot, string, *snapshot.Record, error) {
	rec, found, err := snapshot.NewIndex(cfg.BackupDir).Lookup(name)
	if err != nil {
		return nil, "", nil, err
	}
	if !found {
		return nil, "", nil, fmt.Errorf("no backup named %q (see 'andronet backups')", name)
	}
	return loadIndexed(rec)
}

func loadIndexed(rec snapshot.Record) (*snapshot.Snapshot, string, *snapshot.Record, error) {
	path := filepath.Join(cfg.BackupDir, rec.File)
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, "", nil, err
	}
	return snap, path, &rec, nil
}

// pickBackup lists the indexed backups and returns the chosen record.
func pickBackup() (*snapshot.Record, error) {
	records, err := snapshot.NewIndex(cfg.BackupDir).Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no backups yet ('andronet backup' or 'andronet apply' will create one)")
	}

	options := make([]string, len(records))
	byLabel := make(map[string]snapshot.Record, len(records))
	for i, rec := range records {
		label := fmt.Sprintf("%s  %s", rec.Name, rec.Timestamp)
		if rec.Description != "" {
			label += "  " + rec.Description
		}
		if _, dup := byLabel[label]; dup {
			label += "  [" + rec.File + "]"
		}
		options[i] = label
		byLabel[label] = rec
	}

	choice, err := ui.SelectOption("Restore which backup?", options)
	if err != nil {
		return nil, err
	}
	rec := byLabel[choice]
	return &rec, nil
}
