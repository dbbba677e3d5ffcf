package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List saved backups",
	Long: `List every backup recorded in the backup index, oldest first.

With --json the index document is printed exactly as stored, including
any fields added by hand or by other tools.`,
	Example: `  # Human-readable listing
  andronet backups

  # The raw index document
  andronet backups --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackups(cmd)
	},
}

func init() {
	backupsCmd.Flags().Bool("json", false, "print the raw backup index document")
}

func runBackups(cmd *cobra.Command) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")

	index := snapshot.NewIndex(cfg.BackupDir)

	if jsonFlag {
		raw, err := index.Raw()
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	}

	records, err := index.Records()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Header("AndroNet Backups")
	fmt.Println()

	if len(records) == 0 {
		ui.Muted("No backups yet. 'andronet backup' or 'andronet apply' will create one.")
		fmt.Println()
		return nil
	}

	nameW := 0
	for _, r := range records {
		if len(r.Name) > nameW {
			nameW = len(r.Name)
		}
	}

	for _, r := range records {
		fmt.Printf("  %s  %s  %s\n",
			boldStyle.Render(fmt.Sprintf("%-*s", nameW, r.Name)),
			r.Timestamp,
			ui.Gray(r.File))
		if r.Description != "" {
			fmt.Printf("  %*s  %s\n", nameW, "", ui.Gray(r.Description))
		}
	}

	fmt.Println()
	ui.Muted(fmt.Sprintf("%d backup(s) in %s", len(records), cfg.BackupDir))
	fmt.Println()
	return nil
}
