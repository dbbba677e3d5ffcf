package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/engine"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the schema defaults to the device",
	Long: `Write every schema default to the target device. Settings without a
default are listed but never written.

The current values are backed up automatically before the first write, so
'andronet restore pre-apply' always rolls back the last apply. The first
backup ever taken is named first-run.

Scope:
  --type <t>        one category type only
  --category <c>    one category name only
  --select          pick categories interactively`,
	Example: `  # Preview without touching the device
  andronet apply --dry-run

  # Apply everything (asks for confirmation first)
  andronet apply

  # Apply only the kernel parameters, no questions asked
  andronet apply --type kernel_parameters --yes

  # Choose categories in a picker
  andronet apply --select`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApply(cmd)
	},
}

func init() {
	applyCmd.Flags().SortFlags = false
	applyCmd.Flags().Bool("dry-run", false, "preview changes without writing anything")
	applyCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	applyCmd.Flags().String("type", "", "apply one category type only")
	applyCmd.Flags().String("category", "", "apply one category name only")
	applyCmd.Flags().Bool("select", false, "pick categories interactively")
}

func runApply(cmd *cobra.Command) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	typeFlag, _ := cmd.Flags().GetString("type")
	categoryFlag, _ := cmd.Flags().GetString("category")
	interactive, _ := cmd.Flags().GetBool("select")

	full, err := loadCatalog()
	if err != nil {
		return err
	}
	scoped, err := scopeCatalog(full, typeFlag, categoryFlag)
	if err != nil {
		return err
	}

	if interactive {
		if !ui.HasTTY() {
			return fmt.Errorf("--select needs an interactive terminal")
		}
		selected, confirmed, err := ui.RunScopeSelector(buildScopeTabs(scoped))
		if err != nil {
			return err
		}
		if !confirmed {
			ui.Muted("Cancelled.")
			return nil
		}
		scoped = scoped.FilterGroups(selected)
		if scoped.Len() == 0 {
			ui.Muted("Nothing selected.")
			return nil
		}
	}

	if !dryRun && !yes && !ui.HasTTY() {
		return fmt.Errorf("confirmation required: run with --yes in non-interactive sessions")
	}

	b, err := bridge()
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Header("AndroNet Apply")
	fmt.Println()

	if dryRun {
		ui.Muted("[DRY-RUN MODE - No settings will be changed]")
		fmt.Println()
	}

	ui.Muted(fmt.Sprintf("Target: %s", b.Label()))
	fmt.Println()

	result, err := engine.Apply(engine.ApplyOptions{
		Catalog: scoped,
		Full:    full,
		Bridge:  b,
		Store:   snapshot.NewStore(cfg.BackupDir),
		Index:   snapshot.NewIndex(cfg.BackupDir),
		DryRun:  dryRun,
		Yes:     yes,
		Log:     log,
	})
	if err != nil {
		return err
	}
	if result.Cancelled {
		return nil
	}

	fmt.Println()
	if dryRun {
		ui.Muted(fmt.Sprintf("Dry run complete. %d setting(s) would be applied, %d skipped.", result.WouldApply, result.Skipped))
		fmt.Println()
		return nil
	}

	if result.Applied > 0 {
		ui.Success(fmt.Sprintf("Applied %d setting(s).", result.Applied))
	}
	if result.Skipped > 0 {
		ui.Muted(fmt.Sprintf("%d setting(s) have no default and were skipped.", result.Skipped))
	}
	if result.Failed > 0 {
		ui.Warn(fmt.Sprintf("%d setting(s) failed to apply (see warnings above).", result.Failed))
	}
	fmt.Println()
	return nil
}

// buildScopeTabs lays the catalog out for the interactive picker: one tab
// per category type, one row per category.
func buildScopeTabs(cat *catalog.Catalog) []ui.ScopeTab {
	var tabs []ui.ScopeTab
	for _, ctype := range schema.CategoryTypes() {
		names := cat.CategoryNames(ctype)
		if len(names) == 0 {
			continue
		}
		tab := ui.ScopeTab{Title: ctype.Title()}
		for _, name := range names {
			sub := cat.FilterType(ctype).FilterCategory(name)
			tab.Items = append(tab.Items, ui.ScopeItem{
				Name:      name,
				Group:     string(ctype) + "_" + name,
				Total:     sub.Len(),
				Applyable: sub.ApplyableCount(),
			})
		}
		tabs = append(tabs, tab)
	}
	return tabs
}
