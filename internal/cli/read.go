package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/engine"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the live value of every setting",
	Long: `Read the current value of every schema setting from the target device.

Settings that cannot be read stay in the output with an empty value and a
warning; the read itself never fails because of one bad key.

Output formats:
  table      grouped, colored, for humans (default)
  compact    one key=value per line
  json       snapshot JSON on stdout, notes on stderr`,
	Example: `  # Inspect everything
  andronet read

  # Compare live values against the schema defaults
  andronet read --compare

  # Pipe a snapshot somewhere else
  andronet read --output json > current.json

  # Just the DNS properties
  andronet read --type system_properties --category dns`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(cmd)
	},
}

func init() {
	readCmd.Flags().SortFlags = false
	readCmd.Flags().Bool("compare", false, "mark settings that differ from the schema default")
	readCmd.Flags().StringP("output", "o", "", "output format: table, compact, json")
	readCmd.Flags().String("type", "", "read one category type only")
	readCmd.Flags().String("category", "", "read one category name only")
}

// stderr-only styles so stdout stays clean for --output json piping
var (
	readMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	readWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
)

func runRead(cmd *cobra.Command) error {
	compare, _ := cmd.Flags().GetBool("compare")
	output, _ := cmd.Flags().GetString("output")
	typeFlag, _ := cmd.Flags().GetString("type")
	categoryFlag, _ := cmd.Flags().GetString("category")

	if output == "" {
		output = cfg.Output
	}
	switch output {
	case "table", "compact", "json":
	default:
		return fmt.Errorf("unknown output format %q (expected table, compact or json)", output)
	}

	full, err := loadCatalog()
	if err != nil {
		return err
	}
	scoped, err := scopeCatalog(full, typeFlag, categoryFlag)
	if err != nil {
		return err
	}

	b, err := bridge()
	if err != nil {
		return err
	}

	if output == "table" {
		fmt.Println()
		ui.Header("AndroNet Read")
		fmt.Println()
		ui.Muted(fmt.Sprintf("Target: %s", b.Label()))
		fmt.Println()
	} else {
		fmt.Fprintln(os.Stderr, readMutedStyle.Render(fmt.Sprintf("Reading %d settings from %s...", scoped.Len(), b.Label())))
	}

	snap, result, err := engine.Read(engine.ReadOptions{
		Catalog: scoped,
		Bridge:  b,
		Compare: compare,
		Log:     log,
	})
	if err != nil {
		return err
	}

	switch output {
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(os.Stderr, readWarnStyle.Render("⚠ could not read "+w))
		}
		fmt.Fprintln(os.Stderr, "✓ Read complete")
		fmt.Println(string(data))
	case "compact":
		for _, g := range snap.Groups {
			for _, e := range g.Entries {
				fmt.Printf("%s=%s\n", e.Key, e.Current)
			}
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(os.Stderr, readWarnStyle.Render("⚠ could not read "+w))
		}
	default:
		renderReadTable(snap, result, compare)
	}
	return nil
}

func renderReadTable(snap *snapshot.Snapshot, result *engine.ReadResult, compare bool) {
	width := ui.TerminalWidth()

	for _, g := range snap.Groups {
		fmt.Println(ui.Cyan(groupTitle(g.Name)))
		for _, e := range g.Entries {
			value := e.Current
			if value == "" {
				value = "(unset)"
			}
			body := fmt.Sprintf("%s = %s", e.Key, value)

			if compare && e.MatchesDefault != nil {
				if *e.MatchesDefault {
					fmt.Printf("  %s %s\n", ui.Green("✓"), ui.TruncateLine(body, width-4))
				} else {
					body = fmt.Sprintf("%s (default: %s)", body, e.Default)
					fmt.Printf("  %s %s\n", ui.Yellow("!"), ui.TruncateLine(body, width-4))
				}
				continue
			}
			fmt.Printf("  %s\n", ui.TruncateLine(body, width-2))
		}
		fmt.Println()
	}

	if compare {
		ui.Info(fmt.Sprintf("%d of %d settings match their defaults.", result.Matches, result.Matches+result.Mismatches))
	}
	ui.Muted(fmt.Sprintf("Read %d setting(s).", result.Read))
	if result.Unreadable > 0 {
		ui.Warn(fmt.Sprintf("%d setting(s) could not be read:", result.Unreadable))
		for _, w := range result.Warnings {
			fmt.Printf("    %s\n", w)
		}
	}
	fmt.Println()
}

// groupTitle turns a snapshot group name into its display heading,
// "System Properties / dns". Unknown groups show as-is.
func groupTitle(group string) string {
	ctype, name, ok := catalog.SplitGroup(group)
	if !ok {
		return group
	}
	return ctype.Title() + " / " + name
}
