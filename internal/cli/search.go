package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/search"
	"github.com/andronet-dev/andronet/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find settings by name or description",
	Long: `Fuzzy-search the schema for settings whose key or description matches
the query. Searching never touches the device.`,
	Example: `  # Where does DNS get configured?
  andronet search dns

  # Only kernel parameters
  andronet search buffer --type kernel_parameters`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args[0])
	},
}

func init() {
	searchCmd.Flags().String("type", "", "search one category type only")
}

func runSearch(cmd *cobra.Command, query string) error {
	typeFlag, _ := cmd.Flags().GetString("type")

	full, err := loadCatalog()
	if err != nil {
		return err
	}
	scoped, err := scopeCatalog(full, typeFlag, "")
	if err != nil {
		return err
	}

	matches := search.Catalog(scoped, query)

	fmt.Println()
	ui.Header("AndroNet Search")
	fmt.Println()

	if len(matches) == 0 {
		ui.Muted(fmt.Sprintf("No settings match %q.", query))
		fmt.Println()
		return nil
	}

	for _, m := range matches {
		d := m.Descriptor
		fmt.Printf("  %s\n", ui.HighlightMatches(search.Text(d), m.MatchedIndexes))
		detail := groupTitle(d.Group())
		if d.Applyable() {
			detail = fmt.Sprintf("%s (default: %s)", detail, d.Default)
		}
		fmt.Printf("    %s\n", ui.Gray(detail))
	}

	fmt.Println()
	ui.Muted(fmt.Sprintf("%d setting(s) match.", len(matches)))
	fmt.Println()
	return nil
}
