package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/config"
	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/logger"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/ui"
)

var (
	version = "dev"
	cfg     = &config.Config{}
	log     = logger.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "andronet",
	Short: "Configure Android networking from a reviewable schema",
	Long: `AndroNet - Android network configuration tool

Reads and applies network defaults across system properties, kernel
parameters, environment variables, and Android settings, driven by a
single JSON schema. Every apply is preceded by an automatic backup that
can be restored later.`,
	Example: `  # Show the live value of every setting
  andronet read

  # Preview what apply would change
  andronet apply --dry-run

  # Apply the schema defaults (backs up first)
  andronet apply

  # Roll back to the state before the last apply
  andronet restore pre-apply`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if serial := os.Getenv("ANDRONET_SERIAL"); serial != "" && cfg.Serial == "" {
			cfg.Serial = serial
		}
		if path := os.Getenv("ANDRONET_SCHEMA"); path != "" && cfg.SchemaPath == "" {
			cfg.SchemaPath = path
		}
		if dir := os.Getenv("ANDRONET_BACKUP_DIR"); dir != "" && cfg.BackupDir == "" {
			cfg.BackupDir = dir
		}

		if path := config.Locate(); path != "" {
			fc, err := config.LoadFileConfig(path)
			if err != nil {
				return err
			}
			if cfg.SchemaPath == "" {
				cfg.SchemaPath = fc.Schema
			}
			if cfg.BackupDir == "" {
				cfg.BackupDir = fc.BackupDir
			}
			if cfg.Serial == "" {
				cfg.Serial = fc.Serial
			}
			if cfg.Output == "" {
				cfg.Output = fc.Output
			}
		}

		if cfg.BackupDir == "" {
			cfg.BackupDir = config.DefaultBackupDir()
		}
		if cfg.Output == "" {
			cfg.Output = "table"
		}

		ui.SetNoColor(cfg.NoColor)
		log = logger.New(os.Stderr, cfg.Debug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().SortFlags = false

	rootCmd.PersistentFlags().StringVar(&cfg.SchemaPath, "schema", "", "schema file to use instead of the bundled one")
	rootCmd.PersistentFlags().StringVar(&cfg.BackupDir, "backup-dir", "", "where backups are stored (default ~/.andronet/backups)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Serial, "serial", "s", "", "adb device serial to target")
	rootCmd.PersistentFlags().BoolVar(&cfg.ADB, "adb", false, "force running through adb")
	rootCmd.PersistentFlags().BoolVar(&cfg.Local, "local", false, "force running on this host directly")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", false, "log every device command to stderr")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetUsageTemplate(usageTemplate)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("AndroNet v%s\n", version)
	},
}

const usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}

Learn more:
  GitHub: https://github.com/andronet-dev/andronet
`

func Execute() error {
	return rootCmd.Execute()
}

// loadCatalog parses the configured schema and builds the full catalog.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.SchemaPath != "" {
		doc, err := schema.Load(cfg.SchemaPath)
		if err != nil {
			return nil, err
		}
		return catalog.Build(doc), nil
	}
	doc, err := schema.Parse(config.DefaultSchema())
	if err != nil {
		return nil, fmt.Errorf("bundled schema is invalid: %w", err)
	}
	return catalog.Build(doc), nil
}

// bridge picks the execution target from the resolved config.
func bridge() (device.Bridge, error) {
	switch {
	case cfg.Local && cfg.ADB:
		return nil, fmt.Errorf("--local and --adb are mutually exclusive")
	case cfg.Local:
		return device.NewLocal(log), nil
	case cfg.ADB:
		return device.NewADB(cfg.Serial, log), nil
	default:
		return device.Detect(cfg.Serial, log)
	}
}

// scopeCatalog narrows a catalog by the --type and --category flags shared
// by apply, read, backup and search.
func scopeCatalog(cat *catalog.Catalog, typeFlag, categoryFlag string) (*catalog.Catalog, error) {
	scoped := cat
	if typeFlag != "" {
		ctype, ok := schema.ParseCategoryType(typeFlag)
		if !ok {
			return nil, fmt.Errorf("unknown category type %q (expected system_properties, kernel_parameters, environment_variables or android_specific)", typeFlag)
		}
		scoped = scoped.FilterType(ctype)
	}
	if categoryFlag != "" {
		scoped = scoped.FilterCategory(categoryFlag)
	}
	if scoped.Len() == 0 {
		return nil, fmt.Errorf("no settings match the requested scope")
	}
	return scoped, nil
}
