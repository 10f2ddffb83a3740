package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	skinlog "github.com/unowned-ai/skinlog/pkg"
	"github.com/unowned-ai/skinlog/pkg/config"
	pkgdb "github.com/unowned-ai/skinlog/pkg/db"
	"github.com/unowned-ai/skinlog/pkg/logger"
)

var (
	configPath string
	dbPath     string
	walMode    bool
	syncMode   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "skinlog",
	Short:   "A skin journal and skincare ingredient checker.",
	Long:    `Track skin classifier results per skin area, see whether your skin improved, and check product ingredient lists against your skin condition.`,
	Version: fmt.Sprintf("v%s", skinlog.Version),
	// Flags given on the command line win over the config file and environment.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		flags := cmd.Flags()
		if !flags.Changed("db") {
			dbPath = cfg.Database.Path
		}
		if !flags.Changed("wal") {
			walMode = cfg.Database.WAL
		}
		if !flags.Changed("sync") {
			syncMode = cfg.Database.Sync
		}

		logger.Setup(cfg.Log)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for skinlog.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(skinlog completion bash)

  Bash (persist):
    $ skinlog completion bash > /etc/bash_completion.d/skinlog

  Zsh:
    $ skinlog completion zsh > "${fpath[1]}/_skinlog"

  Fish:
    $ skinlog completion fish > ~/.config/fish/completions/skinlog.fish

  PowerShell:
    PS> skinlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of skinlog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(skinlog.Version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the environment variables skinlog reads",
	RunE: func(cmd *cobra.Command, args []string) error {
		usage, err := config.Usage()
		if err != nil {
			return err
		}
		fmt.Println(usage)
		return nil
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the skinlog database",
	Long:  `Provides commands for managing the skinlog SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the skinlog database schema to the latest version for the journaldb component",
	Long: `Connects to the SQLite database at the configured path and applies any necessary
schema migrations to bring the journaldb component up to the current application schema version.
If the database does not exist or is uninitialized for this component, it will be created
and initialized with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		fmt.Printf("journaldb component in %s is at schema version %d (WAL: %t, Sync: %s)\n",
			path, pkgdb.TargetSchemaVersion, walMode, syncMode)
		return nil
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default: $SKINLOG_CONFIG or the per-user config directory)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (uses system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initJournalsCmd()
	initEntriesCmd()
	initProductsCmd()
	initAnalyzeCmd()
	initRecommendCmd()
	initIngredientsCmd()
	initServeCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, configCmd, dbCmd, journalsCmd, entriesCmd, productsCmd,
		analyzeCmd, recommendCmd, ingredientsCmd, mcpCmd, serveCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
