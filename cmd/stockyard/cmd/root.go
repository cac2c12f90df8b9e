// Package cmd implements the stockyard CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stockyardhq/stockyard/internal/store"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

// Version carries build metadata from the linker.
type Version struct {
	Version string
	Commit  string
	Date    string
}

// Execute runs the stockyard CLI with the given arguments.
func Execute(ctx context.Context, version Version) error {
	root := newRootCommand(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCommand(version Version) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stockyard",
		Short:   "Inventory consolidation and query tool",
		Version: version.Version,
		Long: `Stockyard consolidates scattered Excel inventory workbooks into a
single searchable SQLite store.

It scans a directory tree for .xlsx files, reconciles their wildly
inconsistent column names into one schema, deduplicates part numbers,
and serves the result through a CLI, a web dashboard, a JSON API, and
a Slack bot.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().String("db", store.DefaultPath, "path to the SQLite database")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console, json")

	rootCmd.SetVersionTemplate("stockyard {{.Version}}\n")

	rootCmd.AddCommand(
		newIngestCommand(),
		newListCommand(),
		newSearchCommand(),
		newStatsCommand(),
		newExportCommand(),
		newEnrichCommand(),
		newServeCommand(),
		newVersionCommand(version),
	)

	return rootCmd
}

// setup runs before every command: load .env, bind flags to the
// STOCKYARD_* environment, and configure logging.
func setup(cmd *cobra.Command, _ []string) error {
	// Missing .env files are fine; they are a convenience for Slack and
	// Gemini credentials.
	_ = godotenv.Load()

	viper.SetEnvPrefix("STOCKYARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	level := viper.GetString("log-level")
	if level == "" {
		switch {
		case viper.GetBool("verbose"):
			level = "debug"
		case viper.GetBool("quiet"):
			level = "warn"
		default:
			level = "info"
		}
	}

	logging.Configure(&logging.Config{
		Level:  level,
		Format: viper.GetString("log-format"),
		Output: "stderr",
	})
	return nil
}

// openStore opens the configured database for a command run.
func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, viper.GetString("db"))
}
