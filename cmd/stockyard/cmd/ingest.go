package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockyardhq/stockyard/pkg/ingest"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [directory]",
		Short: "Scan a directory tree and load Excel workbooks into the store",
		Long: `Walk a directory tree, read every .xlsx workbook that is not a
template or backup, and merge the rows into the inventory store.

Files are identified by content hash, so re-running over the same tree
only processes workbooks that changed. Duplicate part numbers keep the
entry with the higher list price, backfilling blank fields from the
loser.`,
		Example: `  # Ingest the current directory
  stockyard ingest

  # Ingest a shared drive dump with custom classification rules
  stockyard ingest /mnt/shared/inventory --rules rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().String("rules", "", "category rules YAML (default: built-in rules)")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var opts []ingest.Option
	if rules, _ := cmd.Flags().GetString("rules"); rules != "" {
		classifier, err := ingest.NewClassifierFromFile(rules)
		if err != nil {
			return err
		}
		opts = append(opts, ingest.WithClassifier(classifier))
	}

	report, err := ingest.New(st, opts...).Run(ctx, root)
	if err != nil {
		return err
	}

	logging.Info().
		Int("found", report.FilesFound).
		Int("processed", report.FilesProcessed).
		Int("unchanged", report.FilesUnchanged).
		Int("failed", report.FilesFailed).
		Int("upserted", report.ItemsUpserted).
		Dur("elapsed", report.Elapsed).
		Msg("Ingest complete")

	fmt.Fprintf(os.Stdout, "Processed %d of %d workbooks (%d unchanged, %d failed): %d items extracted, %d upserted in %s\n",
		report.FilesProcessed, report.FilesFound, report.FilesUnchanged,
		report.FilesFailed, report.ItemsExtracted, report.ItemsUpserted,
		report.Elapsed.Round(timeRound))

	for _, e := range report.Errors {
		fmt.Fprintln(os.Stderr, "  error:", e)
	}
	return nil
}
