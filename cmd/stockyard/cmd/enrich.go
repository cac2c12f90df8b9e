package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stockyardhq/stockyard/pkg/enrich"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

func newEnrichCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill data gaps with Gemini",
		Long: `Send items with an unknown brand, an unclassified category, or no
description to Gemini and apply its suggestions.

Existing data is never overwritten, category suggestions outside the
fixed label set are rejected, and every applied change lands in the
audit log. Requires GEMINI_API_KEY (flag, environment, or .env file).`,
		Example: `  # One batch of the most valuable gaps
  stockyard enrich

  # See what would change without writing anything
  stockyard enrich --dry-run

  # A bigger sweep with a specific model
  stockyard enrich --max 200 --model gemini-2.0-flash`,
		Args: cobra.NoArgs,
		RunE: runEnrich,
	}

	cmd.Flags().String("api-key", "", "Gemini API key (default $GEMINI_API_KEY)")
	cmd.Flags().String("model", enrich.DefaultModel, "Gemini model")
	cmd.Flags().Int("max", 0, "maximum items to examine (default one batch)")
	cmd.Flags().Int("batch", enrich.DefaultBatchSize, "items per model request")
	cmd.Flags().Float64("min-confidence", enrich.DefaultMinConfidence, "skip suggestions below this confidence")
	cmd.Flags().Bool("dry-run", false, "print suggestions without applying them")
	return cmd
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("gemini_api_key")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg := enrich.Config{APIKey: apiKey}
	cfg.Model, _ = cmd.Flags().GetString("model")
	cfg.MaxItems, _ = cmd.Flags().GetInt("max")
	cfg.BatchSize, _ = cmd.Flags().GetInt("batch")
	cfg.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")
	cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")

	enricher, err := enrich.New(st, cfg, logging.Default())
	if err != nil {
		return err
	}

	report, err := enricher.Run(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.DryRun {
		for _, change := range report.Changes {
			fmt.Fprintf(os.Stdout, "%s (%.0f%%):\n", change.PartNumber, change.Confidence*100)
			for field, value := range change.Fields {
				fmt.Fprintf(os.Stdout, "  %s: %s\n", field, value)
			}
			if change.Notes != "" {
				fmt.Fprintf(os.Stdout, "  note: %s\n", change.Notes)
			}
		}
		fmt.Fprintf(os.Stdout, "Dry run: examined %d items, %d changes proposed, %d skipped, %d rejected\n",
			report.Examined, len(report.Changes), report.Skipped, report.Rejected)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Examined %d items: %d suggestions, %d applied, %d skipped, %d rejected\n",
		report.Examined, report.Suggested, report.Updated, report.Skipped, report.Rejected)
	return nil
}
