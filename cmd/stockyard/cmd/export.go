package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockyardhq/stockyard/pkg/export"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Write the consolidated inventory to an Excel workbook",
		Long: `Build a multi-sheet Excel workbook from the store: a master listing,
one sheet per brand, category and brand analysis, low-stock alerts,
high-value items, and an executive summary.`,
		Example: `  # Timestamped filename in the current directory
  stockyard export

  # Explicit output path
  stockyard export consolidated_inventory.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "output path (default inventory_<timestamp>.xlsx)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	path, _ := cmd.Flags().GetString("output")
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = "inventory_" + time.Now().Format("20060102_150405") + ".xlsx"
	}

	if err := export.WriteFile(cmd.Context(), st, path); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Wrote", path)
	return nil
}
