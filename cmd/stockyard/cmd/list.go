package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Example: `  # Everything, most valuable first
  stockyard list

  # FESTO pneumatics that are running low
  stockyard list --brand FESTO --status low

  # Items between 1K and 10K, cheapest first
  stockyard list --min-price 1000 --max-price 10000 --sort price --asc`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("text", "", "substring match on part number, description, or brand")
	cmd.Flags().String("brand", "", "filter by brand")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("status", "", "filter by stock status: in, low, out")
	cmd.Flags().Float64("min-price", 0, "minimum list price")
	cmd.Flags().Float64("max-price", 0, "maximum list price")
	cmd.Flags().String("sort", "value", "sort field: value, price, quantity, updated")
	cmd.Flags().Bool("asc", false, "sort ascending instead of descending")
	cmd.Flags().Int("limit", inventory.DefaultLimit, "maximum rows")
	cmd.Flags().Int("offset", 0, "pagination offset")
	cmd.Flags().Bool("json", false, "emit JSON instead of a table")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	filter := inventory.Filter{}
	filter.Text, _ = cmd.Flags().GetString("text")
	filter.Brand, _ = cmd.Flags().GetString("brand")
	filter.Category, _ = cmd.Flags().GetString("category")
	filter.MinPrice, _ = cmd.Flags().GetFloat64("min-price")
	filter.MaxPrice, _ = cmd.Flags().GetFloat64("max-price")
	filter.SortBy, _ = cmd.Flags().GetString("sort")
	filter.SortAsc, _ = cmd.Flags().GetBool("asc")
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	filter.Offset, _ = cmd.Flags().GetInt("offset")

	if status, _ := cmd.Flags().GetString("status"); status != "" {
		filter.Status, err = statusLabel(status)
		if err != nil {
			return err
		}
	}

	items, total, err := st.ListItems(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"items": items, "total": total})
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No matching items.")
		return nil
	}

	if err := renderTable(os.Stdout, itemHeaders, itemRows(items)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d of %d items\n", len(items), total)
	return nil
}

// statusLabel maps CLI shorthand to the stored status labels.
func statusLabel(s string) (string, error) {
	switch s {
	case "in":
		return inventory.StatusInStock, nil
	case "low":
		return inventory.StatusLowStock, nil
	case "out":
		return inventory.StatusOutOfStock, nil
	case inventory.StatusInStock, inventory.StatusLowStock, inventory.StatusOutOfStock:
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q (want in, low, or out)", s)
}
