package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockyardhq/stockyard/internal/search"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Ask a question in plain words",
		Long: `Interpret a natural-language question the way the Slack bot does and
run the resulting query against the store.`,
		Example: `  stockyard search "low stock festo"
  stockyard search "expensive mitsubishi drives"
  stockyard search "total inventory value"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	q := search.Interpret(strings.Join(args, " "))

	if q.Summary {
		summary, err := st.Summary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s\n\n", q.Title)
		return renderTable(os.Stdout, []string{"Metric", "Value"}, [][]string{
			{"Total Items", fmt.Sprintf("%d", summary.TotalItems)},
			{"Total Brands", fmt.Sprintf("%d", summary.TotalBrands)},
			{"Total Categories", fmt.Sprintf("%d", summary.TotalCategories)},
			{"Total Quantity", fmt.Sprintf("%d", summary.TotalQuantity)},
			{"Total Value", inr(summary.TotalValue)},
			{"Average Price", inr(summary.AveragePrice)},
			{"Low Stock Items", fmt.Sprintf("%d", summary.LowStockItems)},
			{"Out of Stock Items", fmt.Sprintf("%d", summary.OutOfStockItems)},
		})
	}

	items, total, err := st.ListItems(cmd.Context(), q.Filter)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\n\n", q.Title)
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
