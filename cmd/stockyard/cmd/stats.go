package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show inventory rollups",
		Example: `  # Store-wide summary
  stockyard stats

  # Value breakdown by brand
  stockyard stats --by brand

  # Price band distribution
  stockyard stats --by band`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	cmd.Flags().String("by", "", "group by: brand, category, band")
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	by, _ := cmd.Flags().GetString("by")

	var groups []inventory.GroupStats
	switch by {
	case "":
		summary, err := st.Summary(ctx)
		if err != nil {
			return err
		}
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
	case "brand":
		groups, err = st.BrandStats(ctx)
	case "category":
		groups, err = st.CategoryStats(ctx)
	case "band":
		groups, err = st.PriceBandStats(ctx)
	default:
		return fmt.Errorf("unknown grouping %q (want brand, category, or band)", by)
	}
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Name,
			fmt.Sprintf("%d", g.ItemCount),
			fmt.Sprintf("%d", g.TotalQuantity),
			inr(g.AveragePrice),
			inr(g.TotalValue),
		})
	}
	return renderTable(os.Stdout, []string{"Name", "Items", "Quantity", "Avg Price", "Total Value"}, rows)
}
