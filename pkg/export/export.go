// Package export writes the consolidated inventory back out as a
// multi-sheet Excel workbook: a master listing, one sheet per brand, and
// the analysis sheets purchasing actually asks for.
package export

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// Source supplies the data the workbook is built from. The store satisfies
// it.
type Source interface {
	AllItems(ctx context.Context) ([]inventory.Item, error)
	Summary(ctx context.Context) (*inventory.Summary, error)
	BrandStats(ctx context.Context) ([]inventory.GroupStats, error)
	CategoryStats(ctx context.Context) ([]inventory.GroupStats, error)
	LowStockItems(ctx context.Context, limit int) ([]inventory.Item, error)
	HighValueItems(ctx context.Context, threshold float64, limit int) ([]inventory.Item, error)
}

// Excel caps sheet names at 31 characters.
const maxSheetNameLen = 31

// statsLimit bounds the low-stock and high-value sheets.
const statsLimit = 500

// Workbook builds the export workbook. The caller owns the returned file
// and must Close it.
func Workbook(ctx context.Context, src Source) (*excelize.File, error) {
	items, err := src.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := src.Summary(ctx)
	if err != nil {
		return nil, err
	}
	brandStats, err := src.BrandStats(ctx)
	if err != nil {
		return nil, err
	}
	categoryStats, err := src.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := src.LowStockItems(ctx, statsLimit)
	if err != nil {
		return nil, err
	}
	highValue, err := src.HighValueItems(ctx, 0, statsLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	w := &writer{f: f}
	if err := w.init(); err != nil {
		f.Close()
		return nil, err
	}

	w.masterSheet(items)
	w.brandSheets(items)
	w.analysisSheet("Category Analysis", "Category", categoryStats)
	w.analysisSheet("Brand Analysis", "Brand", brandStats)
	w.lowStockSheet(lowStock)
	w.highValueSheet(highValue)
	w.summarySheet(summary, items)

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Master Inventory"); err == nil {
		f.SetActiveSheet(idx)
	}

	if w.err != nil {
		f.Close()
		return nil, errors.WrapParse("xlsx", "", w.err)
	}
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(ctx context.Context, src Source, path string) error {
	f, err := Workbook(ctx, src)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// writer accumulates the first error and keeps sheet code readable.
type writer struct {
	f           *excelize.File
	headerStyle int
	moneyStyle  int
	err         error
}

func (w *writer) init() error {
	header, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"305496"}},
	})
	if err != nil {
		return errors.WrapParse("xlsx", "", err)
	}
	money, err := w.f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return errors.WrapParse("xlsx", "", err)
	}
	w.headerStyle = header
	w.moneyStyle = money
	return nil
}

// sheet creates a sheet with a styled header row. moneyCols names the
// column ranges that get the currency number format; the header style is
// applied afterwards so row 1 keeps its fill.
func (w *writer) sheet(name string, header []string, widths map[string]float64, moneyCols ...string) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		w.err = err
		return
	}
	for _, cols := range moneyCols {
		if err := w.f.SetColStyle(name, cols, w.moneyStyle); err != nil {
			w.err = err
			return
		}
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := w.f.SetCellStyle(name, "A1", end, w.headerStyle); err != nil {
		w.err = err
		return
	}
	for cols, width := range widths {
		parts := strings.SplitN(cols, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if err := w.f.SetColWidth(name, parts[0], parts[1], width); err != nil {
			w.err = err
			return
		}
	}
}

func (w *writer) row(name string, rowIdx int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(name, cell, &values); err != nil {
		w.err = err
	}
}

func (w *writer) masterSheet(items []inventory.Item) {
	name := "Master Inventory"
	w.sheet(name, []string{
		"Part Number", "Description", "Brand", "Category", "Unit Price (INR)",
		"Quantity", "Min Stock", "Total Value (INR)", "Stock Status",
		"Price Range", "Source File",
	}, map[string]float64{"A:A": 22, "B:B": 44, "C:D": 20, "E:H": 16, "I:K": 18}, "E", "H")

	for i, item := range items {
		w.row(name, i+2, []any{
			item.PartNumber, item.Description, item.Brand, item.Category,
			item.ListPrice, item.Quantity, item.MinStock, item.TotalValue(),
			item.StockStatus(), item.PriceBand(), item.SourceFile,
		})
	}
}

func (w *writer) brandSheets(items []inventory.Item) {
	header := []string{
		"Part Number", "Description", "Category", "Unit Price (INR)",
		"Quantity", "Total Value (INR)", "Stock Status",
	}
	widths := map[string]float64{"A:A": 22, "B:B": 44, "C:C": 20, "D:G": 16}
	moneyCols := []string{"D", "F"}

	// Items arrive ordered by brand, so one pass builds each sheet.
	var (
		current string
		rowIdx  int
	)
	for _, item := range items {
		brand := item.Brand
		if brand == "" {
			brand = inventory.BrandUnknown
		}
		if brand != current {
			current = brand
			rowIdx = 2
			w.sheet(sheetName(brand), header, widths, moneyCols...)
		}
		w.row(sheetName(brand), rowIdx, []any{
			item.PartNumber, item.Description, item.Category, item.ListPrice,
			item.Quantity, item.TotalValue(), item.StockStatus(),
		})
		rowIdx++
	}
}

func (w *writer) analysisSheet(name, label string, stats []inventory.GroupStats) {
	w.sheet(name, []string{
		label, "Item Count", "Total Quantity", "Avg Price (INR)",
		"Min Price (INR)", "Max Price (INR)", "Total Value (INR)",
	}, map[string]float64{"A:A": 28, "B:G": 16}, "D:G")

	for i, st := range stats {
		w.row(name, i+2, []any{
			st.Name, st.ItemCount, st.TotalQuantity, st.AveragePrice,
			st.MinPrice, st.MaxPrice, st.TotalValue,
		})
	}
}

func (w *writer) lowStockSheet(items []inventory.Item) {
	name := "Low Stock Alert"
	w.sheet(name, []string{
		"Part Number", "Description", "Brand", "Category", "Unit Price (INR)",
		"Current Stock", "Min Required", "Total Value (INR)",
	}, map[string]float64{"A:A": 22, "B:B": 44, "C:D": 20, "E:H": 16}, "E", "H")

	for i, item := range items {
		w.row(name, i+2, []any{
			item.PartNumber, item.Description, item.Brand, item.Category,
			item.ListPrice, item.Quantity, item.MinStock, item.TotalValue(),
		})
	}
}

func (w *writer) highValueSheet(items []inventory.Item) {
	name := "High Value Items"
	w.sheet(name, []string{
		"Part Number", "Description", "Brand", "Category", "Unit Price (INR)",
		"Quantity", "Total Value (INR)",
	}, map[string]float64{"A:A": 22, "B:B": 44, "C:D": 20, "E:G": 16}, "E", "G")

	for i, item := range items {
		w.row(name, i+2, []any{
			item.PartNumber, item.Description, item.Brand, item.Category,
			item.ListPrice, item.Quantity, item.TotalValue(),
		})
	}
}

func (w *writer) summarySheet(summary *inventory.Summary, items []inventory.Item) {
	name := "Executive Summary"
	w.sheet(name, []string{"Metric", "Value"}, map[string]float64{"A:A": 34, "B:B": 28})

	var (
		mostExpensive string
		topPrice      float64
	)
	for _, item := range items {
		if item.ListPrice > topPrice {
			topPrice = item.ListPrice
			mostExpensive = item.PartNumber
		}
	}
	if mostExpensive == "" {
		mostExpensive = "N/A"
	}

	rows := [][]any{
		{"Total Items", summary.TotalItems},
		{"Total Brands", summary.TotalBrands},
		{"Total Categories", summary.TotalCategories},
		{"Total Quantity", summary.TotalQuantity},
		{"Total Inventory Value (INR)", summary.TotalValue},
		{"Average Item Price (INR)", summary.AveragePrice},
		{"Low Stock Items", summary.LowStockItems},
		{"Out of Stock Items", summary.OutOfStockItems},
		{"Most Expensive Item", mostExpensive},
	}
	for i, row := range rows {
		w.row(name, i+2, row)
	}
}

// sheetName sanitizes a brand into a legal Excel sheet name.
func sheetName(brand string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "?", "_", "*", "_", "[", "(", "]", ")", ":", "-")
	name := r.Replace(brand)
	if name == "" {
		name = inventory.BrandUnknown
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}
