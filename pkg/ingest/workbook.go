package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stockyardhq/stockyard/pkg/errors"
)

// Sheet is one worksheet with its header row resolved. Rows hold the data
// rows below the header, each padded or truncated to len(Columns).
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Vendor workbooks bury the header under title banners, so the reader probes
// the first few rows for one that maps to known column names.
const maxHeaderProbe = 3

// ReadWorkbook opens an .xlsx/.xlsm workbook and returns its non-empty
// sheets. Sheets that cannot be read are dropped rather than failing the
// whole workbook.
func ReadWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		sheet := resolveHeader(name, rows)
		if len(sheet.Rows) == 0 {
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// resolveHeader finds the first probe row that maps at least one canonical
// column. When nothing maps, every row is data and columns get positional
// names so the per-cell fallback extractor can still run.
func resolveHeader(name string, rows [][]string) Sheet {
	probe := maxHeaderProbe
	if probe > len(rows) {
		probe = len(rows)
	}
	for i := 0; i < probe; i++ {
		header := normalizeRow(rows[i])
		if countMappedColumns(header) == 0 {
			continue
		}
		return Sheet{
			Name:    name,
			Columns: header,
			Rows:    padRows(rows[i+1:], len(header)),
		}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	columns := make([]string, width)
	for i := range columns {
		columns[i] = fmt.Sprintf("col_%d", i)
	}
	return Sheet{Name: name, Columns: columns, Rows: padRows(rows, width)}
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		for i := range padded {
			padded[i] = strings.TrimSpace(padded[i])
		}
		out = append(out, padded)
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
