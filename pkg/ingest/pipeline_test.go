package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// memSink is an in-memory Sink for pipeline tests.
type memSink struct {
	hashes  map[string]bool
	records []FileRecord
	items   []inventory.Item
}

func newMemSink() *memSink {
	return &memSink{hashes: map[string]bool{}}
}

func (m *memSink) SeenFile(_ context.Context, hash string) (bool, error) {
	return m.hashes[hash], nil
}

func (m *memSink) RecordFile(_ context.Context, rec FileRecord) error {
	m.records = append(m.records, rec)
	if rec.Hash != "" {
		m.hashes[rec.Hash] = true
	}
	return nil
}

func (m *memSink) UpsertItems(_ context.Context, items []inventory.Item) (int, error) {
	m.items = append(m.items, items...)
	return len(items), nil
}

// writeWorkbook creates an xlsx at path with a single sheet of rows.
func writeWorkbook(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "FESTO stock.xlsx"), "Stock", [][]any{
		{"Part Number", "Description", "Unit Price (INR)", "Qty", "Min Stock"},
		{"DSBC-40-100", "pneumatic cylinder 40mm", "₹4,500", 12, 2},
		{"DSBC-40-100", "pneumatic cylinder 40mm", "5,000", 3, 2},
		{"VUVG-L10", "solenoid valve", "2,250.50", 0, 1},
		{"", "", "", "", ""},
	})

	sink := newMemSink()
	report, err := New(sink).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesFound)
	assert.Equal(t, 1, report.FilesProcessed)
	assert.Equal(t, 3, report.ItemsExtracted)
	assert.Equal(t, 2, report.ItemsUpserted)
	assert.NotEmpty(t, report.RunID)

	require.Len(t, sink.items, 2)
	cyl := sink.items[0]
	assert.Equal(t, "DSBC-40-100", cyl.PartNumber)
	assert.Equal(t, float64(5000), cyl.ListPrice)
	assert.Equal(t, "FESTO", cyl.Brand)
	assert.Equal(t, "Pneumatic Components", cyl.Category)
	assert.Equal(t, "FESTO stock.xlsx", cyl.SourceFile)
	assert.Equal(t, "Stock", cyl.SourceSheet)

	require.Len(t, sink.records, 1)
	assert.Equal(t, FileStatusIngested, sink.records[0].Status)
	assert.Equal(t, 3, sink.records[0].ItemCount)
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "eaton parts.xlsx"), "Sheet1", [][]any{
		{"Part No", "Description", "Price"},
		{"XTCE025C10", "contactor 25A", 1800},
	})

	sink := newMemSink()
	p := New(sink)

	_, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	second, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesProcessed)
	assert.Equal(t, 1, second.FilesUnchanged)
	assert.Equal(t, 0, second.ItemsExtracted)
	assert.Len(t, sink.items, 1)
}

func TestPipelineSkipsTemplateFiles(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "inventory_template.xlsx"), "Sheet1", [][]any{
		{"Part No", "Price"},
		{"A1", 100},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.xls"), []byte("old"), 0o644))

	sink := newMemSink()
	report, err := New(sink).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 0, report.FilesFound)
	assert.Len(t, report.Skipped, 2)
	assert.Empty(t, sink.items)
}

func TestPipelineRecordsUnreadableWorkbook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mangled.xlsx"), []byte("not a zip"), 0o644))

	sink := newMemSink()
	report, err := New(sink).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesFailed)
	require.Len(t, sink.records, 1)
	assert.Equal(t, FileStatusError, sink.records[0].Status)
	assert.NotEmpty(t, sink.records[0].Error)
}

func TestPipelineHeaderBelowBanner(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "siemens drives.xlsx"), "Sheet1", [][]any{
		{"Machinecraft Pvt Ltd"},
		{"Part Number", "Description", "Rate"},
		{"6SL3210", "sinamics drive 2.2kW", "38,000"},
	})

	sink := newMemSink()
	report, err := New(sink).Run(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, report.ItemsUpserted)

	item := sink.items[0]
	assert.Equal(t, "6SL3210", item.PartNumber)
	assert.Equal(t, float64(38000), item.ListPrice)
	assert.Equal(t, "Siemens", item.Brand)
}
