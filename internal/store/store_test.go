package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/ingest"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedItems(t *testing.T, s *Store, items ...inventory.Item) {
	t.Helper()
	_, err := s.UpsertItems(context.Background(), items)
	require.NoError(t, err)
}

func TestOpenMigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening an already-migrated database must not fail.
	s2, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s2.Ping(ctx))
	require.NoError(t, s2.Close())
}

func TestUpsertItemsInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.UpsertItems(ctx, []inventory.Item{
		{PartNumber: "FX2N-32MR", Description: "PLC base unit", Brand: "Mitsubishi",
			Category: "PLC & Control Systems", ListPrice: 28000, Quantity: 2, MinStock: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := s.GetItem(ctx, "fx2n-32mr")
	require.NoError(t, err)
	assert.Equal(t, "FX2N-32MR", item.PartNumber)
	assert.Equal(t, float64(28000), item.ListPrice)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestUpsertItemsKeepsHigherPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedItems(t, s, inventory.Item{PartNumber: "E2E-X5", Description: "proximity sensor",
		Brand: "Omron", ListPrice: 900, Quantity: 4})

	// Lower price must not replace the stored row's price.
	n, err := s.UpsertItems(ctx, []inventory.Item{
		{PartNumber: "e2e-x5", ListPrice: 700, Location: "Store B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := s.GetItem(ctx, "E2E-X5")
	require.NoError(t, err)
	assert.Equal(t, float64(900), item.ListPrice)
	assert.Equal(t, "proximity sensor", item.Description)
	// But its blank location is backfilled.
	assert.Equal(t, "Store B", item.Location)

	// Higher price replaces the data fields.
	_, err = s.UpsertItems(ctx, []inventory.Item{
		{PartNumber: "E2E-X5", Description: "proximity sensor M12", ListPrice: 1200},
	})
	require.NoError(t, err)

	item, err = s.GetItem(ctx, "E2E-X5")
	require.NoError(t, err)
	assert.Equal(t, float64(1200), item.ListPrice)
	assert.Equal(t, "proximity sensor M12", item.Description)
	assert.Equal(t, "Omron", item.Brand)
}

func TestUpsertItemsUnchangedRowNotCounted(t *testing.T) {
	s := newTestStore(t)
	item := inventory.Item{PartNumber: "A1", Description: "thing", ListPrice: 10}
	seedItems(t, s, item)

	n, err := s.UpsertItems(context.Background(), []inventory.Item{item})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetItemNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetItem(context.Background(), "NOPE")
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	seedItems(t, s, inventory.Item{PartNumber: "A1", Description: "thing", ListPrice: 10})

	// Case-insensitive, like lookups.
	require.NoError(t, s.DeleteItem(context.Background(), "a1"))

	_, err := s.GetItem(context.Background(), "A1")
	assert.True(t, errors.IsNotFound(err))

	err = s.DeleteItem(context.Background(), "A1")
	assert.True(t, errors.IsNotFound(err))
}

func listFixture(t *testing.T, s *Store) {
	seedItems(t, s,
		inventory.Item{PartNumber: "FX2N-32MR", Description: "PLC base unit", Brand: "Mitsubishi",
			Category: "PLC & Control Systems", ListPrice: 28000, Quantity: 2, MinStock: 1},
		inventory.Item{PartNumber: "DSBC-40-100", Description: "pneumatic cylinder", Brand: "FESTO",
			Category: "Pneumatic Components", ListPrice: 4500, Quantity: 12, MinStock: 2},
		inventory.Item{PartNumber: "VUVG-L10", Description: "solenoid valve", Brand: "FESTO",
			Category: "Pneumatic Components", ListPrice: 2250, Quantity: 0, MinStock: 1},
		inventory.Item{PartNumber: "XTCE025C10", Description: "contactor 25A", Brand: "Eaton",
			Category: "Electrical Components", ListPrice: 1800, Quantity: 3, MinStock: 5},
	)
}

func TestListItemsFilters(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    inventory.Filter
		wantParts []string
		wantTotal int
	}{
		{
			name:      "all by value",
			filter:    inventory.Filter{},
			wantParts: []string{"FX2N-32MR", "DSBC-40-100", "XTCE025C10", "VUVG-L10"},
			wantTotal: 4,
		},
		{
			name:      "brand case-insensitive",
			filter:    inventory.Filter{Brand: "festo"},
			wantParts: []string{"DSBC-40-100", "VUVG-L10"},
			wantTotal: 2,
		},
		{
			name:      "category",
			filter:    inventory.Filter{Category: "Electrical Components"},
			wantParts: []string{"XTCE025C10"},
			wantTotal: 1,
		},
		{
			name:      "text matches description",
			filter:    inventory.Filter{Text: "valve"},
			wantParts: []string{"VUVG-L10"},
			wantTotal: 1,
		},
		{
			name:      "out of stock",
			filter:    inventory.Filter{Status: inventory.StatusOutOfStock},
			wantParts: []string{"VUVG-L10"},
			wantTotal: 1,
		},
		{
			name:      "low stock",
			filter:    inventory.Filter{Status: inventory.StatusLowStock},
			wantParts: []string{"XTCE025C10"},
			wantTotal: 1,
		},
		{
			name:      "price range",
			filter:    inventory.Filter{MinPrice: 2000, MaxPrice: 5000, SortBy: inventory.SortByPrice},
			wantParts: []string{"DSBC-40-100", "VUVG-L10"},
			wantTotal: 2,
		},
		{
			name:      "pagination",
			filter:    inventory.Filter{Limit: 2, Offset: 2},
			wantParts: []string{"XTCE025C10", "VUVG-L10"},
			wantTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := s.ListItems(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			var parts []string
			for _, item := range items {
				parts = append(parts, item.PartNumber)
			}
			assert.Equal(t, tt.wantParts, parts)
		})
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)

	sum, err := s.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalItems)
	assert.Equal(t, 3, sum.TotalBrands)
	assert.Equal(t, 3, sum.TotalCategories)
	assert.Equal(t, 17, sum.TotalQuantity)
	// 28000*2 + 4500*12 + 2250*0 + 1800*3
	assert.Equal(t, float64(115400), sum.TotalValue)
	assert.Equal(t, 1, sum.LowStockItems)
	assert.Equal(t, 1, sum.OutOfStockItems)
}

func TestBrandStatsOrderedByValue(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)

	stats, err := s.BrandStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "Mitsubishi", stats[0].Name)
	assert.Equal(t, "FESTO", stats[1].Name)
	assert.Equal(t, 2, stats[1].ItemCount)
	assert.Equal(t, "Eaton", stats[2].Name)
}

func TestLowStockAndHighValue(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)
	ctx := context.Background()

	low, err := s.LowStockItems(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "XTCE025C10", low[0].PartNumber)

	high, err := s.HighValueItems(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "FX2N-32MR", high[0].PartNumber)
}

func TestSourceFileLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen, err := s.SeenFile(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, seen)

	rec := ingest.FileRecord{
		Path:       "/data/FESTO stock.xlsx",
		Name:       "FESTO stock.xlsx",
		Hash:       "abc123",
		Size:       2048,
		ModTime:    time.Now(),
		SheetCount: 2,
		ItemCount:  40,
		Status:     ingest.FileStatusIngested,
	}
	require.NoError(t, s.RecordFile(ctx, rec))

	seen, err = s.SeenFile(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, seen)

	// Failed ingests never mark the hash as seen.
	require.NoError(t, s.RecordFile(ctx, ingest.FileRecord{
		Path: "/data/bad.xlsx", Name: "bad.xlsx", Hash: "def456",
		Status: ingest.FileStatusError, Error: "not a zip",
	}))
	seen, err = s.SeenFile(ctx, "def456")
	require.NoError(t, err)
	assert.False(t, seen)

	rows, err := s.SourceFiles(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestUpdateItemFieldsWritesAudit(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)
	ctx := context.Background()

	err := s.UpdateItemFields(ctx, "VUVG-L10", map[string]string{
		"description": "solenoid valve 10mm G1/8",
		"category":    "Pneumatic Components", // unchanged, no audit row
	}, "enrich")
	require.NoError(t, err)

	item, err := s.GetItem(ctx, "VUVG-L10")
	require.NoError(t, err)
	assert.Equal(t, "solenoid valve 10mm G1/8", item.Description)

	entries, err := s.AuditLog(ctx, "VUVG-L10", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "description", entries[0].Field)
	assert.Equal(t, "solenoid valve", entries[0].OldValue)
	assert.Equal(t, "enrich", entries[0].Source)
}

func TestUpdateItemFieldsRejectsUnknownField(t *testing.T) {
	s := newTestStore(t)
	listFixture(t, s)

	err := s.UpdateItemFields(context.Background(), "VUVG-L10",
		map[string]string{"list_price": "0"}, "enrich")
	assert.True(t, errors.IsValidationError(err))
}
