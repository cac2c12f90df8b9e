package store

import (
	"context"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// Summary returns the store-wide rollup.
func (s *Store) Summary(ctx context.Context) (*inventory.Summary, error) {
	var sum inventory.Summary
	err := s.db.GetContext(ctx, &sum, `
		SELECT
			COUNT(*) AS total_items,
			COUNT(DISTINCT brand) AS total_brands,
			COUNT(DISTINCT category) AS total_categories,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(list_price * quantity), 0) AS total_value,
			COALESCE(AVG(list_price), 0) AS avg_price,
			COUNT(CASE WHEN quantity > 0 AND quantity <= min_stock THEN 1 END) AS low_stock_items,
			COUNT(CASE WHEN quantity = 0 THEN 1 END) AS out_of_stock_items
		FROM items`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return &sum, nil
}

// BrandStats returns per-brand rollups ordered by total inventory value.
func (s *Store) BrandStats(ctx context.Context) ([]inventory.GroupStats, error) {
	return s.groupStats(ctx, "brand")
}

// CategoryStats returns per-category rollups ordered by total inventory
// value.
func (s *Store) CategoryStats(ctx context.Context) ([]inventory.GroupStats, error) {
	return s.groupStats(ctx, "category")
}

func (s *Store) groupStats(ctx context.Context, column string) ([]inventory.GroupStats, error) {
	var stats []inventory.GroupStats
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			`+column+` AS name,
			COUNT(*) AS item_count,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(AVG(list_price), 0) AS avg_price,
			COALESCE(MIN(list_price), 0) AS min_price,
			COALESCE(MAX(list_price), 0) AS max_price,
			COALESCE(SUM(list_price * quantity), 0) AS total_value
		FROM items
		WHERE `+column+` != ''
		GROUP BY `+column+`
		ORDER BY total_value DESC, name ASC`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return stats, nil
}

// LowStockItems returns items at or below their minimum stock but not out
// of stock, most valuable first.
func (s *Store) LowStockItems(ctx context.Context, limit int) ([]inventory.Item, error) {
	if limit <= 0 {
		limit = inventory.DefaultLimit
	}
	var items []inventory.Item
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+itemColumns+` FROM items
		WHERE quantity > 0 AND quantity <= min_stock
		ORDER BY list_price * quantity DESC, part_number ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return items, nil
}

// HighValueItems returns items priced above threshold, most expensive
// first. A zero threshold means the conventional 10K cutoff.
func (s *Store) HighValueItems(ctx context.Context, threshold float64, limit int) ([]inventory.Item, error) {
	if threshold <= 0 {
		threshold = 10000
	}
	if limit <= 0 {
		limit = inventory.DefaultLimit
	}
	var items []inventory.Item
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+itemColumns+` FROM items
		WHERE list_price > ?
		ORDER BY list_price DESC, part_number ASC
		LIMIT ?`, threshold, limit)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return items, nil
}

// PriceBandStats rolls items up by price band.
func (s *Store) PriceBandStats(ctx context.Context) ([]inventory.GroupStats, error) {
	var stats []inventory.GroupStats
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			CASE
				WHEN list_price > 10000 THEN 'High (>10K)'
				WHEN list_price > 1000 THEN 'Medium (1K-10K)'
				ELSE 'Low (<1K)'
			END AS name,
			COUNT(*) AS item_count,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(AVG(list_price), 0) AS avg_price,
			COALESCE(MIN(list_price), 0) AS min_price,
			COALESCE(MAX(list_price), 0) AS max_price,
			COALESCE(SUM(list_price * quantity), 0) AS total_value
		FROM items
		GROUP BY name
		ORDER BY min_price ASC`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return stats, nil
}
