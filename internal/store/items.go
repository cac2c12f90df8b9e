package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// stockStatusExpr derives the stock status label in SQL, mirroring
// inventory.Item.StockStatus.
const stockStatusExpr = `CASE
	WHEN quantity = 0 THEN 'Out of Stock'
	WHEN quantity <= min_stock THEN 'Low Stock'
	ELSE 'In Stock'
END`

const itemColumns = `id, part_number, description, brand, category, list_price,
	net_price, quantity, min_stock, location, rack, uom, source_file,
	source_sheet, created_at, updated_at`

// UpsertItems writes a batch of items in one transaction. An item whose
// part number already exists replaces the stored row only when its list
// price is higher; either way blank fields are backfilled from whichever
// side has data. Returns the number of rows inserted or updated.
func (s *Store) UpsertItems(ctx context.Context, items []inventory.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.WrapStore("upsert", "items", err)
	}
	defer tx.Rollback()

	now := s.now()
	written := 0
	for i := range items {
		item := items[i]
		var existing inventory.Item
		err := tx.GetContext(ctx, &existing,
			`SELECT `+itemColumns+` FROM items WHERE part_number = ?`, item.PartNumber)
		switch {
		case err == sql.ErrNoRows:
			item.CreatedAt = now
			item.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO items (part_number, description, brand, category,
					list_price, net_price, quantity, min_stock, location, rack,
					uom, source_file, source_sheet, created_at, updated_at)
				VALUES (:part_number, :description, :brand, :category,
					:list_price, :net_price, :quantity, :min_stock, :location,
					:rack, :uom, :source_file, :source_sheet, :created_at,
					:updated_at)`, item); err != nil {
				return 0, errors.WrapStore("upsert", "items", err)
			}
			written++
		case err != nil:
			return 0, errors.WrapStore("upsert", "items", err)
		default:
			merged := mergeItems(existing, item)
			if merged == existing {
				continue
			}
			merged.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, `
				UPDATE items SET description = :description, brand = :brand,
					category = :category, list_price = :list_price,
					net_price = :net_price, quantity = :quantity,
					min_stock = :min_stock, location = :location, rack = :rack,
					uom = :uom, source_file = :source_file,
					source_sheet = :source_sheet, updated_at = :updated_at
				WHERE id = :id`, merged); err != nil {
				return 0, errors.WrapStore("upsert", "items", err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapStore("upsert", "items", err)
	}
	return written, nil
}

// mergeItems resolves a part-number collision. The higher list price wins
// the data fields; the loser backfills anything the winner left blank.
func mergeItems(existing, incoming inventory.Item) inventory.Item {
	winner, loser := existing, incoming
	if incoming.ListPrice > existing.ListPrice {
		winner, loser = incoming, existing
	}
	winner.ID = existing.ID
	winner.PartNumber = existing.PartNumber
	winner.CreatedAt = existing.CreatedAt

	if winner.Description == "" {
		winner.Description = loser.Description
	}
	if winner.Brand == "" || winner.Brand == inventory.BrandUnknown {
		if loser.Brand != "" {
			winner.Brand = loser.Brand
		}
	}
	if winner.Category == "" || winner.Category == inventory.CategoryUncategorized {
		if loser.Category != "" {
			winner.Category = loser.Category
		}
	}
	if winner.NetPrice == 0 {
		winner.NetPrice = loser.NetPrice
	}
	if winner.Quantity == 0 {
		winner.Quantity = loser.Quantity
	}
	if winner.MinStock == 0 {
		winner.MinStock = loser.MinStock
	}
	if winner.Location == "" {
		winner.Location = loser.Location
	}
	if winner.Rack == "" {
		winner.Rack = loser.Rack
	}
	if winner.UOM == "" {
		winner.UOM = loser.UOM
	}
	return winner
}

// GetItem fetches one item by part number, case-insensitively.
func (s *Store) GetItem(ctx context.Context, partNumber string) (*inventory.Item, error) {
	var item inventory.Item
	err := s.db.GetContext(ctx, &item,
		`SELECT `+itemColumns+` FROM items WHERE part_number = ?`, partNumber)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("item", partNumber)
	}
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return &item, nil
}

// ListItems returns items matching the filter plus the total match count
// before pagination.
func (s *Store) ListItems(ctx context.Context, filter inventory.Filter) ([]inventory.Item, int, error) {
	filter.Normalize()
	where, args := buildWhere(filter)

	var total int
	if err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM items`+where, args...); err != nil {
		return nil, 0, errors.WrapStore("query", "items", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + where +
		orderClause(filter) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	var items []inventory.Item
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, errors.WrapStore("query", "items", err)
	}
	return items, total, nil
}

func buildWhere(f inventory.Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if f.Text != "" {
		pattern := "%" + f.Text + "%"
		conditions = append(conditions,
			`(part_number LIKE ? OR description LIKE ? OR brand LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	if f.Brand != "" {
		conditions = append(conditions, `brand = ? COLLATE NOCASE`)
		args = append(args, f.Brand)
	}
	if f.Category != "" {
		conditions = append(conditions, `category = ? COLLATE NOCASE`)
		args = append(args, f.Category)
	}
	if f.Status != "" {
		conditions = append(conditions, `(`+stockStatusExpr+`) = ?`)
		args = append(args, f.Status)
	}
	if f.MinPrice > 0 {
		conditions = append(conditions, `list_price >= ?`)
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conditions = append(conditions, `list_price <= ?`)
		args = append(args, f.MaxPrice)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(f inventory.Filter) string {
	var col string
	switch f.SortBy {
	case inventory.SortByPrice:
		col = "list_price"
	case inventory.SortByQuantity:
		col = "quantity"
	case inventory.SortByUpdated:
		col = "updated_at"
	default:
		col = "list_price * quantity"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	// Part number breaks ties so pagination is stable.
	return fmt.Sprintf(" ORDER BY %s %s, part_number ASC", col, dir)
}

// UpdateItemFields applies field-level changes to an item and writes one
// audit row per changed field. Used by the enrichment flow.
func (s *Store) UpdateItemFields(ctx context.Context, partNumber string, fields map[string]string, source string) error {
	if len(fields) == 0 {
		return nil
	}

	allowed := map[string]bool{"description": true, "brand": true, "category": true, "uom": true}
	for field := range fields {
		if !allowed[field] {
			return errors.NewValidationError(field, fields[field], "field is not editable")
		}
	}

	item, err := s.GetItem(ctx, partNumber)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WrapStore("update", "items", err)
	}
	defer tx.Rollback()

	now := s.now()
	current := map[string]string{
		"description": item.Description,
		"brand":       item.Brand,
		"category":    item.Category,
		"uom":         item.UOM,
	}
	for field, value := range fields {
		if current[field] == value {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE items SET %s = ?, updated_at = ? WHERE id = ?`, field),
			value, now, item.ID); err != nil {
			return errors.WrapStore("update", "items", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO audit_log (part_number, field, old_value, new_value, source, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.PartNumber, field, current[field], value, source, now); err != nil {
			return errors.WrapStore("update", "audit_log", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapStore("update", "items", err)
	}
	return nil
}

// DeleteItem removes an item by part number, case-insensitively. The
// item's audit history is kept.
func (s *Store) DeleteItem(ctx context.Context, partNumber string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE part_number = ?`, partNumber)
	if err != nil {
		return errors.WrapStore("delete", "items", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapStore("delete", "items", err)
	}
	if n == 0 {
		return errors.NewNotFoundError("item", partNumber)
	}
	return nil
}

// AllItems returns every item ordered by brand, then price descending.
// Used by the Excel export, which wants the whole store.
func (s *Store) AllItems(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM items
		ORDER BY brand ASC, list_price DESC, part_number ASC`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return items, nil
}

// EnrichmentCandidates returns items with gaps the cleanup flow can fill:
// an unknown brand, an unclassified category, or no description. Most
// valuable stock first so a capped run fixes what matters.
func (s *Store) EnrichmentCandidates(ctx context.Context, limit int) ([]inventory.Item, error) {
	if limit <= 0 {
		limit = inventory.DefaultLimit
	}
	var items []inventory.Item
	err := s.db.SelectContext(ctx, &items,
		`SELECT `+itemColumns+` FROM items
		WHERE brand = ? OR category = ? OR description = ''
		ORDER BY list_price * quantity DESC, part_number ASC
		LIMIT ?`,
		inventory.BrandUnknown, inventory.CategoryUncategorized, limit)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return items, nil
}

// Brands returns the distinct brand names in the store, alphabetically.
func (s *Store) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	err := s.db.SelectContext(ctx, &brands,
		`SELECT DISTINCT brand FROM items WHERE brand != '' ORDER BY brand`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return brands, nil
}

// Categories returns the distinct category names in the store,
// alphabetically.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM items WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, errors.WrapStore("query", "items", err)
	}
	return categories, nil
}
