package ingest

import (
	"strings"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// Deduplicate collapses items that share a part number (case-insensitive),
// keeping the higher-priced record since vendor sheets routinely list stale
// prices. Items without a part number are keyed by description instead.
// Input order is preserved for the surviving records.
func Deduplicate(items []inventory.Item) []inventory.Item {
	type slot struct {
		pos  int
		item inventory.Item
	}

	seen := make(map[string]*slot, len(items))
	order := make([]*slot, 0, len(items))

	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.PartNumber))
		if key == "" {
			key = "desc:" + strings.ToLower(strings.TrimSpace(item.Description))
		}
		if key == "desc:" {
			continue
		}

		if existing, ok := seen[key]; ok {
			if item.ListPrice > existing.item.ListPrice {
				merged := item
				// Keep whatever data the loser had that the winner lacks.
				fillMissing(&merged, existing.item)
				existing.item = merged
			} else {
				fillMissing(&existing.item, item)
			}
			continue
		}

		s := &slot{pos: len(order), item: item}
		seen[key] = s
		order = append(order, s)
	}

	out := make([]inventory.Item, len(order))
	for i, s := range order {
		out[i] = s.item
	}
	return out
}

func fillMissing(dst *inventory.Item, src inventory.Item) {
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Brand == "" || dst.Brand == inventory.BrandUnknown {
		if src.Brand != "" {
			dst.Brand = src.Brand
		}
	}
	if dst.Category == inventory.CategoryUncategorized && src.Category != "" {
		dst.Category = src.Category
	}
	if dst.NetPrice == 0 {
		dst.NetPrice = src.NetPrice
	}
	if dst.Quantity == 0 {
		dst.Quantity = src.Quantity
	}
	if dst.MinStock == 0 {
		dst.MinStock = src.MinStock
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Rack == "" {
		dst.Rack = src.Rack
	}
	if dst.UOM == "" {
		dst.UOM = src.UOM
	}
}
