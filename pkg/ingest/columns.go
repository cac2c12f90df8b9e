package ingest

import "strings"

// canonicalField identifies a column of the canonical item schema.
type canonicalField string

const (
	fieldPartNumber  canonicalField = "part_number"
	fieldDescription canonicalField = "description"
	fieldBrand       canonicalField = "brand"
	fieldListPrice   canonicalField = "list_price"
	fieldNetPrice    canonicalField = "net_price"
	fieldQuantity    canonicalField = "quantity"
	fieldMinStock    canonicalField = "min_stock"
	fieldLocation    canonicalField = "location"
	fieldRack        canonicalField = "rack"
	fieldUOM         canonicalField = "uom"
)

// columnSynonyms maps each canonical field to the header fragments seen in
// vendor workbooks. Matching is a case-insensitive substring test, so order
// matters both across fields (net price claims its column before list price
// can) and within a field (more specific fragments first).
var columnSynonyms = []struct {
	field    canonicalField
	synonyms []string
}{
	{fieldPartNumber, []string{"part number", "part no", "part_no", "model", "item no", "item_no", "code", "sku", "part", "component", "ref", "reference", "item"}},
	{fieldDescription, []string{"description", "desc", "product", "specification", "spec", "details", "remarks", "notes", "name"}},
	{fieldBrand, []string{"brand", "make", "manufacturer", "mfr", "oem"}},
	{fieldNetPrice, []string{"net price", "net_price", "net rate", "discounted price", "landed cost"}},
	{fieldListPrice, []string{"list price", "unit price", "unit_price", "unit cost", "price", "cost", "rate", "value", "amount", "rs", "inr", "rupees", "mrp"}},
	{fieldMinStock, []string{"min stock", "min_stock", "minimum", "reorder level", "reorder_level", "reorder point", "safety stock"}},
	{fieldQuantity, []string{"quantity", "qty", "stock", "available", "in stock", "count", "pieces", "nos", "units", "balance"}},
	{fieldLocation, []string{"location", "store", "warehouse", "godown"}},
	{fieldRack, []string{"rack", "bin", "shelf"}},
	{fieldUOM, []string{"uom", "unit of measure", "units of measure", "measure"}},
}

// columnMap holds the resolved column index per canonical field, or -1 when
// the sheet has no matching column.
type columnMap map[canonicalField]int

// mapColumns resolves sheet headers to canonical fields. Each sheet column
// is claimed at most once.
func mapColumns(columns []string) columnMap {
	cm := make(columnMap, len(columnSynonyms))
	claimed := make([]bool, len(columns))
	for _, entry := range columnSynonyms {
		cm[entry.field] = -1
		for i, col := range columns {
			if claimed[i] {
				continue
			}
			lower := strings.ToLower(strings.TrimSpace(col))
			if lower == "" {
				continue
			}
			if matchesAny(lower, entry.synonyms) {
				cm[entry.field] = i
				claimed[i] = true
				break
			}
		}
	}
	return cm
}

func matchesAny(header string, synonyms []string) bool {
	for _, s := range synonyms {
		if strings.Contains(header, s) {
			return true
		}
	}
	return false
}

// has reports whether the field resolved to a real column.
func (cm columnMap) has(f canonicalField) bool {
	idx, ok := cm[f]
	return ok && idx >= 0
}

// cell returns the row value for a field, or "" when unmapped or the row is
// short.
func (cm columnMap) cell(row []string, f canonicalField) string {
	idx, ok := cm[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// countMappedColumns reports how many canonical fields a header row would
// resolve. Used to decide whether a probe row is the real header.
func countMappedColumns(columns []string) int {
	cm := mapColumns(columns)
	n := 0
	for _, idx := range cm {
		if idx >= 0 {
			n++
		}
	}
	return n
}
