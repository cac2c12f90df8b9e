// Package inventory defines the canonical inventory data model shared by the
// ingest pipeline, the relational store, and the query surfaces.
package inventory

import (
	"encoding/json"
	"time"
)

// Stock status labels derived from quantity vs. minimum stock.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// Price band labels derived from the unit list price.
const (
	BandLow    = "Low (<1K)"
	BandMedium = "Medium (1K-10K)"
	BandHigh   = "High (>10K)"
)

// Price band thresholds in rupees.
const (
	bandMediumFloor = 1000
	bandHighFloor   = 10000
)

// Item is a single consolidated inventory record. Part numbers are unique
// across the store; everything else is best-effort data recovered from the
// source workbooks.
type Item struct {
	ID          int64     `db:"id" json:"id"`
	PartNumber  string    `db:"part_number" json:"part_number"`
	Description string    `db:"description" json:"description"`
	Brand       string    `db:"brand" json:"brand"`
	Category    string    `db:"category" json:"category"`
	ListPrice   float64   `db:"list_price" json:"list_price"`
	NetPrice    float64   `db:"net_price" json:"net_price"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MinStock    int       `db:"min_stock" json:"min_stock"`
	Location    string    `db:"location" json:"location"`
	Rack        string    `db:"rack" json:"rack"`
	UOM         string    `db:"uom" json:"uom"`
	SourceFile  string    `db:"source_file" json:"source_file"`
	SourceSheet string    `db:"source_sheet" json:"source_sheet"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TotalValue returns the stock value of the item (list price x quantity).
func (i Item) TotalValue() float64 {
	return i.ListPrice * float64(i.Quantity)
}

// StockStatus classifies the item by quantity against its minimum stock.
func (i Item) StockStatus() string {
	switch {
	case i.Quantity == 0:
		return StatusOutOfStock
	case i.Quantity <= i.MinStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// PriceBand buckets the item by unit list price.
func (i Item) PriceBand() string {
	switch {
	case i.ListPrice > bandHighFloor:
		return BandHigh
	case i.ListPrice > bandMediumFloor:
		return BandMedium
	default:
		return BandLow
	}
}

// MarshalJSON includes the derived fields alongside the stored columns so
// API consumers do not re-implement the classification rules.
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		TotalValue  float64 `json:"total_value"`
		StockStatus string  `json:"stock_status"`
		PriceBand   string  `json:"price_band"`
	}{
		alias:       alias(i),
		TotalValue:  i.TotalValue(),
		StockStatus: i.StockStatus(),
		PriceBand:   i.PriceBand(),
	})
}

// Categories is the fixed category label set assigned by the classifier.
var Categories = []string{
	"PLC & Control Systems",
	"Motors & Drives",
	"Pneumatic Components",
	"Electrical Components",
	"Sensors & Instrumentation",
	"Mechanical Components",
	"Heating Elements",
	"Enclosures & Cabinets",
	"Cables & Connectors",
	"Fasteners & Hardware",
	"Tools & Equipment",
	"Hydraulic Components",
	"Safety Equipment",
	CategoryUncategorized,
}

// CategoryUncategorized is assigned when no classification rule matches.
const CategoryUncategorized = "Uncategorized"

// BrandUnknown is assigned when no brand column exists and filename
// inference fails.
const BrandUnknown = "Unknown"
