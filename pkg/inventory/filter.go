package inventory

// Sort fields accepted by Filter.SortBy.
const (
	SortByValue    = "value"
	SortByPrice    = "price"
	SortByQuantity = "quantity"
	SortByUpdated  = "updated"
)

// Filter narrows item listings and searches. Zero values mean "no
// constraint"; a price bound of 0 is treated as unset.
type Filter struct {
	// Text is matched as a case-insensitive substring of part number,
	// description, and brand.
	Text string `json:"text,omitempty"`

	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`

	// Status filters by derived stock status (In Stock, Low Stock,
	// Out of Stock).
	Status string `json:"status,omitempty"`

	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`

	// SortBy is one of the SortBy* constants; empty means value.
	SortBy   string `json:"sort_by,omitempty"`
	SortAsc  bool   `json:"sort_asc,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`

	// Summary marks a rollup request rather than an item listing. Set by
	// the chat query interpreter.
	Summary bool `json:"summary,omitempty"`
}

// DefaultLimit caps result sets when no explicit limit is given.
const DefaultLimit = 50

// MaxLimit is the hard ceiling for a single page of results.
const MaxLimit = 1000

// Normalize clamps pagination and fills defaults, returning the filter for
// chaining.
func (f *Filter) Normalize() *Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	switch f.SortBy {
	case SortByValue, SortByPrice, SortByQuantity, SortByUpdated:
	default:
		f.SortBy = SortByValue
	}
	return f
}

// IsZero reports whether the filter constrains nothing beyond pagination.
func (f Filter) IsZero() bool {
	return f.Text == "" && f.Brand == "" && f.Category == "" &&
		f.Status == "" && f.MinPrice == 0 && f.MaxPrice == 0 && !f.Summary
}

// Summary is the store-wide rollup shown on dashboards and in chat.
type Summary struct {
	TotalItems      int     `db:"total_items" json:"total_items"`
	TotalBrands     int     `db:"total_brands" json:"total_brands"`
	TotalCategories int     `db:"total_categories" json:"total_categories"`
	TotalQuantity   int     `db:"total_quantity" json:"total_quantity"`
	TotalValue      float64 `db:"total_value" json:"total_value"`
	AveragePrice    float64 `db:"avg_price" json:"avg_price"`
	LowStockItems   int     `db:"low_stock_items" json:"low_stock_items"`
	OutOfStockItems int     `db:"out_of_stock_items" json:"out_of_stock_items"`
}

// GroupStats is a per-brand or per-category rollup row.
type GroupStats struct {
	Name          string  `db:"name" json:"name"`
	ItemCount     int     `db:"item_count" json:"item_count"`
	TotalQuantity int     `db:"total_quantity" json:"total_quantity"`
	AveragePrice  float64 `db:"avg_price" json:"avg_price"`
	MinPrice      float64 `db:"min_price" json:"min_price"`
	MaxPrice      float64 `db:"max_price" json:"max_price"`
	TotalValue    float64 `db:"total_value" json:"total_value"`
}
