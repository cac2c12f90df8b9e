// Package search turns free-form chat queries into inventory filters. The
// interpreter is a keyword matcher, not a parser: every input maps to some
// query, and unrecognized text falls through to a substring search.
package search

import (
	"strings"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// Query is the interpreted form of a chat message.
type Query struct {
	// Title is a human label for the result set, e.g. "FESTO Products".
	Title string `json:"title"`
	// Summary requests the store-wide rollup instead of an item listing.
	Summary bool `json:"summary"`
	// Filter is the item filter when Summary is false.
	Filter inventory.Filter `json:"filter"`
}

// High/low price cutoffs for "expensive" and "cheap" queries, matching the
// price bands.
const (
	expensiveFloor = 10000
	cheapCeiling   = 1000
)

var summaryWords = []string{"summary", "overview", "total", "totals", "stats", "statistics"}

// categoryGroups maps keyword groups to category filters, checked in order
// with first match winning.
var categoryGroups = []struct {
	category string
	words    []string
}{
	{"Motors & Drives", []string{"servo", "motor", "drive", "inverter", "vfd"}},
	{"Pneumatic Components", []string{"pneumatic", "cylinder", "valve"}},
	{"Electrical Components", []string{"electrical", "contactor", "mcb", "mccb", "relay", "breaker", "fuse"}},
	{"Cables & Connectors", []string{"cable", "wire", "connector"}},
	{"Sensors & Instrumentation", []string{"sensor", "proximity", "encoder"}},
	{"PLC & Control Systems", []string{"plc", "controller", "cpu"}},
	{"Heating Elements", []string{"heater", "heating"}},
	{"Mechanical Components", []string{"bearing", "gear", "sprocket", "chain"}},
	{"Hydraulic Components", []string{"hydraulic"}},
	{"Safety Equipment", []string{"safety", "emergency"}},
}

// brandWords are the brands people actually ask about in chat.
var brandWords = []struct {
	word  string
	brand string
}{
	{"mitsubishi", "Mitsubishi"},
	{"festo", "FESTO"},
	{"smc", "SMC"},
	{"eaton", "Eaton"},
	{"omron", "Omron"},
	{"sick", "SICK"},
	{"phoenix", "Phoenix"},
	{"lapp", "LAPP"},
	{"siemens", "Siemens"},
	{"pneumax", "Pneumax"},
	{"murr", "Murr"},
	{"autonics", "Autonics"},
	{"bonfiglioli", "Bonfiglioli"},
}

// fillerWords are stripped before falling back to a text search.
var fillerWords = map[string]bool{
	"inventory": true, "search": true, "show": true, "find": true,
	"list": true, "me": true, "all": true, "the": true, "items": true,
	"item": true, "parts": true, "part": true, "of": true, "for": true,
	"do": true, "we": true, "have": true, "any": true, "what": true,
	"which": true, "are": true, "is": true, "please": true,
}

// Interpret maps a chat message to a query. It is total: every input,
// including the empty string, yields a usable query.
func Interpret(text string) Query {
	lower := strings.ToLower(strings.TrimSpace(text))

	if lower == "" || isSummaryWord(lower) {
		return Query{Title: "Inventory Summary", Summary: true}
	}

	var (
		q       Query
		matched bool
		titles  []string
	)

	switch {
	case containsAny(lower, "out of stock", "no stock", "zero stock"):
		q.Filter.Status = inventory.StatusOutOfStock
		titles = append(titles, "Out of Stock Items")
		matched = true
	case containsAny(lower, "low stock", "running low", "reorder"):
		q.Filter.Status = inventory.StatusLowStock
		titles = append(titles, "Low Stock Items")
		matched = true
	case strings.Contains(lower, "in stock"):
		q.Filter.Status = inventory.StatusInStock
		titles = append(titles, "In Stock Items")
		matched = true
	}

	switch {
	case containsAny(lower, "expensive", "high price", "high value", "costly"):
		q.Filter.MinPrice = expensiveFloor
		q.Filter.SortBy = inventory.SortByPrice
		titles = append(titles, "High Value Items")
		matched = true
	case containsAny(lower, "cheap", "low price", "low value", "budget"):
		q.Filter.MaxPrice = cheapCeiling
		q.Filter.SortBy = inventory.SortByPrice
		q.Filter.SortAsc = true
		titles = append(titles, "Low Value Items")
		matched = true
	}

	for _, bw := range brandWords {
		if containsWord(lower, bw.word) {
			q.Filter.Brand = bw.brand
			titles = append([]string{bw.brand}, titles...)
			matched = true
			break
		}
	}

	for _, group := range categoryGroups {
		if wordFromGroup(lower, group.words) {
			q.Filter.Category = group.category
			titles = append(titles, group.category)
			matched = true
			break
		}
	}

	if !matched {
		q.Filter.Text = stripFiller(lower)
		if q.Filter.Text == "" {
			return Query{Title: "Inventory Summary", Summary: true}
		}
		q.Title = "Search Results for \"" + q.Filter.Text + "\""
		return q
	}

	if q.Filter.Brand != "" && q.Filter.Category == "" && q.Filter.Status == "" &&
		q.Filter.MinPrice == 0 && q.Filter.MaxPrice == 0 {
		q.Title = q.Filter.Brand + " Products"
		return q
	}
	q.Title = strings.Join(titles, " ")
	return q
}

func isSummaryWord(lower string) bool {
	for _, w := range summaryWords {
		if lower == w {
			return true
		}
	}
	return false
}

func containsAny(s string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// containsWord matches on word boundaries so "smc" does not fire inside an
// unrelated part number.
func containsWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if strings.Trim(f, ".,!?") == word {
			return true
		}
	}
	return false
}

func wordFromGroup(s string, words []string) bool {
	for _, f := range strings.Fields(s) {
		token := strings.Trim(f, ".,!?")
		token = strings.TrimSuffix(token, "s")
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	return false
}

func stripFiller(lower string) string {
	var kept []string
	for _, f := range strings.Fields(lower) {
		token := strings.Trim(f, ".,!?")
		if token == "" || fillerWords[token] {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
