package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// suggestion is one model-proposed fix for an item.
type suggestion struct {
	PartNumber  string  `json:"part_number"`
	Description string  `json:"description,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// buildPrompt renders the batch into the instruction the model answers.
// The category vocabulary is pinned so suggestions stay inside the fixed
// label set.
func buildPrompt(items []inventory.Item) string {
	var sb strings.Builder
	sb.WriteString("You are cleaning up an industrial spare-parts inventory.\n")
	sb.WriteString("For each item below, fill in only the fields that are missing or marked ")
	fmt.Fprintf(&sb, "%q or %q. ", inventory.BrandUnknown, inventory.CategoryUncategorized)
	sb.WriteString("Infer from the part number and any description given. ")
	sb.WriteString("If you cannot tell, omit the field rather than guessing.\n\n")

	sb.WriteString("Allowed categories:\n")
	for _, cat := range inventory.Categories {
		sb.WriteString("- " + cat + "\n")
	}

	sb.WriteString("\nItems:\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "- part_number: %s | description: %s | brand: %s | category: %s\n",
			item.PartNumber, item.Description, item.Brand, item.Category)
	}

	sb.WriteString("\nAnswer with a JSON array only, no prose. Each element: ")
	sb.WriteString(`{"part_number": "...", "description": "...", "brand": "...", "category": "...", "confidence": 0.0, "notes": "..."}`)
	sb.WriteString(" with uncertain fields left out. confidence is between 0 and 1 ")
	sb.WriteString("and reflects how sure you are overall; notes is an optional ")
	sb.WriteString("one-line rationale.\n")
	return sb.String()
}

// parseSuggestions decodes the model output. Markdown fences are tolerated;
// anything else non-JSON is an error.
func parseSuggestions(raw string) ([]suggestion, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var suggestions []suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, errors.WrapParse("json", "model output", err)
	}
	return suggestions, nil
}

// applicableFields returns the updates that are safe to apply: only gaps in
// the stored item, only valid category labels, and never the part number.
func (s suggestion) applicableFields(item inventory.Item) map[string]string {
	fields := make(map[string]string)

	if desc := strings.TrimSpace(s.Description); desc != "" && item.Description == "" {
		fields["description"] = desc
	}
	if brand := strings.TrimSpace(s.Brand); brand != "" &&
		(item.Brand == "" || item.Brand == inventory.BrandUnknown) {
		fields["brand"] = brand
	}
	if cat := strings.TrimSpace(s.Category); validCategory(cat) &&
		cat != inventory.CategoryUncategorized &&
		(item.Category == "" || item.Category == inventory.CategoryUncategorized) {
		fields["category"] = cat
	}
	return fields
}

func validCategory(cat string) bool {
	for _, c := range inventory.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
