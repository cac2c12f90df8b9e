package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

func TestCategorizeKeywords(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name        string
		partNumber  string
		description string
		brand       string
		want        string
	}{
		{"plc by part number", "FX2N-32MR", "", "Mitsubishi", "PLC & Control Systems"},
		{"servo motor", "HG-KR43", "servo motor 400W", "Mitsubishi", "Motors & Drives"},
		{"pneumatic cylinder", "DSBC-40-100", "pneumatic cylinder", "FESTO", "Pneumatic Components"},
		{"contactor", "XTCE025C10", "contactor 25A", "Eaton", "Electrical Components"},
		{"proximity sensor", "E2E-X5ME1", "proximity sensor M12", "Omron", "Sensors & Instrumentation"},
		{"bearing", "6204ZZ", "ball bearing", "Bearing", "Mechanical Components"},
		{"band heater", "BH-100", "band heater 1000W", "Heater", "Heating Elements"},
		{"enclosure", "AE1380", "steel enclosure", "Nvent Hoffman", "Enclosures & Cabinets"},
		{"connector", "SKINTOP-11", "connector gland PG11", "LAPP", "Cables & Connectors"},
		{"fastener", "", "hex bolt M8x40", "Unknown", "Fasteners & Hardware"},
		{"gauge", "", "pressure gauge 0-10 bar", "Unknown", "Tools & Equipment"},
		{"hydraulic pump", "", "hydraulic pump 5HP", "Unknown", "Hydraulic Components"},
		{"emergency stop", "", "emergency stop button", "Unknown", "Safety Equipment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(tt.partNumber, tt.description, tt.brand)
			if got != tt.want {
				t.Errorf("Categorize(%q, %q, %q) = %q, want %q",
					tt.partNumber, tt.description, tt.brand, got, tt.want)
			}
		})
	}
}

func TestCategorizeDescriptionNeverMatchesPartOnlyRule(t *testing.T) {
	c := NewClassifier()
	// "input" is a PLC part-number keyword; in a description alone it must
	// not trigger the rule.
	got := c.Categorize("ZZZ", "input shaft coupling assembly for press", "Unknown")
	if got == "PLC & Control Systems" {
		t.Fatalf("part-only keyword matched description, got %q", got)
	}
}

func TestCategorizeBrandFallback(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		brand string
		want  string
	}{
		{"Siemens", "PLC & Control Systems"},
		{"Pneumax", "Pneumatic Components"},
		{"Wohner", "Electrical Components"},
		{"SICK", "Sensors & Instrumentation"},
		{"Murr", "Cables & Connectors"},
	}

	for _, tt := range tests {
		// Opaque part number and description so only the brand can decide.
		if got := c.Categorize("9", "item", tt.brand); got != tt.want {
			t.Errorf("brand %q: got %q, want %q", tt.brand, got, tt.want)
		}
	}
}

func TestCategorizePartNumberShapeFallback(t *testing.T) {
	c := NewClassifier()

	if got := c.Categorize("XTKE4500", "", "Unknown"); got != "Electrical Components" {
		t.Errorf("letters-then-digits shape: got %q", got)
	}
	if got := c.Categorize("W6204Z", "", "Unknown"); got != "Mechanical Components" {
		t.Errorf("letter-digit-letter shape: got %q", got)
	}
}

func TestCategorizeUncategorized(t *testing.T) {
	c := NewClassifier()
	if got := c.Categorize("12345", "widget", "Unknown"); got != inventory.CategoryUncategorized {
		t.Errorf("got %q, want %q", got, inventory.CategoryUncategorized)
	}
}

func TestNewClassifierFromFile(t *testing.T) {
	rules := `
categories:
  - name: Widgets
    keywords: [widget]
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewClassifierFromFile(path)
	if err != nil {
		t.Fatalf("NewClassifierFromFile() error = %v", err)
	}
	if got := c.Categorize("", "blue widget", ""); got != "Widgets" {
		t.Errorf("got %q, want Widgets", got)
	}
}

func TestNewClassifierFromFileRejectsEmptyRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("categories: []"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewClassifierFromFile(path); err == nil {
		t.Fatal("expected error for empty category rules")
	}
}
