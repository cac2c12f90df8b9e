package ingest

import (
	"testing"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

func TestBrandFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"inventory/FESTO Stock List 2023.xlsx", "FESTO"},
		{"inventory/mitsubishi_plc_inventory.xlsx", "Mitsubishi"},
		{"SMC-pneumatics.xlsx", "SMC"},
		{"eaton electrical.xlsx", "Eaton"},
		{"Murrelektronik connectors.xlsx", "Murr"},
		{"vendor/LAPP cables Q3.xlsx", "LAPP"},
		{"stock/siemens drives.xlsx", "Siemens"},
		{"random stock sheet.xlsx", inventory.BrandUnknown},
	}

	for _, tt := range tests {
		if got := BrandFromFilename(tt.path); got != tt.want {
			t.Errorf("BrandFromFilename(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBrandFromFilenameMatchesDirectory(t *testing.T) {
	// Brand keyword in a parent directory still counts.
	if got := BrandFromFilename("vendors/omron/sensors list.xlsx"); got != "Omron" {
		t.Errorf("got %q, want Omron", got)
	}
}

func TestCanonicalBrand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"festo", "FESTO"},
		{"FESTO", "FESTO"},
		{"Mitsubishi", "Mitsubishi"},
		{"murrelektronik", "Murr"},
		{"acme controls", "Acme Controls"},
		{"nan", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalBrand(tt.input); got != tt.want {
			t.Errorf("CanonicalBrand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
