package ingest

import "testing"

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"nan", 0},
		{"1500", 1500},
		{"1234.56", 1234.56},
		{"₹1,500", 1500},
		{"Rs. 2,500.50", 2500.50},
		{"Rs.1200", 1200},
		{"INR 1,250.00", 1250},
		{"$ 99", 99},
		{"1000 per pc", 1000},
		{"100-200", 200},
		{"300 - 150", 300},
		{"(500)", -500},
		{"(1,500)", -1500},
		{"-500", -500},
		{"₹ -500", -500},
		{"N/A", 0},
		{"call for price", 0},
	}

	for _, tt := range tests {
		if got := CleanPrice(tt.input); got != tt.want {
			t.Errorf("CleanPrice(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCleanQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"nan", 0},
		{"5", 5},
		{"5.0", 5},
		{"5.9", 5},
		{"1,200", 1200},
		{"  12  ", 12},
		{"many", 0},
	}

	for _, tt := range tests {
		if got := CleanQuantity(tt.input); got != tt.want {
			t.Errorf("CleanQuantity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  FX2N-32MR  ", "FX2N-32MR"},
		{"nan", ""},
		{"NaN", ""},
		{"-", ""},
		{"--", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
