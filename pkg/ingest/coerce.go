package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Cell coercion never fails a row. Unparseable prices and quantities become
// zero so one mangled cell cannot sink an otherwise good workbook.

var (
	currencyRunes = regexp.MustCompile(`[₹$€£,\s]`)
	// Words with their trailing dot, so "Rs." leaves no orphan punctuation.
	wordTokens = regexp.MustCompile(`[a-zA-Z]+\.?`)
)

// CleanText trims a cell and drops spreadsheet NaN markers.
func CleanText(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "nan") || v == "-" || v == "--" {
		return ""
	}
	return v
}

// CleanPrice parses a price cell. Currency symbols, thousands separators,
// and unit suffixes are stripped; "1000-1500" style ranges resolve to the
// higher bound; accounting parentheses mean negative. Anything else is 0.
func CleanPrice(v string) float64 {
	s := strings.TrimSpace(v)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}

	s = wordTokens.ReplaceAllString(s, "")
	s = currencyRunes.ReplaceAllString(s, "")

	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		s = strings.ReplaceAll(s, "(", "-")
		s = strings.ReplaceAll(s, ")", "")
	}

	// An interior dash is a range; a leading dash is a sign.
	if i := strings.Index(s, "-"); i > 0 {
		lo, errLo := strconv.ParseFloat(s[:i], 64)
		hi, errHi := strconv.ParseFloat(s[i+1:], 64)
		if errLo != nil || errHi != nil {
			return 0
		}
		if hi > lo {
			return hi
		}
		return lo
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}

// CleanQuantity parses a quantity cell through float so "5.0" counts as 5.
func CleanQuantity(v string) int {
	s := strings.TrimSpace(v)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
