package ingest

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// brandKeywords maps filename fragments to canonical brand names. Order
// matters: first match wins, so more specific fragments sit ahead of their
// prefixes.
var brandKeywords = []struct {
	keyword string
	brand   string
}{
	{"mitsubishi", "Mitsubishi"},
	{"festo", "FESTO"},
	{"smc", "SMC"},
	{"eaton", "Eaton"},
	{"omron", "Omron"},
	{"sick", "SICK"},
	{"phoenix", "Phoenix"},
	{"pneumax", "Pneumax"},
	{"unison", "Unison"},
	{"trinity", "Trinity"},
	{"teknic", "Teknic"},
	{"lapp", "LAPP"},
	{"bearing", "Bearing"},
	{"cylinder", "Cylinder"},
	{"gear", "Gearbox"},
	{"heater", "Heater"},
	{"linear", "Linear"},
	{"sprocket", "Sprocket"},
	{"ceramix", "Ceramix"},
	{"crydom", "Crydom"},
	{"ebm", "EBM"},
	{"elstien", "Elstien"},
	{"grand", "Grand Polycoat"},
	{"hicool", "Hicool"},
	{"indo", "Indo Electricals"},
	{"nvent", "Nvent Hoffman"},
	{"precision", "Precision Valve"},
	{"pnf", "PNF"},
	{"wohner", "Wohner"},
	{"autonics", "Autonics"},
	{"albro", "Albro"},
	{"apratek", "Apratek"},
	{"siemens", "Siemens"},
	{"murrelektronik", "Murr"},
	{"murr", "Murr"},
	{"bonfiglioli", "Bonfiglioli"},
	{"becker", "Becker"},
	{"sunchu", "Sunchu"},
	{"yyc", "YYC"},
	{"hetronik", "Hetronik"},
	{"flexicab", "Flexicab"},
	{"hrc", "HRC"},
	{"iac", "IAC"},
	{"lathe", "Lathe"},
	{"nlmk", "NLMK"},
	{"sapt", "SAPT"},
	{"foliplast", "Foliplast"},
	{"nyxinc", "Nyxinc"},
	{"self", "Self Moulds"},
	{"plastoform", "Plastoform"},
	{"arihant", "Arihant"},
	{"looknorth", "Looknorth"},
	{"shoda", "Shoda"},
	{"supreme", "Supreme"},
	{"asun", "Asun"},
	{"big", "Big Bear"},
}

var brandTitleCaser = cases.Title(language.English)

// BrandFromFilename infers the vendor brand from a workbook path. Vendor
// sheets are almost always named after the supplier, so this beats any
// column most of the time.
func BrandFromFilename(path string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	full := strings.ToLower(path)
	for _, bk := range brandKeywords {
		if strings.Contains(stem, bk.keyword) || strings.Contains(full, bk.keyword) {
			return bk.brand
		}
	}
	return inventory.BrandUnknown
}

// CanonicalBrand normalizes a brand cell from a workbook. Known brands snap
// to their canonical casing; unknown ones get title case.
func CanonicalBrand(raw string) string {
	raw = CleanText(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	for _, bk := range brandKeywords {
		if lower == strings.ToLower(bk.brand) || lower == bk.keyword {
			return bk.brand
		}
	}
	return brandTitleCaser.String(lower)
}
