package ingest

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// CategoryRule assigns a category when any keyword appears in the part
// number or description.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	PartOnly bool     `yaml:"part_only"`
	Keywords []string `yaml:"keywords"`
}

// BrandRule assigns a category from the brand alone when no keyword rule
// matched.
type BrandRule struct {
	Category string   `yaml:"category"`
	Brands   []string `yaml:"brands"`
}

type ruleFile struct {
	Categories []CategoryRule `yaml:"categories"`
	Brands     []BrandRule    `yaml:"brands"`
}

// Classifier assigns a category label to each item from keyword rules, with
// brand and part-number-shape fallbacks.
type Classifier struct {
	categories []CategoryRule
	brands     []BrandRule
}

// Part number shapes that hint at a category when nothing else matches.
var (
	electricalPartPattern = regexp.MustCompile(`^[A-Z]{2,4}\d+`)
	mechanicalPartPattern = regexp.MustCompile(`^[A-Z]{1,3}\d+[A-Z]`)
)

// NewClassifier returns a classifier loaded with the embedded default rules.
func NewClassifier() *Classifier {
	c, err := parseRules(defaultRulesYAML)
	if err != nil {
		// The embedded rules are validated by tests; a parse failure here is
		// a build defect.
		panic(err)
	}
	return c
}

// NewClassifierFromFile loads rules from a YAML file, replacing the embedded
// defaults.
func NewClassifierFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	c, err := parseRules(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return c, nil
}

func parseRules(data []byte) (*Classifier, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	if len(rf.Categories) == 0 {
		return nil, errors.New("rules define no categories")
	}
	return &Classifier{categories: rf.Categories, brands: rf.Brands}, nil
}

// Categorize picks the category for an item. Keyword rules run first in file
// order, then brand fallbacks, then part-number-shape fallbacks.
func (c *Classifier) Categorize(partNumber, description, brand string) string {
	part := strings.ToLower(partNumber)
	desc := strings.ToLower(description)

	for _, rule := range c.categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(part, kw) {
				return rule.Name
			}
			if !rule.PartOnly && strings.Contains(desc, kw) {
				return rule.Name
			}
		}
	}

	brandLower := strings.ToLower(brand)
	for _, rule := range c.brands {
		for _, b := range rule.Brands {
			if brandLower == b {
				return rule.Category
			}
		}
	}

	if electricalPartPattern.MatchString(partNumber) {
		return "Electrical Components"
	}
	if mechanicalPartPattern.MatchString(partNumber) {
		return "Mechanical Components"
	}
	return inventory.CategoryUncategorized
}
