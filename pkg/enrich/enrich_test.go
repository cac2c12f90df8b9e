package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

type fakeSource struct {
	candidates []inventory.Item
	updates    map[string]map[string]string
}

func (f *fakeSource) EnrichmentCandidates(_ context.Context, limit int) ([]inventory.Item, error) {
	if len(f.candidates) > limit {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func (f *fakeSource) UpdateItemFields(_ context.Context, part string, fields map[string]string, source string) error {
	if source != UpdateSource {
		return errors.New("unexpected update source")
	}
	if f.updates == nil {
		f.updates = make(map[string]map[string]string)
	}
	f.updates[part] = fields
	return nil
}

type fakeGenerator struct {
	output  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func newTestEnricher(t *testing.T, src *fakeSource, gen *fakeGenerator) *Enricher {
	t.Helper()
	e, err := New(src, Config{}, logging.Default(), WithGenerator(gen))
	require.NoError(t, err)
	return e
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(&fakeSource{}, Config{}, logging.Default())
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestRunAppliesValidSuggestions(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Description: "", Brand: "Unknown", Category: "Uncategorized"},
	}}
	gen := &fakeGenerator{output: `[
		{"part_number": "DRV-200", "description": "AC servo drive 200W", "brand": "Mitsubishi", "category": "Motors & Drives", "confidence": 0.9}
	]`}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Rejected)
	assert.Equal(t, map[string]string{
		"description": "AC servo drive 200W",
		"brand":       "Mitsubishi",
		"category":    "Motors & Drives",
	}, src.updates["DRV-200"])
}

func TestRunSkipsFilledFields(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Description: "existing description", Brand: "FESTO", Category: "Uncategorized"},
	}}
	gen := &fakeGenerator{output: `[
		{"part_number": "DRV-200", "description": "overwrite attempt", "brand": "Mitsubishi", "category": "Motors & Drives", "confidence": 0.8}
	]`}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)

	// Only the category gap is filled; existing data is never overwritten.
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, map[string]string{"category": "Motors & Drives"}, src.updates["DRV-200"])
}

func TestRunRejectsHallucinatedParts(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Brand: "Unknown"},
	}}
	gen := &fakeGenerator{output: `[{"part_number": "NOT-A-PART", "brand": "FESTO", "confidence": 0.9}]`}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Rejected)
	assert.Empty(t, src.updates)
}

func TestRunRejectsInvalidCategory(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Category: "Uncategorized"},
	}}
	gen := &fakeGenerator{output: `[{"part_number": "DRV-200", "category": "Made Up Category", "confidence": 0.9}]`}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Rejected)
}

func TestRunToleratesMarkdownFences(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Brand: "Unknown"},
	}}
	gen := &fakeGenerator{output: "```json\n[{\"part_number\": \"DRV-200\", \"brand\": \"SMC\", \"confidence\": 0.7}]\n```"}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
}

func TestRunDiscardsGarbageOutput(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Brand: "Unknown"},
	}}
	gen := &fakeGenerator{output: "I'm sorry, I cannot help with that."}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Rejected)
}

func TestRunSkipsLowConfidence(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Brand: "Unknown"},
	}}
	// Missing confidence decodes as zero, which is below any threshold.
	gen := &fakeGenerator{output: `[
		{"part_number": "DRV-200", "brand": "SMC", "confidence": 0.3},
		{"part_number": "DRV-200", "brand": "FESTO"}
	]`}

	report, err := newTestEnricher(t, src, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, src.updates)
}

func TestRunDryRunCollectsChanges(t *testing.T) {
	src := &fakeSource{candidates: []inventory.Item{
		{PartNumber: "DRV-200", Brand: "Unknown"},
	}}
	gen := &fakeGenerator{output: `[
		{"part_number": "DRV-200", "brand": "SMC", "confidence": 0.9, "notes": "SMC part numbering"}
	]`}

	e, err := New(src, Config{DryRun: true}, logging.Default(), WithGenerator(gen))
	require.NoError(t, err)

	report, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, src.updates)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "DRV-200", report.Changes[0].PartNumber)
	assert.Equal(t, map[string]string{"brand": "SMC"}, report.Changes[0].Fields)
	assert.Equal(t, "SMC part numbering", report.Changes[0].Notes)
}

func TestRunNoCandidates(t *testing.T) {
	gen := &fakeGenerator{}
	report, err := newTestEnricher(t, &fakeSource{}, gen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Examined)
	assert.Empty(t, gen.prompts)
}

func TestBuildPromptPinsCategories(t *testing.T) {
	prompt := buildPrompt([]inventory.Item{{PartNumber: "X-1", Brand: "Unknown"}})
	for _, cat := range inventory.Categories {
		assert.Contains(t, prompt, cat)
	}
	assert.Contains(t, prompt, "X-1")
}
