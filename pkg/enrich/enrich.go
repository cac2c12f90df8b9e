// Package enrich fills inventory data gaps with Gemini. Items with an
// unknown brand, an unclassified category, or a missing description are
// batched into a prompt; the model's suggestions are validated and written
// back through the store's audited field updates.
package enrich

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// UpdateSource tags audit rows written by enrichment runs.
const UpdateSource = "enrich"

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// DefaultBatchSize is how many items go into one prompt.
const DefaultBatchSize = 25

// DefaultMinConfidence is the threshold below which suggestions are
// skipped rather than applied.
const DefaultMinConfidence = 0.6

// Source is the store surface the enricher needs.
type Source interface {
	EnrichmentCandidates(ctx context.Context, limit int) ([]inventory.Item, error)
	UpdateItemFields(ctx context.Context, partNumber string, fields map[string]string, source string) error
}

// Generator produces model output for a prompt. The production
// implementation calls Gemini; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds enricher settings.
type Config struct {
	// APIKey is the Gemini API key. Required unless a custom Generator is
	// supplied.
	APIKey string
	// Model overrides DefaultModel.
	Model string
	// BatchSize overrides DefaultBatchSize.
	BatchSize int
	// MaxItems caps how many items one run examines. Zero means one batch.
	MaxItems int
	// MinConfidence overrides DefaultMinConfidence.
	MinConfidence float64
	// DryRun collects the changes without writing them.
	DryRun bool
}

// Report summarizes an enrichment run.
type Report struct {
	Examined  int      `json:"examined"`
	Suggested int      `json:"suggested"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Rejected  int      `json:"rejected"`
	Changes   []Change `json:"changes,omitempty"`
}

// Change is one accepted suggestion, applied unless the run was a dry run.
type Change struct {
	PartNumber string            `json:"part_number"`
	Fields     map[string]string `json:"fields"`
	Confidence float64           `json:"confidence"`
	Notes      string            `json:"notes,omitempty"`
}

// Enricher drives the cleanup flow.
type Enricher struct {
	source        Source
	generator     Generator
	logger        *zerolog.Logger
	batchSize     int
	maxItems      int
	minConfidence float64
	dryRun        bool
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithGenerator substitutes the model client. Used by tests.
func WithGenerator(g Generator) Option {
	return func(e *Enricher) { e.generator = g }
}

// New creates an Enricher. Without WithGenerator an API key is required.
func New(src Source, cfg Config, logger *zerolog.Logger, opts ...Option) (*Enricher, error) {
	e := &Enricher{
		source:        src,
		logger:        logger,
		batchSize:     cfg.BatchSize,
		maxItems:      cfg.MaxItems,
		minConfidence: cfg.MinConfidence,
		dryRun:        cfg.DryRun,
	}
	if e.batchSize <= 0 {
		e.batchSize = DefaultBatchSize
	}
	if e.maxItems <= 0 {
		e.maxItems = e.batchSize
	}
	if e.minConfidence <= 0 {
		e.minConfidence = DefaultMinConfidence
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.generator == nil {
		if cfg.APIKey == "" {
			return nil, errors.ErrAPIKeyRequired
		}
		model := cfg.Model
		if model == "" {
			model = DefaultModel
		}
		e.generator = &gemini{apiKey: cfg.APIKey, model: model}
	}
	return e, nil
}

// Run examines candidate items batch by batch and applies validated
// suggestions above the confidence threshold. Suggestions for fields that
// already have data are dropped; in a dry run the changes are collected
// in the report instead of written.
func (e *Enricher) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	candidates, err := e.source.EnrichmentCandidates(ctx, e.maxItems)
	if err != nil {
		return nil, err
	}
	report.Examined = len(candidates)
	if len(candidates) == 0 {
		return report, nil
	}

	for start := 0; start < len(candidates); start += e.batchSize {
		end := start + e.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		if err := e.runBatch(ctx, candidates[start:end], report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (e *Enricher) runBatch(ctx context.Context, batch []inventory.Item, report *Report) error {
	raw, err := e.generator.Generate(ctx, buildPrompt(batch))
	if err != nil {
		return &errors.APIError{Service: "gemini", Message: "generation failed", Err: err}
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Discarding unparseable model output")
		report.Rejected += len(batch)
		return nil
	}
	report.Suggested += len(suggestions)

	byPart := make(map[string]inventory.Item, len(batch))
	for _, item := range batch {
		byPart[item.PartNumber] = item
	}

	for _, sug := range suggestions {
		item, ok := byPart[sug.PartNumber]
		if !ok {
			// Hallucinated part number.
			report.Rejected++
			continue
		}
		if sug.Confidence < e.minConfidence {
			report.Skipped++
			continue
		}

		fields := sug.applicableFields(item)
		if len(fields) == 0 {
			report.Rejected++
			continue
		}

		change := Change{
			PartNumber: item.PartNumber,
			Fields:     fields,
			Confidence: sug.Confidence,
			Notes:      sug.Notes,
		}
		if e.dryRun {
			report.Changes = append(report.Changes, change)
			continue
		}

		if err := e.source.UpdateItemFields(ctx, item.PartNumber, fields, UpdateSource); err != nil {
			e.logger.Error().Err(err).Str("part_number", item.PartNumber).Msg("Field update failed")
			report.Rejected++
			continue
		}
		report.Updated++
		report.Changes = append(report.Changes, change)
		e.logger.Debug().
			Str("part_number", item.PartNumber).
			Int("fields", len(fields)).
			Msg("Applied enrichment")
	}
	return nil
}
