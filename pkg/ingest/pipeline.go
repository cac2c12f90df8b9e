package ingest

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/stockyardhq/stockyard/pkg/inventory"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

// File ledger statuses recorded by the pipeline.
const (
	FileStatusIngested  = "ingested"
	FileStatusUnchanged = "unchanged"
	FileStatusSkipped   = "skipped"
	FileStatusError     = "error"
)

// Sink receives pipeline output. The store implements it; tests use an
// in-memory fake.
type Sink interface {
	// SeenFile reports whether a workbook with this content hash was already
	// ingested.
	SeenFile(ctx context.Context, hash string) (bool, error)
	// RecordFile appends to the source-file ledger.
	RecordFile(ctx context.Context, rec FileRecord) error
	// UpsertItems writes deduplicated items, returning how many rows were
	// inserted or updated.
	UpsertItems(ctx context.Context, items []inventory.Item) (int, error)
}

// FileRecord is one row of the source-file ledger.
type FileRecord struct {
	Path       string
	Name       string
	Hash       string
	Size       int64
	ModTime    time.Time
	SheetCount int
	ItemCount  int
	Status     string
	Error      string
}

// Report summarizes one pipeline run.
type Report struct {
	RunID          string        `json:"run_id"`
	FilesFound     int           `json:"files_found"`
	FilesProcessed int           `json:"files_processed"`
	FilesUnchanged int           `json:"files_unchanged"`
	FilesFailed    int           `json:"files_failed"`
	Skipped        []SkippedFile `json:"skipped,omitempty"`
	ItemsExtracted int           `json:"items_extracted"`
	ItemsUpserted  int           `json:"items_upserted"`
	Errors         []string      `json:"errors,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Pipeline scans a directory tree, extracts items from each new workbook,
// deduplicates across the whole run, and hands the result to the sink.
type Pipeline struct {
	sink       Sink
	classifier *Classifier
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClassifier replaces the embedded default category rules.
func WithClassifier(c *Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// New returns a pipeline writing to sink.
func New(sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{sink: sink, classifier: NewClassifier()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes a full ingest over root. Workbooks whose content hash is
// already in the ledger are counted as unchanged and not re-read. Per-file
// failures are recorded and do not stop the run.
func (p *Pipeline) Run(ctx context.Context, root string) (*Report, error) {
	started := time.Now()
	report := &Report{RunID: uuid.NewString()}
	ctx = logging.WithRun(ctx, report.RunID)
	log := logging.Ctx(ctx)

	log.Info().Str("root", root).Msg("starting ingest run")

	files, skipped, err := Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	report.FilesFound = len(files)
	report.Skipped = skipped
	for _, sf := range skipped {
		p.recordSkip(ctx, sf)
	}

	var all []inventory.Item
	for _, sf := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seen, err := p.sink.SeenFile(ctx, sf.Hash)
		if err != nil {
			return nil, err
		}
		if seen {
			report.FilesUnchanged++
			log.Debug().Str("file", sf.Name).Msg("unchanged, skipping")
			continue
		}

		items, sheetCount, err := p.processFile(ctx, sf)
		rec := FileRecord{
			Path:       sf.Path,
			Name:       sf.Name,
			Hash:       sf.Hash,
			Size:       sf.Size,
			ModTime:    sf.ModTime,
			SheetCount: sheetCount,
			ItemCount:  len(items),
		}
		if err != nil {
			report.FilesFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", sf.Name, err))
			rec.Status = FileStatusError
			rec.Error = err.Error()
			log.Warn().Err(err).Str("file", sf.Name).Msg("workbook failed")
		} else {
			report.FilesProcessed++
			rec.Status = FileStatusIngested
			log.Info().Str("file", sf.Name).Int("items", len(items)).Int("sheets", sheetCount).Msg("workbook ingested")
		}
		if err := p.sink.RecordFile(ctx, rec); err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	report.ItemsExtracted = len(all)

	deduped := Deduplicate(all)
	if len(deduped) > 0 {
		upserted, err := p.sink.UpsertItems(ctx, deduped)
		if err != nil {
			return nil, err
		}
		report.ItemsUpserted = upserted
	}

	report.Elapsed = time.Since(started)
	log.Info().
		Int("files", report.FilesProcessed).
		Int("unchanged", report.FilesUnchanged).
		Int("extracted", report.ItemsExtracted).
		Int("upserted", report.ItemsUpserted).
		Dur("elapsed", report.Elapsed).
		Msg("ingest run complete")
	return report, nil
}

func (p *Pipeline) recordSkip(ctx context.Context, sf SkippedFile) {
	rec := FileRecord{
		Path:   sf.Path,
		Name:   sf.Path,
		Status: FileStatusSkipped,
		Error:  sf.Reason,
	}
	if err := p.sink.RecordFile(ctx, rec); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("file", sf.Path).Msg("failed to record skipped file")
	}
}

func (p *Pipeline) processFile(ctx context.Context, sf SourceFile) ([]inventory.Item, int, error) {
	ctx = logging.WithFile(ctx, sf.Name)
	sheets, err := ReadWorkbook(sf.Path)
	if err != nil {
		return nil, 0, err
	}

	fileBrand := BrandFromFilename(sf.Path)
	var items []inventory.Item
	for _, sheet := range sheets {
		items = append(items, p.itemsFromSheet(sf, sheet, fileBrand)...)
	}
	return items, len(sheets), nil
}

func (p *Pipeline) itemsFromSheet(sf SourceFile, sheet Sheet, fileBrand string) []inventory.Item {
	cm := mapColumns(sheet.Columns)
	var items []inventory.Item

	for _, row := range sheet.Rows {
		part := CleanText(cm.cell(row, fieldPartNumber))
		desc := CleanText(cm.cell(row, fieldDescription))
		if part == "" && desc == "" {
			part, desc = scavengeRow(row)
			if part == "" && desc == "" {
				continue
			}
		}

		brand := fileBrand
		if cm.has(fieldBrand) {
			if b := CanonicalBrand(cm.cell(row, fieldBrand)); b != "" {
				brand = b
			}
		}

		item := inventory.Item{
			PartNumber:  part,
			Description: desc,
			Brand:       brand,
			ListPrice:   CleanPrice(cm.cell(row, fieldListPrice)),
			NetPrice:    CleanPrice(cm.cell(row, fieldNetPrice)),
			Quantity:    CleanQuantity(cm.cell(row, fieldQuantity)),
			MinStock:    CleanQuantity(cm.cell(row, fieldMinStock)),
			Location:    CleanText(cm.cell(row, fieldLocation)),
			Rack:        CleanText(cm.cell(row, fieldRack)),
			UOM:         CleanText(cm.cell(row, fieldUOM)),
			SourceFile:  sf.Name,
			SourceSheet: sheet.Name,
		}
		item.Category = p.classifier.Categorize(item.PartNumber, item.Description, item.Brand)
		items = append(items, item)
	}
	return items
}

var partLikePattern = regexp.MustCompile(`^[A-Z0-9\-_.]+$`)

// scavengeRow hunts a headerless row for a cell that looks like a part
// number or a description, in column order.
func scavengeRow(row []string) (part, desc string) {
	for _, cell := range row {
		val := CleanText(cell)
		if len(val) <= 2 {
			continue
		}
		if len(val) > 3 && partLikePattern.MatchString(val) {
			return val, ""
		}
		if len(val) > 10 && containsLetter(val) {
			return "", val
		}
	}
	return "", ""
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
