package store

import (
	"context"
	"time"

	"github.com/stockyardhq/stockyard/pkg/errors"
	"github.com/stockyardhq/stockyard/pkg/ingest"
)

// SourceFileRow is one row of the source-file ledger.
type SourceFileRow struct {
	ID          int64      `db:"id" json:"id"`
	Path        string     `db:"path" json:"path"`
	Name        string     `db:"name" json:"name"`
	ContentHash string     `db:"content_hash" json:"content_hash"`
	Size        int64      `db:"size" json:"size"`
	ModifiedAt  *time.Time `db:"modified_at" json:"modified_at,omitempty"`
	SheetCount  int        `db:"sheet_count" json:"sheet_count"`
	ItemCount   int        `db:"item_count" json:"item_count"`
	Status      string     `db:"status" json:"status"`
	Error       string     `db:"error" json:"error,omitempty"`
	IngestedAt  time.Time  `db:"ingested_at" json:"ingested_at"`
}

// SeenFile reports whether a workbook with this content hash was already
// ingested successfully. Part of the ingest.Sink interface.
func (s *Store) SeenFile(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM source_files WHERE content_hash = ? AND status = ?`,
		hash, ingest.FileStatusIngested)
	if err != nil {
		return false, errors.WrapStore("query", "source_files", err)
	}
	return n > 0, nil
}

// RecordFile appends to the source-file ledger. Part of the ingest.Sink
// interface.
func (s *Store) RecordFile(ctx context.Context, rec ingest.FileRecord) error {
	var modified *time.Time
	if !rec.ModTime.IsZero() {
		t := rec.ModTime.UTC()
		modified = &t
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO source_files (path, name, content_hash, size, modified_at,
			sheet_count, item_count, status, error, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Path, rec.Name, rec.Hash, rec.Size, modified,
		rec.SheetCount, rec.ItemCount, rec.Status, rec.Error, s.now())
	if err != nil {
		return errors.WrapStore("insert", "source_files", err)
	}
	return nil
}

// SourceFiles returns the ledger, newest first.
func (s *Store) SourceFiles(ctx context.Context, limit int) ([]SourceFileRow, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []SourceFileRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, path, name, content_hash, size, modified_at, sheet_count,
			item_count, status, error, ingested_at
		FROM source_files
		ORDER BY ingested_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.WrapStore("query", "source_files", err)
	}
	return rows, nil
}
