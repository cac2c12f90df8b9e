package store

import (
	"context"
	"time"

	"github.com/stockyardhq/stockyard/pkg/errors"
)

// AuditEntry records one field change applied to an item.
type AuditEntry struct {
	ID         int64     `db:"id" json:"id"`
	PartNumber string    `db:"part_number" json:"part_number"`
	Field      string    `db:"field" json:"field"`
	OldValue   string    `db:"old_value" json:"old_value"`
	NewValue   string    `db:"new_value" json:"new_value"`
	Source     string    `db:"source" json:"source"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditLog returns change history, newest first. An empty partNumber
// returns history across all items.
func (s *Store) AuditLog(ctx context.Context, partNumber string, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		entries []AuditEntry
		err     error
	)
	if partNumber == "" {
		err = s.db.SelectContext(ctx, &entries, `
			SELECT id, part_number, field, old_value, new_value, source, created_at
			FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	} else {
		err = s.db.SelectContext(ctx, &entries, `
			SELECT id, part_number, field, old_value, new_value, source, created_at
			FROM audit_log WHERE part_number = ? COLLATE NOCASE
			ORDER BY created_at DESC, id DESC LIMIT ?`, partNumber, limit)
	}
	if err != nil {
		return nil, errors.WrapStore("query", "audit_log", err)
	}
	return entries, nil
}
