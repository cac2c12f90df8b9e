package store

import (
	"context"

	"github.com/stockyardhq/stockyard/pkg/errors"
)

// migrations run in order inside one transaction each. Never edit an entry
// after it has shipped; append a new one.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		part_number  TEXT NOT NULL COLLATE NOCASE,
		description  TEXT NOT NULL DEFAULT '',
		brand        TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		list_price   REAL NOT NULL DEFAULT 0,
		net_price    REAL NOT NULL DEFAULT 0,
		quantity     INTEGER NOT NULL DEFAULT 0,
		min_stock    INTEGER NOT NULL DEFAULT 0,
		location     TEXT NOT NULL DEFAULT '',
		rack         TEXT NOT NULL DEFAULT '',
		uom          TEXT NOT NULL DEFAULT '',
		source_file  TEXT NOT NULL DEFAULT '',
		source_sheet TEXT NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL,
		updated_at   DATETIME NOT NULL,
		UNIQUE (part_number)
	);
	CREATE INDEX IF NOT EXISTS idx_items_brand ON items(brand);
	CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
	CREATE INDEX IF NOT EXISTS idx_items_list_price ON items(list_price);`,

	`CREATE TABLE IF NOT EXISTS source_files (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		path         TEXT NOT NULL,
		name         TEXT NOT NULL,
		content_hash TEXT NOT NULL DEFAULT '',
		size         INTEGER NOT NULL DEFAULT 0,
		modified_at  DATETIME,
		sheet_count  INTEGER NOT NULL DEFAULT 0,
		item_count   INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL,
		error        TEXT NOT NULL DEFAULT '',
		ingested_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_source_files_hash ON source_files(content_hash);`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		part_number TEXT NOT NULL,
		field       TEXT NOT NULL,
		old_value   TEXT NOT NULL DEFAULT '',
		new_value   TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_part ON audit_log(part_number);`,
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL
	)`)
	if err != nil {
		return errors.WrapStore("migrate", "schema_migrations", err)
	}

	var current int
	if err := s.db.GetContext(ctx, &current,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return errors.WrapStore("migrate", "schema_migrations", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return errors.WrapStore("migrate", "", err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return errors.WrapStore("migrate", "", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			version, s.now()); err != nil {
			tx.Rollback()
			return errors.WrapStore("migrate", "schema_migrations", err)
		}
		if err := tx.Commit(); err != nil {
			return errors.WrapStore("migrate", "", err)
		}
	}
	return nil
}
