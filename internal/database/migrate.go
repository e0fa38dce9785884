package database

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/stwalsh4118/landbook/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLockKey serializes concurrent migration runs across processes.
const migrationLockKey int64 = 5_318_008

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in filename order. The whole run is one transaction
// holding a transaction-scoped advisory lock, so overlapping deploys apply
// each file once and a failing file leaves nothing behind.
func Migrate(ctx context.Context, db TxBeginner, log *logger.Logger) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "database: read migration dir")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var appliedNow []string
	err = WithTx(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockKey); err != nil {
			return eris.Wrap(err, "database: acquire migration lock")
		}

		if err := ensureMigrationTable(ctx, tx); err != nil {
			return err
		}

		applied, err := appliedMigrations(ctx, tx)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			name := entry.Name()
			if applied[name] {
				continue
			}

			data, err := migrationFS.ReadFile("migrations/" + name)
			if err != nil {
				return eris.Wrapf(err, "database: read migration %s", name)
			}

			log.Info("Applying migration", map[string]interface{}{"file": name})

			if _, err := tx.Exec(ctx, string(data)); err != nil {
				return eris.Wrapf(err, "database: apply migration %s", name)
			}
			if _, err := tx.Exec(ctx,
				"INSERT INTO schema_migrations (filename, applied_at) VALUES ($1, now())",
				name,
			); err != nil {
				return eris.Wrapf(err, "database: record migration %s", name)
			}
			appliedNow = append(appliedNow, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return appliedNow, nil
}

func ensureMigrationTable(ctx context.Context, db DB) error {
	sql := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.Exec(ctx, sql); err != nil {
		return eris.Wrap(err, "database: ensure migration table")
	}
	return nil
}

func appliedMigrations(ctx context.Context, db DB) (map[string]bool, error) {
	rows, err := db.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "database: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "database: scan migration row")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
