package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createCorporaSQL = `
CREATE TABLE IF NOT EXISTS corpora (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL
)`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createCorporaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS corpora`)
			return err
		},
	)
}
