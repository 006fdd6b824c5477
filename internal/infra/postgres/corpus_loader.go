package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CorpusLoader reads raw corpus text from Postgres. It satisfies
// corpus.Loader so a database-backed deployment needs no corpus file.
type CorpusLoader struct {
	pool *pgxpool.Pool
	name string
}

func NewCorpusLoader(pool *pgxpool.Pool, name string) *CorpusLoader {
	return &CorpusLoader{pool: pool, name: name}
}

func (l *CorpusLoader) Load(ctx context.Context) (string, error) {
	var body string
	err := l.pool.QueryRow(ctx, `SELECT body FROM corpora WHERE name=$1`, l.name).Scan(&body)
	if err != nil {
		return "", fmt.Errorf("load corpus %q: %w", l.name, err)
	}
	return body, nil
}
