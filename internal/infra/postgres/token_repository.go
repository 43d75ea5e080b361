package postgres

import (
	"context"
	"database/sql"
	"time"
)

const (
	createTokensTable = `CREATE TABLE IF NOT EXISTS tokens (
		token TEXT PRIMARY KEY,
		rate_limit INTEGER NOT NULL DEFAULT 60,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		comment TEXT
	);`
	createTokensIndex = `CREATE INDEX IF NOT EXISTS idx_tokens_created_at ON tokens (created_at);`
	selectTokens      = `SELECT token, rate_limit FROM tokens;`
)

// TokenRepository reads API tokens and their per-token rate limits.
type TokenRepository struct {
	DB  *DB
	DSN string
}

func NewTokenRepository(db *DB, dsn string) *TokenRepository {
	return &TokenRepository{DB: db, DSN: dsn}
}

func (r *TokenRepository) conn(ctx context.Context) (*sql.DB, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, createTokensTable); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, createTokensIndex)
	return err
}

// LoadTokens creates the tokens table when missing and returns every token
// with its rate limit.
func (r *TokenRepository) LoadTokens(ctx context.Context) (map[string]int, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, selectTokens)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var token string
		var limit int
		if err := rows.Scan(&token, &limit); err != nil {
			return nil, err
		}
		out[token] = limit
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
