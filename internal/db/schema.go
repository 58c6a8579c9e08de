package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is small enough that in-process bootstrap beats a migration tool.
// Statements must stay idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
		category TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('income','expense')),
		description TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_date
		ON transactions (user_id, date DESC)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
