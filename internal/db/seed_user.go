package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/user"
	"github.com/geocoder89/fintrack/internal/security"
)

// EnsureSeedUser creates the demo account named in the config, if any.
// Idempotent: an existing row is left exactly as it is.
func EnsureSeedUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedUsername == "" || cfg.SeedPassword == "" {
		return nil
	}

	if reason := user.CredentialsProblem(cfg.SeedUsername, cfg.SeedPassword); reason != "" {
		return errors.New("seed user rejected: " + reason)
	}

	var existingID int64

	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1`,
		cfg.SeedUsername,
	).Scan(&existingID)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (username) DO NOTHING`,
		cfg.SeedUsername, hash,
	)

	return err
}
