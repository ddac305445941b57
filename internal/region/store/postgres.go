package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eramap/pkg/platform/sentinel"
)

// PostgresCustomStore persists custom mappings durably. Countries are stored
// as a text array; the period key is folded to lowercase with the original
// casing kept for display.
type PostgresCustomStore struct {
	pool *pgxpool.Pool
}

const customSchema = `
CREATE TABLE IF NOT EXISTS custom_mappings (
    period_key  TEXT PRIMARY KEY,
    period      TEXT NOT NULL,
    countries   TEXT[] NOT NULL,
    timeframe   TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgresCustomStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresCustomStore, error) {
	if _, err := pool.Exec(ctx, customSchema); err != nil {
		return nil, fmt.Errorf("ensure custom_mappings table: %w", err)
	}
	return &PostgresCustomStore{pool: pool}, nil
}

func (s *PostgresCustomStore) Set(ctx context.Context, period string, mapping CustomMapping) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO custom_mappings (period_key, period, countries, timeframe, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (period_key) DO UPDATE
		SET period = EXCLUDED.period,
		    countries = EXCLUDED.countries,
		    timeframe = EXCLUDED.timeframe,
		    description = EXCLUDED.description,
		    updated_at = now()`,
		NormalizePeriod(period), period, mapping.Countries, mapping.Timeframe, mapping.Description)
	if err != nil {
		return fmt.Errorf("custom set: %w", err)
	}
	return nil
}

func (s *PostgresCustomStore) Get(ctx context.Context, period string) (CustomMapping, error) {
	var mapping CustomMapping
	err := s.pool.QueryRow(ctx, `
		SELECT countries, timeframe, description
		FROM custom_mappings WHERE period_key = $1`,
		NormalizePeriod(period)).Scan(&mapping.Countries, &mapping.Timeframe, &mapping.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return CustomMapping{}, sentinel.ErrNotFound
	}
	if err != nil {
		return CustomMapping{}, fmt.Errorf("custom get: %w", err)
	}
	return mapping, nil
}

func (s *PostgresCustomStore) Delete(ctx context.Context, period string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM custom_mappings WHERE period_key = $1`, NormalizePeriod(period)); err != nil {
		return fmt.Errorf("custom delete: %w", err)
	}
	return nil
}

func (s *PostgresCustomStore) List(ctx context.Context) (map[string]CustomMapping, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT period, countries, timeframe, description FROM custom_mappings`)
	if err != nil {
		return nil, fmt.Errorf("custom list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]CustomMapping)
	for rows.Next() {
		var period string
		var mapping CustomMapping
		if err := rows.Scan(&period, &mapping.Countries, &mapping.Timeframe, &mapping.Description); err != nil {
			return nil, fmt.Errorf("custom scan: %w", err)
		}
		out[period] = mapping
	}
	return out, rows.Err()
}

func (s *PostgresCustomStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM custom_mappings`); err != nil {
		return fmt.Errorf("custom clear: %w", err)
	}
	return nil
}
