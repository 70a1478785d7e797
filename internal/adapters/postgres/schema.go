package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the catalog tables when they are missing so a fresh
// database is usable without a separate migration step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS developers (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name           TEXT NOT NULL,
			rating         NUMERIC(3,1) NOT NULL DEFAULT 0,
			total_projects INT NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS properties (
			id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title               TEXT NOT NULL,
			developer_id        UUID REFERENCES developers(id),
			district            TEXT,
			city                TEXT NOT NULL,
			latitude            DOUBLE PRECISION NOT NULL,
			longitude           DOUBLE PRECISION NOT NULL,
			price_min           NUMERIC(14,2) NOT NULL DEFAULT 0,
			price_max           NUMERIC(14,2) NOT NULL DEFAULT 0,
			property_type       VARCHAR(20) NOT NULL,
			bedrooms_min        INT NOT NULL DEFAULT 0,
			bedrooms_max        INT NOT NULL DEFAULT 0,
			area_min            INT NOT NULL DEFAULT 0,
			area_max            INT NOT NULL DEFAULT 0,
			construction_status VARCHAR(20) NOT NULL,
			expected_completion TEXT,
			source_url          TEXT,
			source_name         TEXT NOT NULL,
			raw_snippet         TEXT,
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			investment_score    INT NOT NULL DEFAULT 0,
			first_seen_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_checked_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_properties_source_url ON properties(source_url);
		CREATE INDEX IF NOT EXISTS idx_properties_title_district ON properties(title, district);

		CREATE TABLE IF NOT EXISTS search_logs (
			id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			search_query         TEXT NOT NULL,
			results_found        INT NOT NULL DEFAULT 0,
			new_properties_added INT NOT NULL DEFAULT 0,
			execution_time_ms    BIGINT NOT NULL DEFAULT 0,
			status               VARCHAR(20) NOT NULL,
			error_message        TEXT,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
