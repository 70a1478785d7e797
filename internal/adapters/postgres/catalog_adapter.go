package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// CatalogAdapter implements CatalogPort over PostgreSQL.
type CatalogAdapter struct {
	pool *pgxpool.Pool
}

// NewCatalogAdapter creates the catalog adapter.
func NewCatalogAdapter(pool *pgxpool.Pool) (*CatalogAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres catalog: pool cannot be nil")
	}
	return &CatalogAdapter{pool: pool}, nil
}

// PropertyExists checks the catalog for the candidate's natural key: the
// source URL when the candidate carries one, otherwise title (scoped by
// district when known, since distinct projects can share a marketing name).
func (a *CatalogAdapter) PropertyExists(ctx context.Context, c domain.Candidate) (bool, error) {
	var (
		query string
		args  []interface{}
	)
	switch {
	case c.SourceURL != "":
		query = `SELECT EXISTS(SELECT 1 FROM properties WHERE source_url = $1)`
		args = []interface{}{c.SourceURL}
	case c.District != "":
		query = `SELECT EXISTS(SELECT 1 FROM properties WHERE title = $1 AND district = $2)`
		args = []interface{}{c.Title, c.District}
	default:
		query = `SELECT EXISTS(SELECT 1 FROM properties WHERE title = $1)`
		args = []interface{}{c.Title}
	}

	var exists bool
	if err := a.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres catalog: existence check for '%s': %w", c.Title, err)
	}
	return exists, nil
}

// InsertProperty writes one property row and returns its generated id.
func (a *CatalogAdapter) InsertProperty(ctx context.Context, p domain.Property) (string, error) {
	columns := []string{
		"title", "developer_id", "district", "city", "latitude", "longitude",
		"price_min", "price_max", "property_type", "bedrooms_min", "bedrooms_max",
		"area_min", "area_max", "construction_status", "expected_completion",
		"source_url", "source_name", "raw_snippet", "is_active", "investment_score",
		"first_seen_at", "last_checked_at",
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	values := []interface{}{
		p.Title, p.DeveloperID, nullable(p.District), p.City, p.Latitude, p.Longitude,
		p.PriceMin, p.PriceMax, string(p.PropertyType), p.BedroomsMin, p.BedroomsMax,
		p.AreaMin, p.AreaMax, string(p.ConstructionStatus), nullable(p.ExpectedCompletion),
		nullable(p.SourceURL), p.SourceName, nullable(p.RawSnippet), p.IsActive, p.InvestmentScore,
		p.FirstSeenAt, p.LastCheckedAt,
	}

	query := fmt.Sprintf(
		`INSERT INTO properties (%s) VALUES (%s) RETURNING id`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id string
	if err := a.pool.QueryRow(ctx, query, values...).Scan(&id); err != nil {
		return "", fmt.Errorf("postgres catalog: insert property '%s': %w", p.Title, err)
	}
	return id, nil
}

// FindDeveloperByName looks a developer up by case-insensitive exact name.
// Not ILIKE: a '%' or '_' in a developer name must match literally. A miss
// is reported as an empty id, not an error.
func (a *CatalogAdapter) FindDeveloperByName(ctx context.Context, name string) (string, error) {
	query := `SELECT id FROM developers WHERE lower(name) = lower($1) LIMIT 1`

	var id string
	err := a.pool.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("postgres catalog: developer lookup '%s': %w", name, err)
	}
	return id, nil
}

// InsertDeveloper writes one developer row and returns its generated id.
func (a *CatalogAdapter) InsertDeveloper(ctx context.Context, d domain.Developer) (string, error) {
	query := `
        INSERT INTO developers (name, rating, total_projects, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id string
	if err := a.pool.QueryRow(ctx, query, d.Name, d.Rating, d.TotalProjects, d.CreatedAt).Scan(&id); err != nil {
		return "", fmt.Errorf("postgres catalog: insert developer '%s': %w", d.Name, err)
	}
	log.Printf("PostgresCatalog: Inserted developer '%s' (id: %s)\n", d.Name, id)
	return id, nil
}

// nullable maps an empty string to NULL so optional text columns stay NULL
// instead of collecting empty strings.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
