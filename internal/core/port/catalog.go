package port

import (
	"context"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// CatalogPort is the persistence collaborator for properties and developers.
// Ingestion only ever needs point lookups and inserts: the pipeline is
// write-once and never updates or deletes catalog rows.
type CatalogPort interface {
	// PropertyExists reports whether the candidate's natural key is already
	// in the catalog: source_url exact match when the candidate has one,
	// otherwise title exact match scoped by district when present.
	// Zero matching rows is a normal "false", not an error.
	PropertyExists(ctx context.Context, c domain.Candidate) (bool, error)

	// InsertProperty persists a new property row and returns its identifier.
	InsertProperty(ctx context.Context, p domain.Property) (string, error)

	// FindDeveloperByName looks a developer up by case-insensitive exact
	// name. Returns "" (and no error) when absent.
	FindDeveloperByName(ctx context.Context, name string) (string, error)

	// InsertDeveloper persists a new developer row and returns its identifier.
	InsertDeveloper(ctx context.Context, d domain.Developer) (string, error)
}
