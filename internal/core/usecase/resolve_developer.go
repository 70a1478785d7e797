package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/port"
)

// DeveloperResolver maps a free-text developer name to a stable developer
// identity, creating one lazily on first sight. Lookup is case-insensitive,
// so "Alliances" and "ALLIANCES" resolve to the same row.
type DeveloperResolver struct {
	catalog port.CatalogPort
}

// NewDeveloperResolver creates a resolver over the given catalog.
func NewDeveloperResolver(catalog port.CatalogPort) *DeveloperResolver {
	return &DeveloperResolver{catalog: catalog}
}

// Resolve returns the developer id for name, inserting a new developer with
// the default rating and a project count of 1 when none exists yet.
func (r *DeveloperResolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("developer resolver: name cannot be empty")
	}

	id, err := r.catalog.FindDeveloperByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("developer resolver: lookup for %q: %w", name, err)
	}
	if id != "" {
		return id, nil
	}

	id, err = r.catalog.InsertDeveloper(ctx, domain.Developer{
		Name:          name,
		Rating:        constants.DefaultDeveloperRating,
		TotalProjects: 1,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("developer resolver: create %q: %w", name, err)
	}

	log.Printf("DeveloperResolver: Created developer %q (id: %s)\n", name, id)
	return id, nil
}
