package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/geo"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/port"
)

// IngestCandidateUseCase turns one candidate into a catalog property:
// dedup check, developer resolution, geocoding, insert, created-event.
// Sightings of an already-cataloged natural key are skipped outright;
// refresh semantics are deliberately not part of ingestion.
type IngestCandidateUseCase struct {
	catalog  port.CatalogPort
	resolver *DeveloperResolver
	events   port.PropertyEventsPort
}

// NewIngestCandidateUseCase wires the ingestion step.
func NewIngestCandidateUseCase(
	catalog port.CatalogPort,
	resolver *DeveloperResolver,
	events port.PropertyEventsPort,
) *IngestCandidateUseCase {
	return &IngestCandidateUseCase{
		catalog:  catalog,
		resolver: resolver,
		events:   events,
	}
}

// Execute processes one candidate. It returns true when a new property was
// inserted, false when the candidate was a duplicate or unusable.
func (uc *IngestCandidateUseCase) Execute(ctx context.Context, c domain.Candidate) (bool, error) {
	c.Normalize()

	if c.Title == "" {
		log.Printf("IngestCandidate: Skipping untitled candidate from %s\n", c.SourceName)
		return false, nil
	}

	exists, err := uc.catalog.PropertyExists(ctx, c)
	if err != nil {
		return false, fmt.Errorf("ingest: dedup check for %q: %w", c.Title, err)
	}
	if exists {
		log.Printf("IngestCandidate: Already cataloged, skipping: %s\n", c.Title)
		return false, nil
	}

	var developerID *string
	if c.Developer != "" {
		id, resolveErr := uc.resolver.Resolve(ctx, c.Developer)
		if resolveErr != nil {
			return false, fmt.Errorf("ingest: %q: %w", c.Title, resolveErr)
		}
		developerID = &id
	}

	coords := geo.LocateOrDefault(c.District)
	now := time.Now().UTC()

	prop := domain.Property{
		Title:              c.Title,
		DeveloperID:        developerID,
		District:           c.District,
		City:               constants.DefaultCity,
		Latitude:           coords.Lat,
		Longitude:          coords.Lon,
		PriceMin:           c.PriceMin,
		PriceMax:           c.PriceMax,
		PropertyType:       c.PropertyType,
		BedroomsMin:        c.BedroomsMin,
		BedroomsMax:        c.BedroomsMax,
		AreaMin:            c.AreaMin,
		AreaMax:            c.AreaMax,
		ConstructionStatus: c.ConstructionStatus,
		ExpectedCompletion: c.ExpectedCompletion,
		SourceURL:          c.SourceURL,
		SourceName:         c.SourceName,
		RawSnippet:         c.RawSnippet,
		IsActive:           true,
		InvestmentScore:    constants.DefaultInvestmentScore,
		FirstSeenAt:        now,
		LastCheckedAt:      now,
	}

	id, err := uc.catalog.InsertProperty(ctx, prop)
	if err != nil {
		return false, fmt.Errorf("ingest: insert %q: %w", c.Title, err)
	}
	prop.ID = id
	log.Printf("IngestCandidate: Added new property %q (id: %s)\n", prop.Title, id)

	if uc.events != nil {
		// The insert already happened; a lost event only delays rescoring.
		if pubErr := uc.events.PublishCreated(ctx, prop); pubErr != nil {
			log.Printf("IngestCandidate: Failed to publish created event for %s: %v\n", id, pubErr)
		}
	}

	return true, nil
}
