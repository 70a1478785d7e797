package port

import (
	"context"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// SourceAdapterPort is the single capability all candidate sources share:
// produce candidate records for one query/feed descriptor. The orchestrator
// drives adapters through this interface only and never knows which variant
// it holds.
//
// A returned error means "this entry yielded nothing usable" (network
// failure, malformed provider response, unparsable payload). Callers log it
// and continue; it is never a reason to abort a run.
type SourceAdapterPort interface {
	// Name is the adapter key descriptors reference.
	Name() string

	// Fetch produces a finite batch of candidates for the descriptor.
	// An empty slice with a nil error is a successful zero-result fetch.
	Fetch(ctx context.Context, desc domain.SourceDescriptor) ([]domain.Candidate, error)
}
