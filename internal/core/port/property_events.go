package port

import (
	"context"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// PropertyEventsPort announces newly cataloged properties to downstream
// consumers (the investment-score recalculation worker listens on this).
type PropertyEventsPort interface {
	PublishCreated(ctx context.Context, p domain.Property) error
}
