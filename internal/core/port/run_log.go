package port

import (
	"context"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// RunLogPort records run outcomes and serializes overlapping runs.
type RunLogPort interface {
	// Append writes one run-log row. Called exactly once per run that got
	// past the lock, whether the run completed or failed.
	Append(ctx context.Context, rl domain.RunLog) error

	// TryAcquireRunLock takes the advisory lock for the named pipeline
	// without blocking. false means another run holds it.
	TryAcquireRunLock(ctx context.Context, pipeline string) (bool, error)

	// ReleaseRunLock releases the advisory lock taken by TryAcquireRunLock.
	ReleaseRunLock(ctx context.Context, pipeline string) error
}
