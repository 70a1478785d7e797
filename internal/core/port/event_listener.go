package port

import "context"

// EventListenerPort is an inbound adapter that feeds external events (e.g.
// on-demand run triggers) into the core. Start blocks until the context is
// cancelled or the underlying transport fails.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
