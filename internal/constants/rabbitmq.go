package constants

// Exchange shared by all pipeline messaging.
const ExchangeName = "tracker_exchange"

// Queue names.
const (
	QueueRunTriggers = "ingestion_run_triggers"
)

// Routing keys.
const (
	RoutingKeyRunTriggers     = "tracker.runs.trigger"
	RoutingKeyPropertyCreated = "catalog.properties.created"
)
