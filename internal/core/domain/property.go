package domain

import "time"

// Developer is a real-estate developer identity in the catalog. Identity is
// the case-insensitive exact name; rows are created lazily by ingestion and
// never deleted by it.
type Developer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Rating        float64   `json:"rating"`
	TotalProjects int       `json:"total_projects"`
	CreatedAt     time.Time `json:"created_at"`
}

// Property is the persisted catalog record: the candidate field set plus a
// stable identifier, derived coordinates and catalog bookkeeping. Dedup
// identity is not the ID but the source-dependent natural key (source_url
// when present, otherwise title scoped by district).
type Property struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	DeveloperID        *string            `json:"developer_id,omitempty"`
	District           string             `json:"district,omitempty"`
	City               string             `json:"city"`
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	PriceMin           float64            `json:"price_min,omitempty"`
	PriceMax           float64            `json:"price_max,omitempty"`
	PropertyType       PropertyType       `json:"property_type,omitempty"`
	BedroomsMin        int                `json:"bedrooms_min,omitempty"`
	BedroomsMax        int                `json:"bedrooms_max,omitempty"`
	AreaMin            int                `json:"area_min,omitempty"`
	AreaMax            int                `json:"area_max,omitempty"`
	ConstructionStatus ConstructionStatus `json:"construction_status"`
	ExpectedCompletion string             `json:"expected_completion,omitempty"`
	SourceURL          string             `json:"source_url,omitempty"`
	SourceName         string             `json:"source_name"`
	RawSnippet         string             `json:"raw_snippet,omitempty"`
	IsActive           bool               `json:"is_active"`
	InvestmentScore    int                `json:"investment_score"`
	FirstSeenAt        time.Time          `json:"first_seen_at"`
	LastCheckedAt      time.Time          `json:"last_checked_at"`
}

// RunLog is the append-only record of one orchestrator invocation. Exactly
// one row is written per run, whether it completed or failed.
type RunLog struct {
	SearchQuery        string    `json:"search_query"` // joined descriptor labels
	ResultsFound       int       `json:"results_found"`
	NewPropertiesAdded int       `json:"new_properties_added"`
	ExecutionTimeMs    int64     `json:"execution_time_ms"`
	Status             string    `json:"status"` // "success" or "error"
	ErrorMessage       string    `json:"error_message,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// RunSummary is what a run reports back to whoever triggered it.
type RunSummary struct {
	Success            bool   `json:"success"`
	TotalFound         int    `json:"totalFound"`
	NewPropertiesAdded int    `json:"newPropertiesAdded"`
	ExecutionTimeMs    int64  `json:"executionTimeMs"`
	Message            string `json:"message"`
	Error              string `json:"error,omitempty"`
}
