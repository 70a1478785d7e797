package domain

// PropertyType classifies what kind of development a listing describes.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeMixed      PropertyType = "mixed"
)

// ConstructionStatus is the lifecycle stage of a development project.
type ConstructionStatus string

const (
	StatusPlanning     ConstructionStatus = "planning"
	StatusApproved     ConstructionStatus = "approved"
	StatusConstruction ConstructionStatus = "construction"
	StatusCompleted    ConstructionStatus = "completed"
)

// MaxSnippetRunes bounds the raw text kept on a candidate for audit purposes.
const MaxSnippetRunes = 500

// Candidate is an extracted-but-unvalidated property sighting produced by a
// source adapter. It is transient: never persisted as-is, only after
// deduplication and enrichment into a Property.
type Candidate struct {
	Title              string             `json:"title"`
	Developer          string             `json:"developer,omitempty"`
	District           string             `json:"district,omitempty"`
	PriceMin           float64            `json:"price_min,omitempty"`
	PriceMax           float64            `json:"price_max,omitempty"`
	PropertyType       PropertyType       `json:"property_type,omitempty"`
	BedroomsMin        int                `json:"bedrooms_min,omitempty"`
	BedroomsMax        int                `json:"bedrooms_max,omitempty"`
	AreaMin            int                `json:"area_min,omitempty"`
	AreaMax            int                `json:"area_max,omitempty"`
	ConstructionStatus ConstructionStatus `json:"construction_status,omitempty"`
	ExpectedCompletion string             `json:"expected_completion,omitempty"` // month granularity, e.g. "2026-12"
	SourceURL          string             `json:"source_url,omitempty"`
	SourceName         string             `json:"source_name"`
	RawSnippet         string             `json:"raw_snippet,omitempty"`
}

// Normalize repairs range invariants and bounds the audit snippet.
// Inverted min/max pairs are swapped, never rejected: extraction order from
// free text is unreliable, so a reversed range is assumed to be ours to fix.
func (c *Candidate) Normalize() {
	if c.PriceMin > 0 && c.PriceMax > 0 && c.PriceMin > c.PriceMax {
		c.PriceMin, c.PriceMax = c.PriceMax, c.PriceMin
	}
	if c.BedroomsMin > 0 && c.BedroomsMax > 0 && c.BedroomsMin > c.BedroomsMax {
		c.BedroomsMin, c.BedroomsMax = c.BedroomsMax, c.BedroomsMin
	}
	if c.AreaMin > 0 && c.AreaMax > 0 && c.AreaMin > c.AreaMax {
		c.AreaMin, c.AreaMax = c.AreaMax, c.AreaMin
	}
	if c.ConstructionStatus == "" {
		c.ConstructionStatus = StatusPlanning
	}
	c.RawSnippet = ClipSnippet(c.RawSnippet)
}

// ClipSnippet truncates s to MaxSnippetRunes runes.
func ClipSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxSnippetRunes {
		return s
	}
	return string(runes[:MaxSnippetRunes])
}

// SourceDescriptor is one configured entry of the ingestion run: which adapter
// to drive and what query or feed URL to hand it.
type SourceDescriptor struct {
	Adapter string `json:"adapter"` // adapter key, e.g. "aisearch", "rss", "searchapi"
	Query   string `json:"query"`   // natural-language query or feed URL
	Label   string `json:"label"`   // human-readable name for the run log
}
