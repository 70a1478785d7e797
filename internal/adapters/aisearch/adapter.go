package aisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// Completer is the single LLM capability this adapter needs: one prompt in,
// one text completion out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Adapter asks a web-search-capable language model for new-build listings
// matching a query and parses the structured reply into candidates. The
// model is told to answer with a bare JSON array; everything around that
// array (markdown fences, chatter) is tolerated and stripped.
type Adapter struct {
	completer Completer
}

// NewAdapter creates the AI-search source adapter.
func NewAdapter(completer Completer) *Adapter {
	return &Adapter{completer: completer}
}

// Name implements port.SourceAdapterPort.
func (a *Adapter) Name() string { return constants.AdapterAISearch }

// Fetch runs one query through the model and returns whatever candidates
// could be recovered from its reply. A reply with zero parseable listings
// is not an error.
func (a *Adapter) Fetch(ctx context.Context, desc domain.SourceDescriptor) ([]domain.Candidate, error) {
	reply, err := a.completer.Complete(ctx, buildPrompt(desc.Query))
	if err != nil {
		return nil, fmt.Errorf("aisearch: query %q: %w", desc.Query, err)
	}

	candidates, err := ParseReply(reply)
	if err != nil {
		return nil, fmt.Errorf("aisearch: query %q: %w", desc.Query, err)
	}

	log.Printf("AISearchAdapter: Query %q produced %d candidates.\n", desc.Query, len(candidates))
	return candidates, nil
}

func buildPrompt(query string) string {
	return fmt.Sprintf(`Search the web for: %s

Find real estate projects, new developments, and property listings in Rabat, Morocco.
For each project found, extract the following information and return ONLY a JSON array
(no other text) with objects in this exact format:
[
  {
    "title": "project name",
    "developer": "developer name or null",
    "district": "district in Rabat or null",
    "price_min": number or null (in MAD),
    "price_max": number or null (in MAD),
    "property_type": "apartment|villa|land|commercial|mixed",
    "bedrooms_min": number or null,
    "bedrooms_max": number or null,
    "area_min": number or null (in m2),
    "area_max": number or null (in m2),
    "construction_status": "planning|approved|construction|completed",
    "expected_completion": "date string or null",
    "source_url": "url where found",
    "raw_snippet": "brief description"
  }
]

Only include actual new development projects or properties for sale in Rabat.
If nothing is found, return an empty array [].`, query)
}

// candidateWire mirrors the array elements the model is asked to produce.
// Numerics come back as JSON numbers; nulls map to Go zero values.
type candidateWire struct {
	Title              string  `json:"title"`
	Developer          string  `json:"developer"`
	District           string  `json:"district"`
	PriceMin           float64 `json:"price_min"`
	PriceMax           float64 `json:"price_max"`
	PropertyType       string  `json:"property_type"`
	BedroomsMin        float64 `json:"bedrooms_min"`
	BedroomsMax        float64 `json:"bedrooms_max"`
	AreaMin            float64 `json:"area_min"`
	AreaMax            float64 `json:"area_max"`
	ConstructionStatus string  `json:"construction_status"`
	ExpectedCompletion string  `json:"expected_completion"`
	SourceURL          string  `json:"source_url"`
	RawSnippet         string  `json:"raw_snippet"`
}

// ParseReply extracts the JSON array from a model reply and converts its
// elements into candidates. Elements that fail to decode individually are
// dropped, not fatal; a reply with no array at all is an error.
func ParseReply(reply string) ([]domain.Candidate, error) {
	body := stripFences(reply)

	start := strings.Index(body, "[")
	end := strings.LastIndex(body, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in reply")
	}
	body = body[start : end+1]

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(body), &elements); err != nil {
		return nil, fmt.Errorf("decode reply array: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(elements))
	for _, raw := range elements {
		var w candidateWire
		if err := json.Unmarshal(raw, &w); err != nil {
			log.Printf("AISearchAdapter: Dropping malformed element: %v\n", err)
			continue
		}
		c := domain.Candidate{
			Title:              strings.TrimSpace(w.Title),
			Developer:          strings.TrimSpace(w.Developer),
			District:           strings.TrimSpace(w.District),
			PriceMin:           w.PriceMin,
			PriceMax:           w.PriceMax,
			PropertyType:       domain.PropertyType(w.PropertyType),
			BedroomsMin:        int(w.BedroomsMin),
			BedroomsMax:        int(w.BedroomsMax),
			AreaMin:            int(w.AreaMin),
			AreaMax:            int(w.AreaMax),
			ConstructionStatus: domain.ConstructionStatus(w.ConstructionStatus),
			ExpectedCompletion: strings.TrimSpace(w.ExpectedCompletion),
			SourceURL:          strings.TrimSpace(w.SourceURL),
			SourceName:         "Web Search",
			RawSnippet:         domain.ClipSnippet(w.RawSnippet),
		}
		c.Normalize()
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// stripFences removes a leading/trailing markdown code fence if present, so
// both fenced and bare replies parse identically.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
