package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/gocolly/colly/v2"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/extract"
)

type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Adapter queries a generic web-search HTTP API and runs each hit through
// the field extractor. Shares the clone-per-fetch collector pattern with
// the RSS adapter.
type Adapter struct {
	collector *colly.Collector
	endpoint  string
	apiKey    string
}

// NewAdapter builds the search-API source adapter for the given endpoint.
func NewAdapter(endpoint, apiKey, userAgent string) *Adapter {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.OnError(func(r *colly.Response, err error) {
		log.Printf("SearchAPIAdapter: Error during request to %s: Status=%d, Error=%v", r.Request.URL, r.StatusCode, err)
	})
	return &Adapter{collector: c, endpoint: endpoint, apiKey: apiKey}
}

// Name implements port.SourceAdapterPort.
func (a *Adapter) Name() string { return constants.AdapterSearchAPI }

// Fetch issues one search query and converts every hit to a candidate.
func (a *Adapter) Fetch(ctx context.Context, desc domain.SourceDescriptor) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := a.collector.Clone()

	var (
		candidates []domain.Candidate
		parseErr   error
	)
	c.OnResponse(func(r *colly.Response) {
		var payload searchResponse
		if err := json.Unmarshal(r.Body, &payload); err != nil {
			parseErr = fmt.Errorf("searchapi: decode response for %q: %w", desc.Query, err)
			return
		}
		for _, hit := range payload.Results {
			if hit.Title == "" || hit.Link == "" {
				continue
			}
			candidates = append(candidates, extract.Candidate(hit.Title, hit.Link, hit.Snippet, "Search API"))
		}
	})

	if err := c.Visit(a.queryURL(desc.Query)); err != nil {
		return nil, fmt.Errorf("searchapi: visit for %q: %w", desc.Query, err)
	}
	c.Wait()
	if parseErr != nil {
		return nil, parseErr
	}

	log.Printf("SearchAPIAdapter: Query %q yielded %d hits.\n", desc.Query, len(candidates))
	return candidates, nil
}

func (a *Adapter) queryURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	if a.apiKey != "" {
		params.Set("key", a.apiKey)
	}
	return a.endpoint + "?" + params.Encode()
}
