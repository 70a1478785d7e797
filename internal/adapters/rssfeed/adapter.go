package rssfeed

import (
	"context"
	"fmt"
	"log"

	"github.com/gocolly/colly/v2"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/extract"
)

// Adapter pulls real-estate news feeds and turns each item into a candidate
// by running title+description through the field extractor. It keeps one
// parent collector with the shared politeness settings and clones it per
// fetch so handler state never leaks between runs.
type Adapter struct {
	collector *colly.Collector
}

// NewAdapter builds the RSS source adapter. AllowURLRevisit is on because
// the same feed URLs are fetched again on every scheduled run.
func NewAdapter(userAgent string) *Adapter {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.OnError(func(r *colly.Response, err error) {
		log.Printf("RSSFeedAdapter: Error during request to %s: Status=%d, Error=%v", r.Request.URL, r.StatusCode, err)
	})
	return &Adapter{collector: c}
}

// Name implements port.SourceAdapterPort.
func (a *Adapter) Name() string { return constants.AdapterRSS }

// Fetch downloads one feed and returns up to MaxFeedItems candidates. Items
// without a title or link carry nothing usable and are dropped.
func (a *Adapter) Fetch(ctx context.Context, desc domain.SourceDescriptor) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := a.collector.Clone()

	var candidates []domain.Candidate
	c.OnXML("//item", func(e *colly.XMLElement) {
		if len(candidates) >= constants.MaxFeedItems {
			return
		}
		title := e.ChildText("title")
		link := e.ChildText("link")
		if title == "" || link == "" {
			return
		}
		summary := e.ChildText("description")
		candidates = append(candidates, extract.Candidate(title, link, summary, "RSS Feed"))
	})

	if err := c.Visit(desc.Query); err != nil {
		return nil, fmt.Errorf("rssfeed: visit %s: %w", desc.Query, err)
	}
	c.Wait()

	log.Printf("RSSFeedAdapter: Feed %s yielded %d items.\n", desc.Query, len(candidates))
	return candidates, nil
}
