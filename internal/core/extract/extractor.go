// Package extract derives structured candidate fields from free listing text.
//
// Every derivation is independent and best-effort: a field that cannot be
// read is simply absent, and no field blocks another. All heuristics are
// deterministic for identical input, with no external calls.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/geo"
)

var (
	// priceRangeRe captures "800 000 - 1 500 000 DH" style explicit ranges.
	priceRangeRe = regexp.MustCompile(`(?i)(\d[\d\s.,\x{00a0}]*?)\s*(?:-|–|à|to)\s*(\d[\d\s.,\x{00a0}]*?)\s*(?:dhs?|mad|dirhams?)\b`)
	// pricePointRe captures a number immediately followed by a currency marker.
	pricePointRe = regexp.MustCompile(`(?i)(\d[\d\s.,\x{00a0}]*?)\s*(?:dhs?|mad|dirhams?)\b`)

	bedroomsRangeRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:-|–|à|to)\s*(\d{1,2})\s*(?:chambres?|bedrooms?|pièces?|ch\b)`)
	bedroomsRe      = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:chambres?|bedrooms?|pièces?|ch\b)`)

	areaRangeRe = regexp.MustCompile(`(?i)\b(\d{2,4})\s*(?:-|–|à|to)\s*(\d{2,4})\s*(?:m²|m2\b|sqm)`)
	areaRe      = regexp.MustCompile(`(?i)\b(\d{2,4})\s*(?:m²|m2\b|sqm)`)
)

// Keyword classification as ordered (keywords, result) rule tables, evaluated
// in fixed priority order; the first rule whose keyword appears wins.
var propertyTypeRules = []struct {
	keywords []string
	result   domain.PropertyType
}{
	{[]string{"villa", "maison"}, domain.PropertyTypeVilla},
	{[]string{"terrain", "land"}, domain.PropertyTypeLand},
	{[]string{"commerce", "local"}, domain.PropertyTypeCommercial},
}

var constructionStatusRules = []struct {
	keywords []string
	result   domain.ConstructionStatus
}{
	{[]string{"vefa", "sur plan"}, domain.StatusPlanning},
	{[]string{"neuf", "nouveau", "new", "projet"}, domain.StatusConstruction},
}

// Price extracts a MAD price range from text. An explicit "lo - hi MARKER"
// range is preferred; otherwise the first plausible point price is widened
// by ±PointPriceSpread. Numbers without a currency marker are never prices,
// and currency-anchored values below MinPlausiblePrice are discarded (a
// bedroom count next to "DH" is not a price).
func Price(text string) (min, max float64, ok bool) {
	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		lo := parseAmount(m[1])
		hi := parseAmount(m[2])
		if lo >= constants.MinPlausiblePrice && hi >= constants.MinPlausiblePrice {
			if lo > hi {
				lo, hi = hi, lo
			}
			return lo, hi, true
		}
	}
	for _, m := range pricePointRe.FindAllStringSubmatch(text, -1) {
		v := parseAmount(m[1])
		if v < constants.MinPlausiblePrice {
			continue
		}
		spread := v * constants.PointPriceSpread
		return v - spread, v + spread, true
	}
	return 0, 0, false
}

// parseAmount strips digit-group separators (spaces, commas, periods,
// non-breaking spaces) and parses what remains.
func parseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// Bedrooms extracts a bedroom count range ("2 à 4 chambres") or a single
// count ("3 chambres", "3 ch", "3 bedrooms") applied to both bounds.
func Bedrooms(text string) (min, max int, ok bool) {
	if m := bedroomsRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
	if m := bedroomsRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, n, true
	}
	return 0, 0, false
}

// Area extracts a surface range or single value in m².
func Area(text string) (min, max int, ok bool) {
	if m := areaRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
	if m := areaRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, n, true
	}
	return 0, 0, false
}

// District matches text against the gazetteer's district list by
// case-insensitive substring containment, first match in table order wins.
func District(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range geo.Names() {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name, true
		}
	}
	return "", false
}

// PropertyType classifies the listing via the ordered keyword rule table,
// defaulting to apartment.
func PropertyType(text string) domain.PropertyType {
	lower := strings.ToLower(text)
	for _, rule := range propertyTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return domain.PropertyTypeApartment
}

// ConstructionStatus classifies the project stage via the ordered keyword
// rule table, defaulting to approved.
func ConstructionStatus(text string) domain.ConstructionStatus {
	lower := strings.ToLower(text)
	for _, rule := range constructionStatusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return domain.StatusApproved
}

// Candidate builds a normalized candidate from a title plus snippet, the
// shape both the RSS and search-API adapters produce.
func Candidate(title, link, snippet, sourceName string) domain.Candidate {
	text := title + " " + snippet

	c := domain.Candidate{
		Title:              strings.TrimSpace(title),
		SourceURL:          strings.TrimSpace(link),
		SourceName:         sourceName,
		RawSnippet:         snippet,
		PropertyType:       PropertyType(text),
		ConstructionStatus: ConstructionStatus(text),
	}
	if lo, hi, ok := Price(text); ok {
		c.PriceMin, c.PriceMax = lo, hi
	}
	if lo, hi, ok := Bedrooms(text); ok {
		c.BedroomsMin, c.BedroomsMax = lo, hi
	}
	if lo, hi, ok := Area(text); ok {
		c.AreaMin, c.AreaMax = lo, hi
	}
	if d, ok := District(text); ok {
		c.District = d
	}
	c.Normalize()
	return c
}
