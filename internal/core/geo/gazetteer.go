// Package geo provides a static district gazetteer for the Rabat metro area.
package geo

import (
	"strings"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
)

// Coordinates is an approximate district centroid.
type Coordinates struct {
	Lat float64
	Lon float64
}

type entry struct {
	name  string
	coord Coordinates
}

// The table is an ordered slice, not a map: the substring fallback takes the
// first match in table order, which must be deterministic.
var table = []entry{
	{"Agdal", Coordinates{33.9716, -6.8498}},
	{"Hassan", Coordinates{34.0209, -6.8417}},
	{"Hay Riad", Coordinates{33.9598, -6.8672}},
	{"Souissi", Coordinates{33.9839, -6.8365}},
	{"Océan", Coordinates{34.0380, -6.8120}},
	{"Témara", Coordinates{33.9280, -6.9060}},
	{"Bouregreg", Coordinates{34.0250, -6.8320}},
	{"Harhoura", Coordinates{33.9170, -6.9560}},
	{"Salé", Coordinates{34.0531, -6.7985}},
	{"Madinat Al Irfane", Coordinates{33.9770, -6.8660}},
}

// Names returns the known district names in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.name
	}
	return names
}

// Locate resolves a district name to coordinates. Exact (case-insensitive)
// match first; then substring containment in either direction, so
// "Hay Riad Extension" resolves to Hay Riad and "Riad" alone does not need
// to be tabulated. Returns false when nothing matches.
func Locate(district string) (Coordinates, bool) {
	d := strings.ToLower(strings.TrimSpace(district))
	if d == "" {
		return Coordinates{}, false
	}
	for _, e := range table {
		if strings.ToLower(e.name) == d {
			return e.coord, true
		}
	}
	for _, e := range table {
		key := strings.ToLower(e.name)
		if strings.Contains(d, key) || strings.Contains(key, d) {
			return e.coord, true
		}
	}
	return Coordinates{}, false
}

// LocateOrDefault resolves a district like Locate, falling back to the Rabat
// metro center so every caller gets plottable coordinates.
func LocateOrDefault(district string) Coordinates {
	if c, ok := Locate(district); ok {
		return c
	}
	return Coordinates{Lat: constants.DefaultCenterLat, Lon: constants.DefaultCenterLon}
}
