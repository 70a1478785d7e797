package geo

import (
	"testing"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
)

func TestLocateExact(t *testing.T) {
	tests := []struct {
		district string
		wantLat  float64
		wantLon  float64
	}{
		{"Hay Riad", 33.9598, -6.8672},
		{"Agdal", 33.9716, -6.8498},
		{"souissi", 33.9839, -6.8365},
		{"TÉMARA", 33.9280, -6.9060},
	}

	for _, tt := range tests {
		c, ok := Locate(tt.district)
		if !ok {
			t.Errorf("Locate(%q): no match", tt.district)
			continue
		}
		if c.Lat != tt.wantLat || c.Lon != tt.wantLon {
			t.Errorf("Locate(%q) = (%v, %v); want (%v, %v)",
				tt.district, c.Lat, c.Lon, tt.wantLat, tt.wantLon)
		}
	}
}

func TestLocateSubstringFallback(t *testing.T) {
	// Input containing a tabulated key resolves to that key's coordinates.
	c, ok := Locate("Hay Riad Extension")
	if !ok {
		t.Fatal("expected fallback match for 'Hay Riad Extension'")
	}
	if c.Lat != 33.9598 || c.Lon != -6.8672 {
		t.Errorf("fallback resolved to (%v, %v); want Hay Riad coords", c.Lat, c.Lon)
	}

	// And the other direction: input contained in a tabulated key.
	if _, ok := Locate("Irfane"); !ok {
		t.Error("expected 'Irfane' to match 'Madinat Al Irfane'")
	}
}

func TestLocateUnknown(t *testing.T) {
	if _, ok := Locate("Casablanca Maarif"); ok {
		t.Error("unexpected match for a district outside the table")
	}
	if _, ok := Locate(""); ok {
		t.Error("empty district must not match")
	}
}

func TestLocateOrDefault(t *testing.T) {
	c := LocateOrDefault("Nowhere Special")
	if c.Lat != constants.DefaultCenterLat || c.Lon != constants.DefaultCenterLon {
		t.Errorf("unknown district = (%v, %v); want city center (%v, %v)",
			c.Lat, c.Lon, constants.DefaultCenterLat, constants.DefaultCenterLon)
	}
	if c.Lat != 33.9716 || c.Lon != -6.8498 {
		t.Errorf("city center constant drifted: (%v, %v); want (33.9716, -6.8498)", c.Lat, c.Lon)
	}

	c = LocateOrDefault("Hay Riad")
	if c.Lat != 33.9598 {
		t.Errorf("known district must not fall back to center, got lat %v", c.Lat)
	}
}
