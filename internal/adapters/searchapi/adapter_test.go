package searchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

func TestFetchConvertsHits(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{
					"title":   "Résidence Al Manar - Agdal",
					"link":    "https://listings.example.ma/al-manar",
					"snippet": "Appartements neufs de 2 à 4 chambres, 650 000 à 1 200 000 DH.",
				},
				{
					"title": "Sans lien, ignoré",
				},
			},
		})
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "secret", "test-agent")
	got, err := a.Fetch(context.Background(), domain.SourceDescriptor{Query: "projets immobiliers Rabat", Label: "q"})
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery != "projets immobiliers Rabat" {
		t.Errorf("sent q = %q", gotQuery)
	}
	if gotKey != "secret" {
		t.Errorf("sent key = %q", gotKey)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates; want 1 (linkless hit dropped)", len(got))
	}
	c := got[0]
	if c.SourceName != "Search API" {
		t.Errorf("source name = %q", c.SourceName)
	}
	if c.District != "Agdal" {
		t.Errorf("district = %q; want Agdal", c.District)
	}
	if c.PriceMin != 650000 || c.PriceMax != 1200000 {
		t.Errorf("price = (%v, %v); want (650000, 1200000)", c.PriceMin, c.PriceMax)
	}
	if c.BedroomsMin != 2 || c.BedroomsMax != 4 {
		t.Errorf("bedrooms = (%d, %d); want (2, 4)", c.BedroomsMin, c.BedroomsMax)
	}
}

func TestFetchRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", "test-agent")
	if _, err := a.Fetch(context.Background(), domain.SourceDescriptor{Query: "q"}); err == nil {
		t.Error("non-JSON body must surface as a fetch error")
	}
}

func TestFetchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", "test-agent")
	got, err := a.Fetch(context.Background(), domain.SourceDescriptor{Query: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates from empty result set", len(got))
	}
}
