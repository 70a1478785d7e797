package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/port"
)

// fakeCatalog is an in-memory CatalogPort + RunLogPort double.
type fakeCatalog struct {
	properties []domain.Property
	developers []domain.Developer
	runLogs    []domain.RunLog

	lockHeld   bool
	lockErr    error
	insertErr  error
	nextPropID int
	nextDevID  int
}

func (f *fakeCatalog) PropertyExists(_ context.Context, c domain.Candidate) (bool, error) {
	for _, p := range f.properties {
		if c.SourceURL != "" {
			if p.SourceURL == c.SourceURL {
				return true, nil
			}
			continue
		}
		if p.Title != c.Title {
			continue
		}
		if c.District != "" && p.District != c.District {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeCatalog) InsertProperty(_ context.Context, p domain.Property) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextPropID++
	p.ID = fmt.Sprintf("prop-%d", f.nextPropID)
	f.properties = append(f.properties, p)
	return p.ID, nil
}

func (f *fakeCatalog) FindDeveloperByName(_ context.Context, name string) (string, error) {
	for _, d := range f.developers {
		if strings.EqualFold(d.Name, name) {
			return d.ID, nil
		}
	}
	return "", nil
}

func (f *fakeCatalog) InsertDeveloper(_ context.Context, d domain.Developer) (string, error) {
	f.nextDevID++
	d.ID = fmt.Sprintf("dev-%d", f.nextDevID)
	f.developers = append(f.developers, d)
	return d.ID, nil
}

func (f *fakeCatalog) Append(_ context.Context, rl domain.RunLog) error {
	f.runLogs = append(f.runLogs, rl)
	return nil
}

func (f *fakeCatalog) TryAcquireRunLock(_ context.Context, _ string) (bool, error) {
	if f.lockErr != nil {
		return false, f.lockErr
	}
	if f.lockHeld {
		return false, nil
	}
	f.lockHeld = true
	return true, nil
}

func (f *fakeCatalog) ReleaseRunLock(_ context.Context, _ string) error {
	f.lockHeld = false
	return nil
}

// fakeAdapter returns canned candidates or a canned error.
type fakeAdapter struct {
	name       string
	candidates []domain.Candidate
	err        error
	calls      int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(context.Context, domain.SourceDescriptor) ([]domain.Candidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// buildRun assembles the orchestrator with a zero inter-entry delay so
// tests run instantly.
func buildRun(cat *fakeCatalog, ingest *IngestCandidateUseCase, adapters []*fakeAdapter, descs []domain.SourceDescriptor) *RunIngestionUseCase {
	ports := make([]port.SourceAdapterPort, len(adapters))
	for i, a := range adapters {
		ports[i] = a
	}
	return NewRunIngestionUseCase(ports, descs, ingest, cat, 0)
}

func TestRunProcessesEntriesAroundFailure(t *testing.T) {
	cat := &fakeCatalog{}
	good1 := &fakeAdapter{name: "one", candidates: []domain.Candidate{
		{Title: "Projet A", SourceURL: "https://x/a", SourceName: "t"},
	}}
	bad := &fakeAdapter{name: "two", err: errors.New("provider down")}
	good2 := &fakeAdapter{name: "three", candidates: []domain.Candidate{
		{Title: "Projet C", SourceURL: "https://x/c", SourceName: "t"},
	}}

	uc := buildRun(cat, NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil),
		[]*fakeAdapter{good1, bad, good2},
		[]domain.SourceDescriptor{
			{Adapter: "one", Label: "q1"},
			{Adapter: "two", Label: "q2"},
			{Adapter: "three", Label: "q3"},
		})

	sum, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if good2.calls != 1 {
		t.Error("entry after the failing one was not processed")
	}
	if sum.TotalFound != 2 {
		t.Errorf("totalFound = %d; want 2 (failing entry contributes zero)", sum.TotalFound)
	}
	if sum.NewPropertiesAdded != 2 {
		t.Errorf("newPropertiesAdded = %d; want 2", sum.NewPropertiesAdded)
	}
}

func TestRunEndToEnd(t *testing.T) {
	cat := &fakeCatalog{}
	src := &fakeAdapter{name: "aisearch", candidates: []domain.Candidate{
		{
			Title:     "Jnane Al Houda",
			District:  "Hay Riad",
			SourceURL: "https://x/1",
			PriceMin:  800000,
			PriceMax:  1500000,
		},
	}}

	uc := buildRun(cat, NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil),
		[]*fakeAdapter{src},
		[]domain.SourceDescriptor{{Adapter: "aisearch", Label: "q"}})

	sum, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.TotalFound != 1 || sum.NewPropertiesAdded != 1 {
		t.Fatalf("summary = found %d, added %d; want 1, 1", sum.TotalFound, sum.NewPropertiesAdded)
	}
	if len(cat.properties) != 1 {
		t.Fatalf("catalog has %d properties; want 1", len(cat.properties))
	}
	p := cat.properties[0]
	if p.Latitude != 33.9598 || p.Longitude != -6.8672 {
		t.Errorf("coordinates = (%v, %v); want Hay Riad (33.9598, -6.8672)", p.Latitude, p.Longitude)
	}
	if !p.IsActive {
		t.Error("new property must default to active")
	}
	if p.InvestmentScore != 50 {
		t.Errorf("investment score = %d; want placeholder 50", p.InvestmentScore)
	}

	// Idempotence: the same adapter output against the now-populated catalog
	// adds nothing (dedup by source_url).
	sum, err = uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if sum.NewPropertiesAdded != 0 {
		t.Errorf("second run added %d; want 0", sum.NewPropertiesAdded)
	}
	if sum.TotalFound != 1 {
		t.Errorf("second run totalFound = %d; want 1 (dedup happens after counting)", sum.TotalFound)
	}
	if len(cat.runLogs) != 2 {
		t.Errorf("run logs = %d; want exactly one per run", len(cat.runLogs))
	}
}

func TestDedupByURLIgnoresTitleAndDistrict(t *testing.T) {
	cat := &fakeCatalog{}
	ingest := NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil)

	first := domain.Candidate{Title: "Original Title", District: "Agdal", SourceURL: "https://x/1"}
	if inserted, err := ingest.Execute(context.Background(), first); err != nil || !inserted {
		t.Fatalf("seed insert = (%v, %v)", inserted, err)
	}

	same := domain.Candidate{Title: "Completely Different", District: "Souissi", SourceURL: "https://x/1"}
	inserted, err := ingest.Execute(context.Background(), same)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("candidate with matching source_url must be discarded regardless of title/district")
	}
}

func TestDedupByTitleWhenNoURL(t *testing.T) {
	cat := &fakeCatalog{}
	ingest := NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil)

	seed := domain.Candidate{Title: "Résidence Anfa", District: "Agdal"}
	if _, err := ingest.Execute(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	dup := domain.Candidate{Title: "Résidence Anfa", District: "Agdal"}
	inserted, err := ingest.Execute(context.Background(), dup)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("title+district duplicate must be discarded")
	}
}

func TestDeveloperResolverCaseInsensitive(t *testing.T) {
	cat := &fakeCatalog{}
	r := NewDeveloperResolver(cat)

	a, err := r.Resolve(context.Background(), "Alliances")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Resolve(context.Background(), "ALLIANCES")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("case-different names resolved to %q and %q; want same identity", a, b)
	}
	if len(cat.developers) != 1 {
		t.Errorf("developers created = %d; want 1", len(cat.developers))
	}
	if cat.developers[0].Rating != 3.5 {
		t.Errorf("new developer rating = %v; want default 3.5", cat.developers[0].Rating)
	}

	// Name matching is exact: pattern metacharacters carry no meaning, so
	// "M_A Immo" and "MBA Immo" are distinct developers.
	if _, err := r.Resolve(context.Background(), "M_A Immo"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background(), "MBA Immo"); err != nil {
		t.Fatal(err)
	}
	if len(cat.developers) != 3 {
		t.Errorf("developers = %d; want 3 (underscore matches literally)", len(cat.developers))
	}
}

func TestCandidatePersistenceFailureIsIsolated(t *testing.T) {
	cat := &fakeCatalog{insertErr: errors.New("disk full")}
	src := &fakeAdapter{name: "a", candidates: []domain.Candidate{
		{Title: "Projet A", SourceURL: "https://x/a"},
	}}

	uc := buildRun(cat, NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil),
		[]*fakeAdapter{src},
		[]domain.SourceDescriptor{{Adapter: "a", Label: "q"}})

	sum, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("a single candidate's write failure must not fail the run: %v", err)
	}
	if sum.TotalFound != 1 || sum.NewPropertiesAdded != 0 {
		t.Errorf("summary = found %d, added %d; want 1, 0", sum.TotalFound, sum.NewPropertiesAdded)
	}
	if len(cat.runLogs) != 1 || cat.runLogs[0].Status != "success" {
		t.Errorf("expected one success run log, got %+v", cat.runLogs)
	}
}

func TestRunSkippedWhenLockHeld(t *testing.T) {
	cat := &fakeCatalog{lockHeld: true}
	src := &fakeAdapter{name: "a", candidates: []domain.Candidate{{Title: "X"}}}

	uc := buildRun(cat, NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil),
		[]*fakeAdapter{src},
		[]domain.SourceDescriptor{{Adapter: "a", Label: "q"}})

	sum, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 0 {
		t.Error("a skipped run must not call adapters")
	}
	if len(cat.runLogs) != 0 {
		t.Error("a skipped run must not write a run log")
	}
	if !strings.Contains(sum.Message, "skipped") {
		t.Errorf("summary message = %q; want a skipped notice", sum.Message)
	}
}

func TestCancelledRunWritesErrorLog(t *testing.T) {
	cat := &fakeCatalog{}
	src := &fakeAdapter{name: "a", candidates: []domain.Candidate{{Title: "X", SourceURL: "https://x/x"}}}

	uc := buildRun(cat, NewIngestCandidateUseCase(cat, NewDeveloperResolver(cat), nil),
		[]*fakeAdapter{src},
		[]domain.SourceDescriptor{{Adapter: "a", Label: "q"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.Execute(ctx); err == nil {
		t.Fatal("cancelled run must report failure")
	}
	if len(cat.runLogs) != 1 {
		t.Fatalf("run logs = %d; want exactly one even on failure", len(cat.runLogs))
	}
	rl := cat.runLogs[0]
	if rl.Status != "error" || rl.ErrorMessage == "" {
		t.Errorf("failure run log = %+v; want status error with a message", rl)
	}
	if rl.ResultsFound != 0 || rl.NewPropertiesAdded != 0 {
		t.Errorf("failure run log aggregates = (%d, %d); want zeroed", rl.ResultsFound, rl.NewPropertiesAdded)
	}
	if cat.lockHeld {
		t.Error("run lock must be released on failure")
	}
}
