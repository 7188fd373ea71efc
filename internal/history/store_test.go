package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir(), Keep: 3})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(domain string, total float64) types.DomainResult {
	return types.DomainResult{
		Domain: domain,
		URLs:   []string{"https://" + domain + "/", "https://" + domain + "/about"},
		Average: types.ScoreResult{
			Total:             total,
			ContentStructure:  total * 0.25,
			BrandRanking:      total * 0.09,
			WebsiteTechnical:  total * 0.18,
			KeywordVisibility: total * 0.24,
			AITrust:           total * 0.24,
			DataSource:        types.DataSource{DataForSEO: true, PageSpeed: true},
		},
		Results: []types.URLResult{
			{URL: "https://" + domain + "/", Score: types.ScoreResult{Total: total}},
			{URL: "https://" + domain + "/about", Score: types.ScoreResult{Total: total}},
		},
		Warnings: []string{"moz backlinks data unavailable; AI Trust (backlink_quality, referring_domains) may be approximate"},
	}
}

func TestSaveAndGet(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	id, err := store.Save(ctx, sampleResult("example.com", 74))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", got.Domain)
	}
	if got.Average.Total != 74 {
		t.Errorf("Average.Total = %v, want 74", got.Average.Total)
	}
	if len(got.Results) != 2 {
		t.Errorf("got %d results, want 2", len(got.Results))
	}
	if len(got.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(got.Warnings))
	}
}

func TestGet_Missing(t *testing.T) {
	store := testSetup(t)

	if _, err := store.Get(context.Background(), 999); err == nil {
		t.Fatal("Get(999) error = nil, want not-found error")
	}
}

func TestList_NewestFirstAndFiltered(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	for i, total := range []float64{60, 70, 80} {
		if _, err := store.Save(ctx, sampleResult("example.com", total)); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}
	if _, err := store.Save(ctx, sampleResult("other.com", 50)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	records, err := store.List(ctx, "example.com", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Total != 80 || records[2].Total != 60 {
		t.Errorf("order = [%v %v %v], want newest (80) first", records[0].Total, records[1].Total, records[2].Total)
	}
	if records[0].URLCount != 2 {
		t.Errorf("URLCount = %d, want 2", records[0].URLCount)
	}

	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List(all) error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("got %d records across domains, want 4", len(all))
	}
}

func TestSave_PrunesPerDomain(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	// Keep is 3; the oldest two of five scans must go.
	for i := 0; i < 5; i++ {
		if _, err := store.Save(ctx, sampleResult("example.com", float64(50+i))); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}

	records, err := store.List(ctx, "example.com", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records after save-side pruning, want 3", len(records))
	}
	if records[len(records)-1].Total != 52 {
		t.Errorf("oldest kept Total = %v, want 52", records[len(records)-1].Total)
	}
}

func TestPrune_TrimsEveryDomain(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	for d := 0; d < 2; d++ {
		domain := fmt.Sprintf("site%d.com", d)
		for i := 0; i < 4; i++ {
			if _, err := store.Save(ctx, sampleResult(domain, float64(40+i))); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}
	}

	// Save already trims each domain, so a fresh Prune removes nothing.
	removed, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Prune() removed %d, want 0 on a trimmed store", removed)
	}

	for d := 0; d < 2; d++ {
		records, err := store.List(ctx, fmt.Sprintf("site%d.com", d), 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 3 {
			t.Errorf("site%d.com has %d records, want 3", d, len(records))
		}
	}
}
