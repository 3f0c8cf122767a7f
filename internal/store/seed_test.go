package store_test

import (
	"context"
	"testing"

	"github.com/scadakit/scriptvault/internal/store"
)

func TestSeedDefaultsOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded, err := s.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seeded != 8 {
		t.Fatalf("seeded = %d, want 8", seeded)
	}

	counts, err := s.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("count by category: %v", err)
	}
	want := map[string]int{
		"PLC Communications": 2,
		"Calculations":       1,
		"Alarm Handling":     2,
		"Data Manipulation":  3,
	}
	for category, n := range want {
		if counts[category] != n {
			t.Fatalf("category %q has %d scripts, want %d", category, counts[category], n)
		}
	}
}

func TestSeedDefaultsSkipsNonEmptyStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, draft("Existing", "calc")); err != nil {
		t.Fatalf("add: %v", err)
	}

	seeded, err := s.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seeded != 0 {
		t.Fatalf("seed must be a no-op on a populated store, seeded = %d", seeded)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SeedDefaults(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	again, err := s.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second seed inserted %d scripts", again)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 8 {
		t.Fatalf("count = %d, want 8", count)
	}
}

func TestSeededScriptsAreSearchable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	matches, err := s.Search(ctx, "alarm")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) < 2 {
		t.Fatalf("expected the seeded alarm scripts, got %d matches", len(matches))
	}

	var fromStore store.Script
	found := false
	for _, m := range matches {
		if m.Name == "Acknowledge All Active Alarms" {
			fromStore = m
			found = true
		}
	}
	if !found {
		t.Fatalf("seeded alarm script missing from search results")
	}
	if len(fromStore.Tags) == 0 || fromStore.Notes == "" {
		t.Fatalf("seeded script lost optional fields: %+v", fromStore)
	}
}
