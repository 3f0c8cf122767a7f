package store_test

import (
	"testing"
	"time"

	"github.com/scadakit/scriptvault/internal/store"
)

func sortFixture() []store.Script {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []store.Script{
		{ID: 1, Name: "Zeta", Category: "calc", ModifiedAt: base.Add(2 * time.Hour)},
		{ID: 2, Name: "Alpha", Category: "calc", ModifiedAt: base},
		{ID: 3, Name: "Mid", Category: "alarm", ModifiedAt: base.Add(time.Hour)},
	}
}

func names(scripts []store.Script) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = s.Name
	}
	return out
}

func TestSortByName(t *testing.T) {
	scripts := sortFixture()
	store.Sort(scripts, store.SortByName)
	want := []string{"Alpha", "Mid", "Zeta"}
	for i, name := range want {
		if scripts[i].Name != name {
			t.Fatalf("byName order = %v, want %v", names(scripts), want)
		}
	}
}

func TestSortByModified(t *testing.T) {
	scripts := sortFixture()
	store.Sort(scripts, store.SortByModified)
	want := []string{"Zeta", "Mid", "Alpha"}
	for i, name := range want {
		if scripts[i].Name != name {
			t.Fatalf("byModified order = %v, want %v", names(scripts), want)
		}
	}
}

func TestSortByCategoryThenName(t *testing.T) {
	scripts := sortFixture()
	store.Sort(scripts, store.SortByCategory)
	want := []string{"Mid", "Alpha", "Zeta"}
	for i, name := range want {
		if scripts[i].Name != name {
			t.Fatalf("byCategory order = %v, want %v", names(scripts), want)
		}
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	scripts := []store.Script{
		{ID: 1, Name: "Same", Category: "calc"},
		{ID: 2, Name: "Same", Category: "calc"},
		{ID: 3, Name: "Same", Category: "calc"},
	}
	store.Sort(scripts, store.SortByName)
	for i, want := range []int64{1, 2, 3} {
		if scripts[i].ID != want {
			t.Fatalf("stable sort reordered equal keys: %v", scripts)
		}
	}
}

func TestSortUnknownModeFallsBackToName(t *testing.T) {
	scripts := sortFixture()
	store.Sort(scripts, store.SortMode("bogus"))
	if scripts[0].Name != "Alpha" {
		t.Fatalf("unknown mode should sort by name, got %v", names(scripts))
	}
}
