package local

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestSource(t *testing.T) *Source {
	t.Helper()
	src, err := New(filepath.Join(t.TempDir(), "foods.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSearchAllWordsMustMatch(t *testing.T) {
	src := openTestSource(t)

	hits, err := src.Search(context.Background(), "chicken breast", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("no hits for seeded food")
	}
	record, err := src.GetRecord(context.Background(), hits[0].ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record.Name != "chicken breast skinless raw" {
		t.Errorf("Name = %q", record.Name)
	}
	if len(record.Servings) != 1 || record.Servings[0].AmountValue != 100 || record.Servings[0].AmountUnit != "g" {
		t.Errorf("serving = %+v, want single 100 g serving", record.Servings)
	}
	if record.Servings[0].Kcal != 165 {
		t.Errorf("Kcal = %v, want 165", record.Servings[0].Kcal)
	}
}

func TestSearchFallsBackToFirstWord(t *testing.T) {
	src := openTestSource(t)

	// "zucchini spirals" 全詞比對落空，放寬到 "zucchini"
	hits, err := src.Search(context.Background(), "zucchini spirals", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("first-word fallback produced no hits")
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	src := openTestSource(t)
	hits, err := src.Search(context.Background(), "raw", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) > 2 {
		t.Errorf("hits = %d, want <= 2", len(hits))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	src := openTestSource(t)
	hits, err := src.Search(context.Background(), "   ", 5)
	if err != nil || hits != nil {
		t.Errorf("got %v, %v; want nil, nil", hits, err)
	}
}

func TestGetRecordUnknownID(t *testing.T) {
	src := openTestSource(t)
	if _, err := src.GetRecord(context.Background(), "999999"); err == nil {
		t.Error("expected error for unknown id")
	}
	if _, err := src.GetRecord(context.Background(), "not-a-number"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foods.db")

	first, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	hits, _ := first.Search(context.Background(), "chicken breast", 50)
	firstCount := len(hits)
	_ = first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	hits, _ = second.Search(context.Background(), "chicken breast", 50)
	if len(hits) != firstCount {
		t.Errorf("hit count changed after reopen: %d → %d", firstCount, len(hits))
	}
}
