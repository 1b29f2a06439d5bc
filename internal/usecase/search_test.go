package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"apidoc/internal/adapter/analyzer"
	"apidoc/internal/adapter/memstore"
	"apidoc/internal/domain"
)

func indexedStore(t *testing.T) (*memstore.MemoryStore, string) {
	t.Helper()
	root := setupTree(t)
	st := memstore.NewMemoryStore()
	if _, err := newExtract(st).Extract(context.Background(), root, nil); err != nil {
		t.Fatalf("extract: %v", err)
	}
	return st, root
}

func TestSearch_FindsByText(t *testing.T) {
	st, root := indexedStore(t)
	uc := NewSearchUseCase(st, analyzer.NewTokenizer())

	results, err := uc.Search("numbers", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Comment.SymbolName != "add" {
		t.Errorf("expected the add comment, got %+v", results[0].Comment)
	}
	if results[0].Path != filepath.Join(root, "src", "math.js") {
		t.Errorf("unexpected path %s", results[0].Path)
	}
	if results[0].Score <= 0 {
		t.Errorf("expected a positive score, got %f", results[0].Score)
	}
}

func TestSearch_FindsBySymbolName(t *testing.T) {
	st, _ := indexedStore(t)
	uc := NewSearchUseCase(st, analyzer.NewTokenizer())

	results, err := uc.Search("broken", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Comment.Result.OK() {
		t.Errorf("expected the unparsable comment to be found by its symbol, got %+v", results)
	}
}

func TestSearch_RanksAndLimits(t *testing.T) {
	st, _ := indexedStore(t)
	uc := NewSearchUseCase(st, analyzer.NewTokenizer())

	results, err := uc.Search("date string numbers", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Comment.SymbolName != "formatDate" {
		t.Errorf("comment matching two terms should rank first, got %s", results[0].Comment.SymbolName)
	}
	if results[0].Score < results[1].Score {
		t.Error("results should be ordered by score")
	}

	limited, _ := uc.Search("date string numbers", 1)
	if len(limited) != 1 {
		t.Errorf("expected k to limit results, got %d", len(limited))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	st, _ := indexedStore(t)
	uc := NewSearchUseCase(st, analyzer.NewTokenizer())

	for _, q := range []string{"", "the a", "nonexistent"} {
		results, err := uc.Search(q, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) returned %d results", q, len(results))
		}
	}
}

func TestToSearchResult(t *testing.T) {
	sc := domain.ScoredComment{
		Path:  "a.js",
		Score: 2,
		Comment: domain.DocComment{
			StartLine:  4,
			SymbolName: "add",
			Result: domain.ParserResult{Parts: []domain.CommentPart{
				{Kind: domain.PartTag, Name: "since", Text: "1.0"},
				{Kind: domain.PartText, Text: "Adds."},
			}},
		},
	}
	r := ToSearchResult(sc)
	if r.Summary != "Adds." || r.Symbol != "add" || r.StartLine != 4 {
		t.Errorf("unexpected result %+v", r)
	}
}
