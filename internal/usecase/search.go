package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// symbolBoost multiplies the score of a comment whose documented symbol is
// named in the query.
const symbolBoost = 1.5

// SearchUseCase ranks stored comments against a keyword query.
type SearchUseCase struct {
	store     port.DocStore
	tokenizer port.Tokenizer
}

// NewSearchUseCase creates a new search use case.
func NewSearchUseCase(store port.DocStore, tokenizer port.Tokenizer) *SearchUseCase {
	return &SearchUseCase{
		store:     store,
		tokenizer: tokenizer,
	}
}

// Search returns up to k comments ordered by tf-idf score. A k of zero or
// less returns every match.
func (u *SearchUseCase) Search(query string, k int) ([]domain.ScoredComment, error) {
	queryTokens := u.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	stats, err := u.store.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	if stats.TotalComments == 0 {
		return nil, nil
	}

	queryTokenSet := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		queryTokenSet[t] = struct{}{}
	}

	scores := make(map[string]float64)
	N := float64(stats.TotalComments)
	for term := range queryTokenSet {
		postings, err := u.store.GetPostings(term)
		if err != nil {
			return nil, fmt.Errorf("failed to read postings for %q: %w", term, err)
		}
		n := float64(len(postings))
		idf := math.Log((N-n+0.5)/(n+0.5) + 1)
		for _, p := range postings {
			scores[p.CommentID] += float64(p.TF) * idf
		}
	}

	paths := make(map[string]string)
	results := make([]domain.ScoredComment, 0, len(scores))
	for id, score := range scores {
		comment, err := u.store.GetComment(id)
		if err != nil {
			continue
		}
		if _, named := queryTokenSet[strings.ToLower(comment.SymbolName)]; named {
			score *= symbolBoost
		}

		path, ok := paths[comment.DocID]
		if !ok {
			if doc, err := u.store.GetDoc(comment.DocID); err == nil {
				path = doc.Path
			}
			paths[comment.DocID] = path
		}

		results = append(results, domain.ScoredComment{
			Comment: comment,
			Path:    path,
			Score:   score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Path != results[j].Path {
			return results[i].Path < results[j].Path
		}
		return results[i].Comment.StartLine < results[j].Comment.StartLine
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// SearchResult is a simplified result for CLI output.
type SearchResult struct {
	Path       string  `json:"path" yaml:"path"`
	StartLine  int     `json:"start_line" yaml:"start_line"`
	Symbol     string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	SymbolKind string  `json:"symbol_kind,omitempty" yaml:"symbol_kind,omitempty"`
	Score      float64 `json:"score" yaml:"score"`
	Summary    string  `json:"summary" yaml:"summary"`
}

// ToSearchResult flattens a scored comment, using its first text part as the
// summary.
func ToSearchResult(sc domain.ScoredComment) SearchResult {
	r := SearchResult{
		Path:       sc.Path,
		StartLine:  sc.Comment.StartLine,
		Symbol:     sc.Comment.SymbolName,
		SymbolKind: sc.Comment.SymbolKind,
		Score:      sc.Score,
	}
	for _, part := range sc.Comment.Result.Parts {
		if part.Kind == domain.PartText {
			r.Summary = part.Text
			break
		}
	}
	return r
}
