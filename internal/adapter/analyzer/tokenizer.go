package analyzer

import (
	"strings"
	"unicode"

	"apidoc/internal/domain"
)

// Tokenizer splits comment text into lower-cased search terms with stopword
// removal.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		stopwords: defaultStopwords(),
	}
}

// Tokenize splits text into tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.ToLower(word)
		if len(word) < 2 {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// Keywords returns term frequencies over the searchable content of parsed
// parts. Tag names count as terms; code samples do not.
func (t *Tokenizer) Keywords(parts []domain.CommentPart) map[string]int {
	freq := make(map[string]int)
	for _, part := range parts {
		switch part.Kind {
		case domain.PartText:
			t.count(freq, part.Text)
		case domain.PartTag:
			t.count(freq, part.Name)
			t.count(freq, part.Type)
			t.count(freq, part.Text)
		}
	}
	return freq
}

func (t *Tokenizer) count(freq map[string]int, text string) {
	for _, term := range t.Tokenize(text) {
		freq[term]++
	}
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// defaultStopwords returns common English stopwords.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "not", "if", "or", "so", "no", "can",
		"do", "does", "been", "being", "would", "should", "may",
		"which", "when", "all", "each", "other", "some", "than", "also",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
