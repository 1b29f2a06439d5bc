package analyzer

import (
	"testing"

	"apidoc/internal/domain"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("Running dogs are playing")
	if len(tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0] != "running" {
		t.Errorf("expected lower-cased 'running' first, got %v", tokens)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("the quick brown fox")
	for _, token := range tokens {
		if token == "the" {
			t.Errorf("stopword 'the' should be removed, got %v", tokens)
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("a I x go")
	if len(tokens) != 1 || tokens[0] != "go" {
		t.Errorf("expected only 'go', got %v", tokens)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()

	if tokens := tok.Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d", len(tokens))
	}
}

func TestTokenizer_Keywords(t *testing.T) {
	tok := NewTokenizer()
	parts := []domain.CommentPart{
		{Kind: domain.PartText, Text: "Adds two numbers."},
		{Kind: domain.PartTag, Name: "param", Type: "number", Text: "first number"},
		{Kind: domain.PartCode, Lang: "js", Text: "adds(secret)"},
	}

	freq := tok.Keywords(parts)
	if freq["number"] != 2 {
		t.Errorf("freq[number] = %d, want 2", freq["number"])
	}
	if freq["numbers"] != 1 || freq["param"] != 1 || freq["adds"] != 1 {
		t.Errorf("unexpected frequencies: %v", freq)
	}
	if _, ok := freq["secret"]; ok {
		t.Error("code samples should not contribute keywords")
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello_world", 1},
		{"hello-world", 2},
		{"func(x, y)", 3},
		{"CamelCase", 1},
		{"snake_case_name", 1},
		{"123numbers456", 1},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}
