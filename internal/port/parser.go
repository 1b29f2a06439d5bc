package port

import "apidoc/internal/domain"

// CommentParser turns the text of one doc comment into structured parts.
// Implementations must be safe for concurrent use.
type CommentParser interface {
	Parse(text string) domain.ParserResult
}

// BlockExtractor finds doc comments in a source file.
type BlockExtractor interface {
	Supports(lang string) bool
	Extract(content string, lang string) []domain.CommentBlock
}
