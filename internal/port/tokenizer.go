package port

import "apidoc/internal/domain"

type Tokenizer interface {
	Tokenize(text string) []string

	Keywords(parts []domain.CommentPart) map[string]int
}
