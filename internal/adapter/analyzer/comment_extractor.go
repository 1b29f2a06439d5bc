package analyzer

import (
	"strings"

	"apidoc/internal/domain"
)

// docBlockLanguages lists the languages whose doc comments use /** ... */.
var docBlockLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
	"java":       true,
	"kotlin":     true,
	"scala":      true,
	"swift":      true,
	"c":          true,
	"cpp":        true,
	"php":        true,
	"go":         true,
}

type DocBlockExtractor struct {
	languages map[string]bool
}

func NewDocBlockExtractor() *DocBlockExtractor {
	return &DocBlockExtractor{languages: docBlockLanguages}
}

// Supports reports whether lang uses block doc comments.
func (e *DocBlockExtractor) Supports(lang string) bool {
	return e.languages[lang]
}

// Extract returns every /** ... */ block in content. Each block is dedented
// by the column of its opening delimiter so that continuation lines start
// with " *". A block left open at the end of the file runs to the end.
func (e *DocBlockExtractor) Extract(content string, lang string) []domain.CommentBlock {
	if !e.Supports(lang) {
		return nil
	}

	var blocks []domain.CommentBlock
	pos := 0
	for {
		idx := strings.Index(content[pos:], "/**")
		if idx < 0 {
			break
		}
		start := pos + idx

		// "/**/" is an empty plain comment, not a doc block.
		if strings.HasPrefix(content[start:], "/**/") {
			pos = start + 4
			continue
		}

		end := len(content)
		if closeIdx := strings.Index(content[start+3:], "*/"); closeIdx >= 0 {
			end = start + 3 + closeIdx + 2
		}

		lineStart := strings.LastIndexByte(content[:start], '\n') + 1
		column := start - lineStart
		startLine := strings.Count(content[:start], "\n") + 1
		raw := content[start:end]

		blocks = append(blocks, domain.CommentBlock{
			Text:        dedent(raw, column),
			StartLine:   startLine,
			EndLine:     startLine + strings.Count(raw, "\n"),
			Declaration: declarationAfter(content[end:]),
		})
		pos = end
	}

	return blocks
}

// dedent strips up to column leading blanks from every line but the first.
func dedent(text string, column int) string {
	if column == 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		n := 0
		for n < column && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		lines[i] = line[n:]
	}
	return strings.Join(lines, "\n")
}

// declarationAfter returns the first line after a comment that looks like
// code, skipping blank lines and annotations.
func declarationAfter(rest string) string {
	for i, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if i == 0 {
			// the remainder of the comment's closing line
			if trimmed != "" && !strings.HasPrefix(trimmed, "@") {
				return trimmed
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "@") {
			continue
		}
		if strings.HasPrefix(trimmed, "/**") {
			return ""
		}
		return trimmed
	}
	return ""
}
