package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// DeclarationNamer names the declaration a doc comment is attached to.
type DeclarationNamer struct{}

func NewDeclarationNamer() *DeclarationNamer {
	return &DeclarationNamer{}
}

// modifiers are dropped before a declaration keyword is looked for.
var modifiers = []string{
	"export", "default", "public", "private", "protected", "internal",
	"static", "final", "abstract", "async", "declare", "readonly",
	"override", "synchronized", "native", "inline", "virtual", "extern",
	"open", "sealed", "data",
}

// symbolPattern maps a declaration keyword to the kind of symbol it declares.
type symbolPattern struct {
	prefix  string
	symType string
}

// getLanguagePatterns returns declaration keywords for a language.
func getLanguagePatterns(lang string) []symbolPattern {
	common := []symbolPattern{
		{"class ", "class"},
		{"interface ", "interface"},
		{"enum ", "enum"},
	}
	switch lang {
	case "javascript", "typescript":
		return append(common,
			symbolPattern{"function* ", "function"},
			symbolPattern{"function ", "function"},
			symbolPattern{"type ", "type"},
			symbolPattern{"namespace ", "namespace"},
			symbolPattern{"const ", "constant"},
			symbolPattern{"let ", "variable"},
			symbolPattern{"var ", "variable"},
		)
	case "php":
		return append(common,
			symbolPattern{"function ", "function"},
			symbolPattern{"trait ", "trait"},
			symbolPattern{"const ", "constant"},
		)
	case "kotlin", "scala", "swift":
		return append(common,
			symbolPattern{"fun ", "function"},
			symbolPattern{"func ", "function"},
			symbolPattern{"def ", "function"},
			symbolPattern{"object ", "object"},
			symbolPattern{"struct ", "struct"},
			symbolPattern{"val ", "constant"},
			symbolPattern{"var ", "variable"},
		)
	case "c", "cpp":
		return append(common,
			symbolPattern{"struct ", "struct"},
			symbolPattern{"typedef ", "type"},
			symbolPattern{"namespace ", "namespace"},
		)
	case "go":
		return []symbolPattern{
			{"func ", "function"},
			{"type ", "type"},
			{"const ", "constant"},
			{"var ", "variable"},
		}
	default:
		return common
	}
}

// Name returns the declared identifier and its kind, or empty strings when
// line does not look like a declaration.
func (n *DeclarationNamer) Name(line, lang string) (string, string) {
	line = stripModifiers(strings.TrimSpace(line))
	if line == "" {
		return "", ""
	}

	for _, p := range getLanguagePatterns(lang) {
		if !strings.HasPrefix(line, p.prefix) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, p.prefix))
		if lang == "go" && p.prefix == "func " && strings.HasPrefix(rest, "(") {
			// method receiver
			if idx := strings.Index(rest, ")"); idx > 0 {
				rest = strings.TrimSpace(rest[idx+1:])
			}
			if name := leadingIdentifier(rest); name != "" {
				return name, "method"
			}
		}
		if name := leadingIdentifier(rest); name != "" {
			return name, p.symType
		}
		return "", ""
	}

	// Typed declarations such as "int add(int a, int b) {" or class members.
	if idx := strings.Index(line, "("); idx > 0 {
		if name := trailingIdentifier(line[:idx]); name != "" && !isKeyword(name) {
			return name, "method"
		}
	}
	if idx := strings.IndexAny(line, "=;:"); idx > 0 {
		if name := trailingIdentifier(strings.TrimSpace(line[:idx])); name != "" && !isKeyword(name) {
			return name, "property"
		}
	}
	return "", ""
}

func stripModifiers(line string) string {
	for {
		stripped := false
		for _, mod := range modifiers {
			if strings.HasPrefix(line, mod+" ") {
				line = strings.TrimSpace(line[len(mod):])
				stripped = true
			}
		}
		if !stripped {
			return line
		}
	}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func leadingIdentifier(s string) string {
	end := 0
	for i, r := range s {
		if !isIdentRune(r) {
			break
		}
		end = i + len(string(r))
	}
	return s[:end]
}

func trailingIdentifier(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	start := len(s)
	for start > 0 {
		r := rune(s[start-1])
		if r >= 0x80 || !isIdentRune(r) {
			break
		}
		start--
	}
	return s[start:]
}

func isKeyword(word string) bool {
	switch word {
	case "if", "for", "while", "switch", "catch", "return", "new", "function":
		return true
	}
	return false
}

// generateCommentID derives a stable ID for a comment from its document and
// position.
func generateCommentID(docID string, startLine int) string {
	data := fmt.Sprintf("%s:%d", docID, startLine)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}

// CommentID is exported for use cases that bind parsed comments to documents.
func CommentID(docID string, startLine int) string {
	return generateCommentID(docID, startLine)
}
