package docparser

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Scanner splits comment text into tokens in a single forward pass.
// A drained Scanner stays drained.
type Scanner struct {
	src  string
	pos  int
	line int
}

func NewScanner(text string) *Scanner {
	return &Scanner{src: text, line: 1}
}

// Tokens scans text lazily.
func Tokens(text string) iter.Seq[Token] {
	return NewScanner(text).All()
}

// All yields the tokens the scanner has not produced yet.
func (s *Scanner) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := s.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Next returns the next token, or false once the input is exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.src) {
		return Token{}, false
	}

	start := s.pos
	kind, size := s.lexeme(start)
	if size == 0 {
		kind = KindText
		size = s.textRun(start)
	}
	s.pos = start + size

	tok := Token{
		Kind:   kind,
		Line:   s.line,
		Start:  start,
		End:    s.pos,
		Length: utf8.RuneCountInString(s.src[start:s.pos]),
		Text:   s.src[start:s.pos],
	}
	if kind == KindNewline {
		s.line++
	}
	return tok, true
}

// lexeme recognizes every kind except text at pos. A zero size means the
// position starts a text run.
func (s *Scanner) lexeme(pos int) (Kind, int) {
	rest := s.src[pos:]
	switch rest[0] {
	case '\n':
		return KindNewline, 1
	case '\r':
		if strings.HasPrefix(rest, "\r\n") {
			return KindNewline, 2
		}
	case ' ', '\t':
		n := 1
		for n < len(rest) && (rest[n] == ' ' || rest[n] == '\t') {
			n++
		}
		return KindWhitespace, n
	case '/':
		if strings.HasPrefix(rest, "/**") {
			return KindOpen, 3
		}
	case '*':
		if strings.HasPrefix(rest, "*/") {
			return KindClose, 2
		}
		return KindStar, 1
	case '@':
		return KindAt, 1
	case '{':
		return KindLBrace, 1
	case '}':
		return KindRBrace, 1
	case '`':
		n := 1
		for n < len(rest) && rest[n] == '`' {
			n++
		}
		if n >= 3 {
			return KindFence, n
		}
	}
	return KindText, 0
}

func (s *Scanner) textRun(pos int) int {
	end := pos
	for end < len(s.src) {
		if end > pos {
			if _, size := s.lexeme(end); size > 0 {
				break
			}
		}
		if s.src[end] == '`' {
			// short backtick runs stay inside the text
			for end < len(s.src) && s.src[end] == '`' {
				end++
			}
			continue
		}
		_, w := utf8.DecodeRuneInString(s.src[end:])
		end += w
	}
	return end - pos
}
