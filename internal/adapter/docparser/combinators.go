package docparser

import (
	"slices"
	"strings"

	"apidoc/internal/domain"
)

type choiceSymbol struct {
	alts   []Symbol
	pos    int
	chosen Symbol
}

// Choice tries alternatives in order. An alternative that backtracks hands
// its tokens to the next one; when none is left the choice backtracks.
func Choice(alts ...Symbol) Symbol {
	return &choiceSymbol{alts: alts}
}

func (c *choiceSymbol) symbol() {}

func (c *choiceSymbol) Next(tok Token) Status {
	pending := []Token{tok}
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]

		st := c.alts[c.pos].Next(cur)
		switch st.Kind {
		case Success:
			c.chosen = c.alts[c.pos]
			return succeed(prepend(st.Tokens, pending)...)
		case Error:
			return st
		case Backtrack:
			pending = prepend(st.Tokens, pending)
			c.pos++
			if c.pos == len(c.alts) {
				return backtrack(pending)
			}
		}
	}
	return inProgress()
}

func (c *choiceSymbol) Valid() bool {
	return c.chosen != nil && c.chosen.Valid()
}

func (c *choiceSymbol) Serialize() []domain.CommentPart {
	if !c.Valid() {
		return []domain.CommentPart{}
	}
	return c.chosen.Serialize()
}

type repeatSymbol struct {
	least  int
	item   func() Symbol
	cur    Symbol
	fed    int
	items  []Symbol
	tokens []Token
	valid  bool
}

// Repeat matches item as many times as possible, building a fresh item for
// every iteration. The repetition ends when an item backtracks; fewer than
// least matches makes the whole repetition backtrack.
func Repeat(least int, item func() Symbol) Symbol {
	return &repeatSymbol{least: least, item: item}
}

func (r *repeatSymbol) symbol() {}

func (r *repeatSymbol) Next(tok Token) Status {
	r.tokens = append(r.tokens, tok)

	pending := []Token{tok}
	for len(pending) > 0 {
		if r.cur == nil {
			r.cur = r.item()
			r.fed = 0
		}
		cur := pending[0]
		pending = pending[1:]
		r.fed++

		st := r.cur.Next(cur)
		switch st.Kind {
		case Success:
			rest := prepend(st.Tokens, pending)
			if len(st.Tokens) >= r.fed {
				return r.finish(rest)
			}
			r.items = append(r.items, r.cur)
			r.cur = nil
			pending = rest
		case Backtrack:
			return r.finish(prepend(st.Tokens, pending))
		case Error:
			return st
		}
	}
	return inProgress()
}

func (r *repeatSymbol) finish(rest []Token) Status {
	if len(r.items) < r.least {
		return backtrack(r.tokens)
	}
	r.valid = true
	return succeed(rest...)
}

func (r *repeatSymbol) Valid() bool {
	return r.valid
}

func (r *repeatSymbol) Serialize() []domain.CommentPart {
	parts := []domain.CommentPart{}
	if !r.valid {
		return parts
	}
	for _, item := range r.items {
		parts = append(parts, item.Serialize()...)
	}
	return parts
}

type expectSymbol struct {
	inner Symbol
}

// Expect makes sym required: a backtrack becomes an error at the first
// token sym gave back.
func Expect(sym Symbol) Symbol {
	return &expectSymbol{inner: sym}
}

func (e *expectSymbol) symbol() {}

func (e *expectSymbol) Next(tok Token) Status {
	st := e.inner.Next(tok)
	if st.Kind == Backtrack {
		first := tok
		if len(st.Tokens) > 0 {
			first = st.Tokens[0]
		}
		return fail(first, "unexpected %s", first.Kind)
	}
	return st
}

func (e *expectSymbol) Valid() bool {
	return e.inner.Valid()
}

func (e *expectSymbol) Serialize() []domain.CommentPart {
	if !e.inner.Valid() {
		return []domain.CommentPart{}
	}
	return e.inner.Serialize()
}

type shapeSymbol struct {
	inner Symbol
	fn    func([]domain.CommentPart) []domain.CommentPart
}

// Shape rewrites the parts of sym once it has matched.
func Shape(sym Symbol, fn func([]domain.CommentPart) []domain.CommentPart) Symbol {
	return &shapeSymbol{inner: sym, fn: fn}
}

func (s *shapeSymbol) symbol() {}

func (s *shapeSymbol) Next(tok Token) Status {
	return s.inner.Next(tok)
}

func (s *shapeSymbol) Valid() bool {
	return s.inner.Valid()
}

func (s *shapeSymbol) Serialize() []domain.CommentPart {
	if !s.inner.Valid() {
		return []domain.CommentPart{}
	}
	return s.fn(s.inner.Serialize())
}

type textRunSymbol struct {
	stops  []Kind
	raw    bool
	tokens []Token
	valid  bool
}

// TextRun consumes tokens up to, not including, the first token of a stop
// kind, which it hands back as lookahead. The run must not be empty.
func TextRun(stops ...Kind) Symbol {
	return &textRunSymbol{stops: stops}
}

// RawTextRun is TextRun for code: indentation is kept and only the single
// space separating the text from the star is dropped.
func RawTextRun(stops ...Kind) Symbol {
	return &textRunSymbol{stops: stops, raw: true}
}

func (t *textRunSymbol) symbol() {}

func (t *textRunSymbol) Next(tok Token) Status {
	if slices.Contains(t.stops, tok.Kind) {
		if len(t.tokens) == 0 {
			return fail(tok, "expected text, got %s", tok.Kind)
		}
		t.valid = true
		return succeed(tok)
	}
	t.tokens = append(t.tokens, tok)
	return inProgress()
}

func (t *textRunSymbol) Valid() bool {
	return t.valid
}

func (t *textRunSymbol) Serialize() []domain.CommentPart {
	if !t.valid {
		return []domain.CommentPart{}
	}
	var b strings.Builder
	for _, tok := range t.tokens {
		b.WriteString(tok.Text)
	}
	text := b.String()
	if t.raw {
		text = strings.TrimPrefix(text, " ")
		return []domain.CommentPart{{Kind: domain.PartText, Text: text}}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.CommentPart{}
	}
	return []domain.CommentPart{{Kind: domain.PartText, Text: text}}
}

type typeExprSymbol struct {
	depth  int
	tokens []Token
	valid  bool
}

// TypeExpr matches a braced type expression such as {Array<{id: number}>}.
// Nested braces must balance on the same line. Inline tags like {@link Foo}
// are rejected so they stay in the surrounding text.
func TypeExpr() Symbol {
	return &typeExprSymbol{}
}

func (t *typeExprSymbol) symbol() {}

func (t *typeExprSymbol) Next(tok Token) Status {
	if t.depth == 0 {
		if tok.Kind != KindLBrace {
			return fail(tok, "expected %s, got %s", KindLBrace, tok.Kind)
		}
		t.depth = 1
		return inProgress()
	}

	switch tok.Kind {
	case KindNewline, KindClose:
		return fail(tok, "unterminated type expression, got %s", tok.Kind)
	case KindAt:
		if t.depth == 1 && len(t.tokens) == 0 {
			return fail(tok, "inline tag is not a type")
		}
	case KindLBrace:
		t.depth++
	case KindRBrace:
		t.depth--
		if t.depth == 0 {
			t.valid = true
			return succeed()
		}
	}
	t.tokens = append(t.tokens, tok)
	return inProgress()
}

func (t *typeExprSymbol) Valid() bool {
	return t.valid
}

func (t *typeExprSymbol) Serialize() []domain.CommentPart {
	if !t.valid {
		return []domain.CommentPart{}
	}
	var b strings.Builder
	for _, tok := range t.tokens {
		b.WriteString(tok.Text)
	}
	return []domain.CommentPart{{Kind: domain.PartType, Text: strings.TrimSpace(b.String())}}
}

type lineEndSymbol struct {
	valid bool
}

// LineEnd ends a comment line: it consumes a newline, or matches the
// comment end without consuming it so the closing production still sees it.
func LineEnd() Symbol {
	return &lineEndSymbol{}
}

func (l *lineEndSymbol) symbol() {}

func (l *lineEndSymbol) Next(tok Token) Status {
	switch tok.Kind {
	case KindNewline:
		l.valid = true
		return succeed()
	case KindClose:
		l.valid = true
		return succeed(tok)
	}
	return fail(tok, "expected %s, got %s", KindNewline, tok.Kind)
}

func (l *lineEndSymbol) Valid() bool {
	return l.valid
}

func (l *lineEndSymbol) Serialize() []domain.CommentPart {
	return []domain.CommentPart{}
}
