package docparser

import (
	"apidoc/internal/domain"
)

// Symbol is one production of the comment grammar. It consumes tokens one at
// a time and reports a Status after each. A Symbol is built fresh for each
// parse and is never fed again after Success or Error.
//
// The set of implementations is closed; see the constructors in this package.
type Symbol interface {
	Next(tok Token) Status
	// Valid reports whether the symbol has matched.
	Valid() bool
	// Serialize returns the parts produced by a matched symbol and an empty
	// slice otherwise.
	Serialize() []domain.CommentPart

	symbol()
}

// TerminalOptions restrict what a terminal accepts and whether it emits text.
type TerminalOptions struct {
	Length       int
	Serializable bool
}

type terminalSymbol struct {
	kind  Kind
	opts  TerminalOptions
	token Token
	valid bool
}

// Terminal matches a single token of kind. A non-zero opts.Length also
// requires the token's rune count to match.
func Terminal(kind Kind, opts TerminalOptions) Symbol {
	return &terminalSymbol{kind: kind, opts: opts}
}

func terminal(kind Kind) Symbol {
	return Terminal(kind, TerminalOptions{})
}

func (t *terminalSymbol) symbol() {}

func (t *terminalSymbol) Next(tok Token) Status {
	if tok.Kind != t.kind {
		return fail(tok, "expected %s, got %s", t.kind, tok.Kind)
	}
	if t.opts.Length > 0 && tok.Length != t.opts.Length {
		return fail(tok, "expected %s of length %d, got length %d", t.kind, t.opts.Length, tok.Length)
	}
	t.token = tok
	t.valid = true
	return succeed()
}

func (t *terminalSymbol) Valid() bool {
	return t.valid
}

func (t *terminalSymbol) Serialize() []domain.CommentPart {
	if !t.valid || !t.opts.Serializable || t.token.Text == "" {
		return []domain.CommentPart{}
	}
	return []domain.CommentPart{{Kind: domain.PartText, Text: t.token.Text}}
}

type optionalSymbol struct {
	inner  Symbol
	tokens []Token
	failed bool
}

// Optional turns an error of sym into a backtrack carrying every token sym
// was fed.
func Optional(sym Symbol) Symbol {
	return &optionalSymbol{inner: sym}
}

func (o *optionalSymbol) symbol() {}

func (o *optionalSymbol) Next(tok Token) Status {
	o.tokens = append(o.tokens, tok)
	st := o.inner.Next(tok)
	if st.Kind == Error {
		o.failed = true
		return backtrack(o.tokens)
	}
	return st
}

func (o *optionalSymbol) Valid() bool {
	return !o.failed && o.inner.Valid()
}

func (o *optionalSymbol) Serialize() []domain.CommentPart {
	if !o.Valid() {
		return []domain.CommentPart{}
	}
	return o.inner.Serialize()
}

type notSymbol struct {
	invalid []Kind
	tokens  []Token
	valid   bool
}

// Not is a negative lookahead: it fails when the next len(kinds) tokens have
// exactly these kinds and otherwise hands all of them back as a backtrack.
func Not(kinds ...Kind) Symbol {
	return &notSymbol{invalid: kinds}
}

func (n *notSymbol) symbol() {}

func (n *notSymbol) Next(tok Token) Status {
	n.tokens = append(n.tokens, tok)
	if len(n.tokens) < len(n.invalid) {
		return inProgress()
	}
	for i, kind := range n.invalid {
		if n.tokens[i].Kind != kind {
			n.valid = true
			return backtrack(n.tokens)
		}
	}
	n.valid = false
	return fail(tok, "unexpected %s", tok.Kind)
}

func (n *notSymbol) Valid() bool {
	return n.valid
}

func (n *notSymbol) Serialize() []domain.CommentPart {
	return []domain.CommentPart{}
}
