package docparser

import (
	"apidoc/internal/domain"
)

type sequenceSymbol struct {
	steps  []Symbol
	soft   int
	pos    int
	tokens []Token
	valid  bool
}

// Sequence matches steps in order; any step error is fatal.
func Sequence(steps ...Symbol) Symbol {
	return &sequenceSymbol{steps: steps}
}

// Attempt matches steps in order like Sequence, except that an error from
// one of the first soft steps turns into a backtrack carrying every token
// the sequence received. Errors after that point are fatal.
func Attempt(soft int, steps ...Symbol) Symbol {
	if soft > len(steps) {
		soft = len(steps)
	}
	return &sequenceSymbol{steps: steps, soft: soft}
}

// EmptyLine matches a blank comment line: one space, the star, optional
// trailing whitespace and the newline.
func EmptyLine() Symbol {
	return Attempt(4,
		Terminal(KindWhitespace, TerminalOptions{Length: 1}),
		terminal(KindStar),
		Optional(terminal(KindWhitespace)),
		terminal(KindNewline),
	)
}

func (s *sequenceSymbol) symbol() {}

// Next hands the token to the current step. A step that backtracks is
// skipped and its tokens are replayed to the following steps before Next
// returns; the replay is bounded by the number of steps.
func (s *sequenceSymbol) Next(tok Token) Status {
	s.tokens = append(s.tokens, tok)

	pending := []Token{tok}
	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]

		st := s.steps[s.pos].Next(cur)
		switch st.Kind {
		case InProgress:
			continue
		case Success, Backtrack:
			s.pos++
			pending = prepend(st.Tokens, pending)
		case Error:
			if s.pos < s.soft {
				return backtrack(s.tokens)
			}
			return st
		}

		if s.pos == len(s.steps) {
			s.valid = true
			return succeed(pending...)
		}
	}
	return inProgress()
}

func (s *sequenceSymbol) Valid() bool {
	return s.valid
}

func (s *sequenceSymbol) Serialize() []domain.CommentPart {
	parts := []domain.CommentPart{}
	if !s.valid {
		return parts
	}
	for _, step := range s.steps {
		parts = append(parts, step.Serialize()...)
	}
	return parts
}

// prepend returns head followed by tail in a fresh slice so that replayed
// tokens never alias a symbol's own buffer.
func prepend(head, tail []Token) []Token {
	if len(head) == 0 {
		return tail
	}
	out := make([]Token, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}
