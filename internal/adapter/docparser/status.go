package docparser

import (
	"fmt"

	"apidoc/internal/domain"
)

type StatusKind int

const (
	InProgress StatusKind = iota
	Success
	Error
	Backtrack
)

func (k StatusKind) String() string {
	switch k {
	case InProgress:
		return "in-progress"
	case Success:
		return "success"
	case Error:
		return "error"
	case Backtrack:
		return "backtrack"
	default:
		return "unknown"
	}
}

// Status is the verdict of a Symbol after one token.
//
// Backtrack carries every token the symbol consumed, in order. Success may
// carry lookahead tokens the symbol saw but did not consume; the caller feeds
// them to whatever comes next. Error carries Err.
type Status struct {
	Kind   StatusKind
	Err    *domain.ParseError
	Tokens []Token
}

func inProgress() Status {
	return Status{Kind: InProgress}
}

func succeed(rest ...Token) Status {
	return Status{Kind: Success, Tokens: rest}
}

func backtrack(tokens []Token) Status {
	return Status{Kind: Backtrack, Tokens: tokens}
}

func fail(tok Token, format string, args ...any) Status {
	return Status{Kind: Error, Err: errorAt(tok, fmt.Sprintf(format, args...))}
}

func errorAt(tok Token, msg string) *domain.ParseError {
	return &domain.ParseError{
		Line:    tok.Line,
		Start:   tok.Start,
		End:     tok.End,
		Message: msg,
	}
}
