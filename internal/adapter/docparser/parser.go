package docparser

import (
	"apidoc/internal/domain"
)

const unbalancedMessage = "Unbalanced comment"

// Parser parses doc comments. It holds no state, so one value may be shared
// by any number of goroutines.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(text string) domain.ParserResult {
	return Parse(text)
}

// Parse runs the comment grammar over the full text of one doc comment,
// delimiters included. The first error stops the parse.
func Parse(text string) domain.ParserResult {
	root := Comment()
	last := Status{}

	for tok := range Tokens(text) {
		if last.Kind == Success {
			return failed(trailing(tok))
		}
		last = root.Next(tok)
		switch last.Kind {
		case Error:
			return failed(last.Err)
		case Backtrack:
			first := tok
			if len(last.Tokens) > 0 {
				first = last.Tokens[0]
			}
			return failed(errorAt(first, "unexpected "+first.Kind.String()))
		case Success:
			if len(last.Tokens) > 0 {
				return failed(trailing(last.Tokens[0]))
			}
		}
	}

	if last.Kind != Success {
		return failed(&domain.ParseError{
			Line:    1,
			Start:   0,
			End:     len(text),
			Message: unbalancedMessage,
		})
	}
	return domain.ParserResult{Parts: root.Serialize()}
}

func trailing(tok Token) *domain.ParseError {
	return errorAt(tok, "unexpected "+tok.Kind.String()+" after end of comment")
}

func failed(err *domain.ParseError) domain.ParserResult {
	return domain.ParserResult{Parts: []domain.CommentPart{}, Error: err}
}
