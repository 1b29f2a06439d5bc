package docparser

// Kind classifies a lexeme of a doc comment.
type Kind int

const (
	KindText Kind = iota
	KindWhitespace
	KindNewline
	KindStar
	KindOpen
	KindClose
	KindAt
	KindFence
	KindLBrace
	KindRBrace
)

var kindNames = [...]string{
	KindText:       "text",
	KindWhitespace: "whitespace",
	KindNewline:    "newline",
	KindStar:       "star",
	KindOpen:       "comment start",
	KindClose:      "comment end",
	KindAt:         "tag marker",
	KindFence:      "code fence",
	KindLBrace:     "left brace",
	KindRBrace:     "right brace",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Token is an immutable lexeme. Start and End are byte offsets into the
// scanned text (End exclusive), Line is 1-based and Length counts runes.
type Token struct {
	Kind   Kind
	Line   int
	Start  int
	End    int
	Length int
	Text   string
}
