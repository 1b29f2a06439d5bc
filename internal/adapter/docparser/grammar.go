package docparser

import (
	"strings"

	"apidoc/internal/domain"
)

// Comment builds the root production:
//
//	comment    := OPEN (blockForm | inlineForm)
//	blockForm  := NEWLINE line* closing
//	inlineForm := WS (AT tagFields line* closing
//	                 | leadText NEWLINE line* closing
//	                 | text? CLOSE)
//	line       := emptyLine | codeBlock | tagBlock | paragraph
//	closing    := CLOSE | " " STAR? CLOSE
//
// The last text or tag line may end with CLOSE instead of NEWLINE.
func Comment() Symbol {
	return Sequence(
		terminal(KindOpen),
		Expect(Choice(blockForm(), inlineForm())),
	)
}

func blockForm() Symbol {
	return Attempt(1,
		terminal(KindNewline),
		Repeat(0, line),
		closing(),
	)
}

func inlineForm() Symbol {
	return Attempt(1,
		terminal(KindWhitespace),
		Expect(Choice(
			Attempt(1,
				terminal(KindAt),
				tagFields(),
				Repeat(0, line),
				closing(),
			),
			Attempt(1,
				Shape(Sequence(
					TextRun(KindNewline, KindClose),
					terminal(KindNewline),
					Repeat(0, textLine),
				), joinText),
				Repeat(0, line),
				closing(),
			),
			Sequence(
				Optional(TextRun(KindNewline, KindClose)),
				terminal(KindClose),
			),
		)),
	)
}

func closing() Symbol {
	return Choice(
		Attempt(1, terminal(KindClose)),
		Sequence(
			lineSpace(),
			Optional(terminal(KindStar)),
			terminal(KindClose),
		),
	)
}

func line() Symbol {
	return Choice(
		EmptyLine(),
		codeBlock(),
		tagBlock(),
		paragraph(),
	)
}

func paragraph() Symbol {
	return Shape(Repeat(1, textLine), joinText)
}

func textLine() Symbol {
	return Attempt(7,
		lineSpace(),
		terminal(KindStar),
		terminal(KindWhitespace),
		Not(KindAt),
		Not(KindFence),
		TextRun(KindNewline, KindClose),
		LineEnd(),
	)
}

// tagBlock matches "@name {type} text" plus its continuation lines. Once the
// tag marker is seen the line must be a well-formed tag.
func tagBlock() Symbol {
	return Attempt(4,
		lineSpace(),
		terminal(KindStar),
		terminal(KindWhitespace),
		terminal(KindAt),
		tagFields(),
	)
}

// tagFields matches everything after the tag marker up to the end of the
// tag's last continuation line.
func tagFields() Symbol {
	return Shape(Sequence(
		Terminal(KindText, TerminalOptions{Serializable: true}),
		Optional(Sequence(terminal(KindWhitespace), TypeExpr())),
		Optional(Sequence(terminal(KindWhitespace), TextRun(KindNewline, KindClose))),
		Optional(terminal(KindWhitespace)),
		LineEnd(),
		Repeat(0, textLine),
	), buildTag)
}

// codeBlock matches a fenced code sample. After the opening fence the block
// must be closed by another fence line.
func codeBlock() Symbol {
	return Shape(Attempt(1,
		fenceLine(),
		Repeat(0, codeLine),
		fenceLine(),
	), buildCode)
}

func fenceLine() Symbol {
	return Sequence(
		lineSpace(),
		terminal(KindStar),
		terminal(KindWhitespace),
		terminal(KindFence),
		Optional(Terminal(KindText, TerminalOptions{Serializable: true})),
		Optional(terminal(KindWhitespace)),
		terminal(KindNewline),
	)
}

func codeLine() Symbol {
	return Shape(Attempt(5,
		lineSpace(),
		terminal(KindStar),
		Not(KindWhitespace, KindFence),
		Optional(RawTextRun(KindNewline, KindClose)),
		terminal(KindNewline),
	), codeLinePart)
}

func lineSpace() Symbol {
	return Terminal(KindWhitespace, TerminalOptions{Length: 1})
}

func joinText(parts []domain.CommentPart) []domain.CommentPart {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, p.Text)
	}
	return []domain.CommentPart{{Kind: domain.PartText, Text: strings.Join(lines, "\n")}}
}

// buildTag folds the tag name, the optional type and all text into one part.
func buildTag(parts []domain.CommentPart) []domain.CommentPart {
	tag := domain.CommentPart{Kind: domain.PartTag}
	if len(parts) == 0 {
		return []domain.CommentPart{tag}
	}
	tag.Name = parts[0].Text

	var text []string
	for _, p := range parts[1:] {
		if p.Kind == domain.PartType {
			tag.Type = p.Text
			continue
		}
		text = append(text, p.Text)
	}
	tag.Text = strings.Join(text, "\n")
	return []domain.CommentPart{tag}
}

func buildCode(parts []domain.CommentPart) []domain.CommentPart {
	code := domain.CommentPart{Kind: domain.PartCode}
	var lines []string
	for i, p := range parts {
		switch {
		case p.Kind == domain.PartCode:
			lines = append(lines, p.Text)
		case i == 0 && p.Kind == domain.PartText:
			code.Lang = p.Text
		}
	}
	code.Text = strings.Join(lines, "\n")
	return []domain.CommentPart{code}
}

// codeLinePart turns a code line, empty ones included, into exactly one part.
func codeLinePart(parts []domain.CommentPart) []domain.CommentPart {
	text := ""
	if len(parts) > 0 {
		text = parts[0].Text
	}
	return []domain.CommentPart{{Kind: domain.PartCode, Text: text}}
}
