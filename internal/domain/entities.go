package domain

import (
	"fmt"
	"time"
)

type Document struct {
	ID      string
	Path    string
	ModTime time.Time
	Lang    string
}

// CommentBlock is one raw doc comment located in a source file.
type CommentBlock struct {
	Text        string
	StartLine   int
	EndLine     int
	Declaration string
}

type PartKind string

const (
	PartText PartKind = "text"
	PartTag  PartKind = "tag"
	PartCode PartKind = "code"
	// PartType is a braced type expression; it only survives inside tag parts.
	PartType PartKind = "type"
)

// CommentPart is one unit of a parsed comment. Which fields are set depends
// on Kind: text uses Text, tag uses Name/Type/Text, code uses Lang/Text.
type CommentPart struct {
	Kind PartKind `json:"kind" yaml:"kind"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Type string   `json:"type,omitempty" yaml:"type,omitempty"`
	Lang string   `json:"lang,omitempty" yaml:"lang,omitempty"`
	Text string   `json:"text" yaml:"text"`
}

type ParseError struct {
	Line    int    `json:"line" yaml:"line"`
	Start   int    `json:"start" yaml:"start"`
	End     int    `json:"end" yaml:"end"`
	Message string `json:"message" yaml:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d [%d:%d]: %s", e.Line, e.Start, e.End, e.Message)
}

// ParserResult holds either the parts of a parsed comment or the single
// error that stopped the parse.
type ParserResult struct {
	Parts []CommentPart `json:"parts" yaml:"parts"`
	Error *ParseError   `json:"error" yaml:"error"`
}

func (r ParserResult) OK() bool {
	return r.Error == nil
}

// DocComment is a parsed comment bound to the declaration it documents.
type DocComment struct {
	ID          string       `json:"id" yaml:"id"`
	DocID       string       `json:"doc_id" yaml:"doc_id"`
	StartLine   int          `json:"start_line" yaml:"start_line"`
	EndLine     int          `json:"end_line" yaml:"end_line"`
	Declaration string       `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	SymbolName  string       `json:"symbol_name,omitempty" yaml:"symbol_name,omitempty"`
	SymbolKind  string       `json:"symbol_kind,omitempty" yaml:"symbol_kind,omitempty"`
	Raw         string       `json:"raw" yaml:"raw"`
	Result      ParserResult `json:"result" yaml:"result"`
}

type Posting struct {
	CommentID string
	TF        int
}

type Stats struct {
	TotalDocs     int
	TotalComments int
	ParseErrors   int
}

// Run records one extraction pass over a tree.
type Run struct {
	ID           string    `json:"id" yaml:"id"`
	Root         string    `json:"root" yaml:"root"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time `json:"finished_at" yaml:"finished_at"`
	FilesIndexed int       `json:"files_indexed" yaml:"files_indexed"`
	FilesSkipped int       `json:"files_skipped" yaml:"files_skipped"`
	FilesDeleted int       `json:"files_deleted" yaml:"files_deleted"`
	Comments     int       `json:"comments" yaml:"comments"`
	ParseErrors  int       `json:"parse_errors" yaml:"parse_errors"`
}

type ScoredComment struct {
	Comment DocComment
	Path    string
	Score   float64
}
