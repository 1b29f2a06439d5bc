package port

import "apidoc/internal/domain"

type DocStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(id string) (domain.Document, error)

	DeleteDoc(id string) error

	ListDocs() ([]domain.Document, error)

	GetComment(id string) (domain.DocComment, error)

	GetCommentsByDoc(docID string) ([]domain.DocComment, error)

	DeleteCommentsByDoc(docID string) error

	GetPostings(term string) ([]domain.Posting, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	BatchIndex(files []IndexedFile) error

	PutRun(run domain.Run) error

	ListRuns() ([]domain.Run, error)

	Close() error
}

// IndexedFile is one document with its comments and their keyword postings
// (term -> comment ID -> term frequency), written in a single batch.
type IndexedFile struct {
	Doc      domain.Document
	Comments []domain.DocComment
	Postings map[string]map[string]int
}
