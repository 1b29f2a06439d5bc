package memstore

import (
	"fmt"
	"sort"
	"sync"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// MemoryStore keeps everything in maps. Used for dry runs and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	docs         map[string]domain.Document
	comments     map[string]domain.DocComment
	docComments  map[string][]string
	commentTerms map[string][]string
	postings     map[string][]domain.Posting
	runs         map[string]domain.Run
	stats        domain.Stats
}

var _ port.DocStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:         make(map[string]domain.Document),
		comments:     make(map[string]domain.DocComment),
		docComments:  make(map[string][]string),
		commentTerms: make(map[string][]string),
		postings:     make(map[string][]domain.Posting),
		runs:         make(map[string]domain.Run),
	}
}

func (s *MemoryStore) PutDoc(doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) GetDoc(id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}

func (s *MemoryStore) DeleteDoc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) ListDocs() ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) GetComment(id string) (domain.DocComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return domain.DocComment{}, fmt.Errorf("comment not found: %s", id)
	}
	return c, nil
}

func (s *MemoryStore) GetCommentsByDoc(docID string) ([]domain.DocComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.docComments[docID]
	comments := make([]domain.DocComment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].StartLine < comments[j].StartLine
	})
	return comments, nil
}

func (s *MemoryStore) DeleteCommentsByDoc(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.docComments[docID] {
		s.removePostings(id)
		delete(s.comments, id)
	}
	delete(s.docComments, docID)
	return nil
}

// removePostings must be called with mu held.
func (s *MemoryStore) removePostings(commentID string) {
	for _, term := range s.commentTerms[commentID] {
		filtered := make([]domain.Posting, 0)
		for _, p := range s.postings[term] {
			if p.CommentID != commentID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			delete(s.postings, term)
		} else {
			s.postings[term] = filtered
		}
	}
	delete(s.commentTerms, commentID)
}

func (s *MemoryStore) GetPostings(term string) ([]domain.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.postings[term], nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

func (s *MemoryStore) BatchIndex(files []port.IndexedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range files {
		s.docs[file.Doc.ID] = file.Doc

		ids := make([]string, 0, len(file.Comments))
		for _, c := range file.Comments {
			s.removePostings(c.ID)
			s.comments[c.ID] = c
			ids = append(ids, c.ID)
		}
		s.docComments[file.Doc.ID] = ids

		for term, commentPostings := range file.Postings {
			for commentID, tf := range commentPostings {
				s.commentTerms[commentID] = append(s.commentTerms[commentID], term)
				s.postings[term] = append(s.postings[term], domain.Posting{
					CommentID: commentID,
					TF:        tf,
				})
			}
		}
	}

	return nil
}

func (s *MemoryStore) PutRun(run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) ListRuns() ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
