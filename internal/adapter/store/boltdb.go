package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"apidoc/internal/domain"
	"apidoc/internal/port"
)

var (
	bucketDocs        = []byte("docs")
	bucketComments    = []byte("comments")
	bucketDocComments = []byte("doc_comments")
	bucketTerms       = []byte("terms")
	bucketStats       = []byte("stats")
	bucketRuns        = []byte("runs")
	keyStats          = []byte("corpus_stats")
)

var allBuckets = [][]byte{bucketDocs, bucketComments, bucketDocComments, bucketTerms, bucketStats, bucketRuns}

type BoltStore struct {
	db *bbolt.DB
}

var _ port.DocStore = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docMeta struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mod_time"`
	Lang    string `json:"lang"`
}

// commentRecord is a stored comment plus the terms it was indexed under, so
// its postings can be removed without scanning the terms bucket.
type commentRecord struct {
	Comment domain.DocComment `json:"comment"`
	Terms   []string          `json:"terms"`
}

func encodeDoc(doc domain.Document) ([]byte, error) {
	return json.Marshal(docMeta{
		Path:    doc.Path,
		ModTime: doc.ModTime.Unix(),
		Lang:    doc.Lang,
	})
}

func decodeDoc(id string, data []byte) (domain.Document, error) {
	var meta docMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		ID:      id,
		Path:    meta.Path,
		ModTime: time.Unix(meta.ModTime, 0),
		Lang:    meta.Lang,
	}, nil
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := encodeDoc(doc)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
	})
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document not found: %s", id)
		}
		var err error
		doc, err = decodeDoc(id, data)
		return err
	})
	return doc, err
}

func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			doc, err := decodeDoc(string(k), v)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	return docs, err
}

func (s *BoltStore) GetComment(id string) (domain.DocComment, error) {
	var rec commentRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketComments).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("comment not found: %s", id)
		}
		return json.Unmarshal(data, &rec)
	})
	return rec.Comment, err
}

// GetCommentsByDoc returns a document's comments ordered by position.
func (s *BoltStore) GetCommentsByDoc(docID string) ([]domain.DocComment, error) {
	var comments []domain.DocComment
	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := commentIDs(tx, docID)
		if err != nil {
			return err
		}
		commentBucket := tx.Bucket(bucketComments)
		for _, id := range ids {
			data := commentBucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var rec commentRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				continue
			}
			comments = append(comments, rec.Comment)
		}
		return nil
	})
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].StartLine < comments[j].StartLine
	})
	return comments, err
}

func commentIDs(tx *bbolt.Tx, docID string) ([]string, error) {
	data := tx.Bucket(bucketDocComments).Get([]byte(docID))
	if data == nil {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteCommentsByDoc removes a document's comments and their postings.
func (s *BoltStore) DeleteCommentsByDoc(docID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ids, err := commentIDs(tx, docID)
		if err != nil {
			return err
		}
		commentBucket := tx.Bucket(bucketComments)
		for _, id := range ids {
			data := commentBucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var rec commentRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				if err := removePostings(tx, id, rec.Terms); err != nil {
					return err
				}
			}
			if err := commentBucket.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketDocComments).Delete([]byte(docID))
	})
}

func removePostings(tx *bbolt.Tx, commentID string, terms []string) error {
	b := tx.Bucket(bucketTerms)
	for _, term := range terms {
		data := b.Get([]byte(term))
		if data == nil {
			continue
		}
		var postings []domain.Posting
		if err := json.Unmarshal(data, &postings); err != nil {
			continue
		}

		filtered := make([]domain.Posting, 0, len(postings))
		for _, p := range postings {
			if p.CommentID != commentID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			if err := b.Delete([]byte(term)); err != nil {
				return err
			}
			continue
		}
		data, err := json.Marshal(filtered)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(term), data); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltStore) GetPostings(term string) ([]domain.Posting, error) {
	var postings []domain.Posting
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTerms).Get([]byte(term))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &postings)
	})
	return postings, err
}

// AllTerms returns every indexed search term in byte order.
func (s *BoltStore) AllTerms() ([]string, error) {
	var terms []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTerms).ForEach(func(k, v []byte) error {
			terms = append(terms, string(k))
			return nil
		})
	})
	return terms, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

// BatchIndex writes documents, their comments and postings in one
// transaction. Postings already stored for a comment ID are replaced.
func (s *BoltStore) BatchIndex(files []port.IndexedFile) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		docsBucket := tx.Bucket(bucketDocs)
		commentsBucket := tx.Bucket(bucketComments)
		docCommentsBucket := tx.Bucket(bucketDocComments)
		termsBucket := tx.Bucket(bucketTerms)

		allPostings := make(map[string][]domain.Posting)

		for _, file := range files {
			data, err := encodeDoc(file.Doc)
			if err != nil {
				return err
			}
			if err := docsBucket.Put([]byte(file.Doc.ID), data); err != nil {
				return err
			}

			termsByComment := make(map[string][]string)
			for term, commentTFs := range file.Postings {
				for commentID, tf := range commentTFs {
					termsByComment[commentID] = append(termsByComment[commentID], term)
					allPostings[term] = append(allPostings[term], domain.Posting{
						CommentID: commentID,
						TF:        tf,
					})
				}
			}

			ids := make([]string, 0, len(file.Comments))
			for _, c := range file.Comments {
				terms := termsByComment[c.ID]
				sort.Strings(terms)
				data, err := json.Marshal(commentRecord{Comment: c, Terms: terms})
				if err != nil {
					return err
				}
				if err := commentsBucket.Put([]byte(c.ID), data); err != nil {
					return err
				}
				ids = append(ids, c.ID)
			}

			idsData, err := json.Marshal(ids)
			if err != nil {
				return err
			}
			if err := docCommentsBucket.Put([]byte(file.Doc.ID), idsData); err != nil {
				return err
			}
		}

		for term, newPostings := range allPostings {
			replaced := make(map[string]bool, len(newPostings))
			for _, p := range newPostings {
				replaced[p.CommentID] = true
			}

			var existing []domain.Posting
			if data := termsBucket.Get([]byte(term)); data != nil {
				if err := json.Unmarshal(data, &existing); err != nil {
					return fmt.Errorf("corrupt postings for %q: %w", term, err)
				}
			}
			merged := make([]domain.Posting, 0, len(existing)+len(newPostings))
			for _, p := range existing {
				if !replaced[p.CommentID] {
					merged = append(merged, p)
				}
			}
			merged = append(merged, newPostings...)

			data, err := json.Marshal(merged)
			if err != nil {
				return err
			}
			if err := termsBucket.Put([]byte(term), data); err != nil {
				return err
			}
		}

		return nil
	})
}

// PutRun records an extraction run under its ID.
func (s *BoltStore) PutRun(run domain.Run) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put([]byte(run.ID), data)
	})
}

// ListRuns returns recorded runs, most recent first.
func (s *BoltStore) ListRuns() ([]domain.Run, error) {
	var runs []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var run domain.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
