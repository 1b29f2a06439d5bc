package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"apidoc/internal/adapter/analyzer"
	"apidoc/internal/adapter/fs"
	"apidoc/internal/domain"
	"apidoc/internal/port"
)

// batchSize is the number of files written per store transaction.
const batchSize = 64

// ProgressFunc is called after each processed file.
type ProgressFunc func(processed, total int, currentFile string)

// ExtractUseCase finds doc comments in a source tree, parses them and
// stores the results.
type ExtractUseCase struct {
	store     port.DocStore
	walker    port.FileWalker
	extractor port.BlockExtractor
	parser    port.CommentParser
	namer     *analyzer.DeclarationNamer
	tokenizer port.Tokenizer
	workers   int
	maxBytes  int64
	logger    *slog.Logger
}

// NewExtractUseCase creates a new extract use case.
func NewExtractUseCase(
	store port.DocStore,
	walker port.FileWalker,
	extractor port.BlockExtractor,
	parser port.CommentParser,
	tokenizer port.Tokenizer,
	opts ...ExtractOption,
) *ExtractUseCase {
	u := &ExtractUseCase{
		store:     store,
		walker:    walker,
		extractor: extractor,
		parser:    parser,
		namer:     analyzer.NewDeclarationNamer(),
		tokenizer: tokenizer,
		workers:   4,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type ExtractOption func(*ExtractUseCase)

// WithWorkers sets how many files are parsed concurrently.
func WithWorkers(n int) ExtractOption {
	return func(u *ExtractUseCase) {
		if n > 0 {
			u.workers = n
		}
	}
}

// WithMaxBytes skips files larger than n bytes. Zero disables the limit.
func WithMaxBytes(n int64) ExtractOption {
	return func(u *ExtractUseCase) { u.maxBytes = n }
}

func WithLogger(logger *slog.Logger) ExtractOption {
	return func(u *ExtractUseCase) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// ExtractResult contains the results of an extraction run.
type ExtractResult struct {
	RunID        string
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	Comments     int
	ParseErrors  int
	Errors       []string
}

type fileOutcome struct {
	info    port.FileInfo
	indexed port.IndexedFile
	err     error
}

// Extract processes every matching file under root. Unchanged files are
// skipped, files that disappeared are dropped from the store. A comment that
// fails to parse is stored with its error; only I/O and store failures are
// reported as errors. Cancelling ctx stops the run between files.
func (u *ExtractUseCase) Extract(ctx context.Context, root string, progress ProgressFunc) (*ExtractResult, error) {
	run := domain.Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}
	result := &ExtractResult{RunID: run.ID}
	logger := u.logger.With("run", run.ID)
	logger.Info("extraction started", "root", root, "workers", u.workers)

	files, err := u.walker.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}
	existingMap := make(map[string]domain.Document, len(existingDocs))
	for _, doc := range existingDocs {
		existingMap[doc.Path] = doc
	}

	seenPaths := make(map[string]bool, len(files))
	var pending []port.FileInfo
	totalComments, totalErrors := 0, 0

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seenPaths[file.Path] = true

		if u.maxBytes > 0 && file.Size > u.maxBytes {
			logger.Debug("skipping large file", "path", file.Path, "size", file.Size)
			result.FilesSkipped++
			continue
		}

		if existing, ok := existingMap[file.Path]; ok {
			if existing.ModTime.Unix() >= file.ModTime {
				result.FilesSkipped++
				comments, err := u.store.GetCommentsByDoc(existing.ID)
				if err != nil {
					return nil, fmt.Errorf("failed to read comments for %s: %w", file.Path, err)
				}
				totalComments += len(comments)
				totalErrors += countErrors(comments)
				continue
			}
			if err := u.store.DeleteCommentsByDoc(existing.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete old data for %s: %v", file.Path, err))
			}
		}
		pending = append(pending, file)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	outcomes := u.process(ctx, pending)

	batch := make([]port.IndexedFile, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := u.store.BatchIndex(batch); err != nil {
			return fmt.Errorf("failed to store batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	processed := 0
	for out := range outcomes {
		processed++
		if progress != nil {
			progress(processed, len(pending), out.info.Path)
		}
		if out.err != nil {
			logger.Warn("file failed", "path", out.info.Path, "err", out.err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to extract %s: %v", out.info.Path, out.err))
			continue
		}

		result.FilesIndexed++
		result.Comments += len(out.indexed.Comments)
		result.ParseErrors += countErrors(out.indexed.Comments)
		batch = append(batch, out.indexed)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("extraction cancelled", "processed", processed, "total", len(pending))
		return nil, err
	}

	for path, doc := range existingMap {
		if seenPaths[path] {
			continue
		}
		if err := u.deleteDocument(doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	stats := domain.Stats{
		TotalDocs:     result.FilesIndexed + result.FilesSkipped,
		TotalComments: totalComments + result.Comments,
		ParseErrors:   totalErrors + result.ParseErrors,
	}
	if err := u.store.UpdateStats(stats); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	run.FinishedAt = time.Now().UTC()
	run.FilesIndexed = result.FilesIndexed
	run.FilesSkipped = result.FilesSkipped
	run.FilesDeleted = result.FilesDeleted
	run.Comments = result.Comments
	run.ParseErrors = result.ParseErrors
	if err := u.store.PutRun(run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	logger.Info("extraction finished",
		"indexed", result.FilesIndexed,
		"skipped", result.FilesSkipped,
		"deleted", result.FilesDeleted,
		"comments", result.Comments,
		"parse_errors", result.ParseErrors,
		"elapsed", run.FinishedAt.Sub(run.StartedAt))

	return result, nil
}

// process extracts files on a bounded pool of workers. The returned channel
// is closed once every worker has finished.
func (u *ExtractUseCase) process(ctx context.Context, files []port.FileInfo) <-chan fileOutcome {
	jobs := make(chan port.FileInfo)
	outcomes := make(chan fileOutcome)

	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				indexed, err := u.extractFile(f)
				select {
				case outcomes <- fileOutcome{info: f, indexed: indexed, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return outcomes
}

// extractFile reads one file and parses each of its doc comments.
func (u *ExtractUseCase) extractFile(file port.FileInfo) (port.IndexedFile, error) {
	content, err := fs.ReadFile(file.Path)
	if err != nil {
		return port.IndexedFile{}, fmt.Errorf("failed to read file: %w", err)
	}
	return u.ExtractContent(file.Path, time.Unix(file.ModTime, 0), content), nil
}

// ExtractContent parses the doc comments of in-memory source text and
// returns them ready for BatchIndex.
func (u *ExtractUseCase) ExtractContent(path string, modTime time.Time, content string) port.IndexedFile {
	lang := fs.DetectLanguage(path)
	doc := domain.Document{
		ID:      generateDocID(path),
		Path:    path,
		ModTime: modTime,
		Lang:    lang,
	}

	blocks := u.extractor.Extract(content, lang)
	indexed := port.IndexedFile{
		Doc:      doc,
		Comments: make([]domain.DocComment, 0, len(blocks)),
		Postings: make(map[string]map[string]int),
	}

	for _, block := range blocks {
		parsed := u.parser.Parse(block.Text)
		name, kind := u.namer.Name(block.Declaration, lang)
		comment := domain.DocComment{
			ID:          analyzer.CommentID(doc.ID, block.StartLine),
			DocID:       doc.ID,
			StartLine:   block.StartLine,
			EndLine:     block.EndLine,
			Declaration: block.Declaration,
			SymbolName:  name,
			SymbolKind:  kind,
			Raw:         block.Text,
			Result:      parsed,
		}
		indexed.Comments = append(indexed.Comments, comment)

		terms := u.tokenizer.Keywords(parsed.Parts)
		for _, term := range u.tokenizer.Tokenize(name) {
			terms[term]++
		}
		for term, tf := range terms {
			if indexed.Postings[term] == nil {
				indexed.Postings[term] = make(map[string]int)
			}
			indexed.Postings[term][comment.ID] = tf
		}
	}

	return indexed
}

// deleteDocument deletes a document and all its associated data.
func (u *ExtractUseCase) deleteDocument(docID string) error {
	if err := u.store.DeleteCommentsByDoc(docID); err != nil {
		return err
	}
	return u.store.DeleteDoc(docID)
}

func countErrors(comments []domain.DocComment) int {
	n := 0
	for _, c := range comments {
		if !c.Result.OK() {
			n++
		}
	}
	return n
}

// generateDocID creates a unique ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
