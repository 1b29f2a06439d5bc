//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"apidoc/internal/adapter/analyzer"
	"apidoc/internal/adapter/docparser"
	"apidoc/internal/adapter/memstore"
	"apidoc/internal/domain"
	"apidoc/internal/port"
	"apidoc/internal/usecase"
)

var (
	store     *memstore.MemoryStore
	tokenizer *analyzer.Tokenizer
	parser    *docparser.Parser
	extractUC *usecase.ExtractUseCase
	searchUC  *usecase.SearchUseCase
)

func init() {
	tokenizer = analyzer.NewTokenizer()
	parser = docparser.NewParser()
	reset()
}

func reset() {
	store = memstore.NewMemoryStore()
	extractUC = usecase.NewExtractUseCase(store, nil, analyzer.NewDocBlockExtractor(), parser, tokenizer)
	searchUC = usecase.NewSearchUseCase(store, tokenizer)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("apidocParse", js.FuncOf(parseComment))
	js.Global().Set("apidocAdd", js.FuncOf(addFile))
	js.Global().Set("apidocSearch", js.FuncOf(searchComments))
	js.Global().Set("apidocClear", js.FuncOf(clearStore))
	js.Global().Set("apidocStats", js.FuncOf(getStats))

	<-c
}

func parseComment(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: apidocParse(text)")
	}
	out, _ := json.Marshal(parser.Parse(args[0].String()))
	return string(out)
}

func addFile(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: apidocAdd(filename, content)")
	}

	filename := args[0].String()
	indexed := extractUC.ExtractContent(filename, time.Now(), args[1].String())

	if err := store.DeleteCommentsByDoc(indexed.Doc.ID); err != nil {
		return makeError("replacing old comments failed: " + err.Error())
	}
	if err := store.BatchIndex([]port.IndexedFile{indexed}); err != nil {
		return makeError("indexing failed: " + err.Error())
	}
	store.UpdateStats(computeStats())

	return makeResult(map[string]interface{}{
		"success":  true,
		"comments": indexed.Comments,
		"filename": filename,
	})
}

func searchComments(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: apidocSearch(query, [topK])")
	}

	query := args[0].String()
	topK := 5
	if len(args) > 1 {
		topK = args[1].Int()
	}

	scored, err := searchUC.Search(query, topK)
	if err != nil {
		return makeError("search failed: " + err.Error())
	}

	results := make([]usecase.SearchResult, 0, len(scored))
	for _, sc := range scored {
		results = append(results, usecase.ToSearchResult(sc))
	}
	return makeResult(map[string]interface{}{
		"results": results,
		"query":   query,
	})
}

func clearStore(this js.Value, args []js.Value) interface{} {
	reset()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	stats, _ := store.GetStats()
	docs, _ := store.ListDocs()

	filenames := make([]string, len(docs))
	for i, doc := range docs {
		filenames[i] = doc.Path
	}

	return makeResult(map[string]interface{}{
		"totalDocs":     stats.TotalDocs,
		"totalComments": stats.TotalComments,
		"parseErrors":   stats.ParseErrors,
		"files":         filenames,
	})
}

func computeStats() domain.Stats {
	docs, _ := store.ListDocs()
	stats := domain.Stats{TotalDocs: len(docs)}
	for _, doc := range docs {
		comments, _ := store.GetCommentsByDoc(doc.ID)
		stats.TotalComments += len(comments)
		for _, c := range comments {
			if !c.Result.OK() {
				stats.ParseErrors++
			}
		}
	}
	return stats
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
