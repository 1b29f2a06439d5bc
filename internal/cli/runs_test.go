package cli

import (
	"strings"
	"testing"
	"time"

	"apidoc/config"
	"apidoc/internal/adapter/store"
	"apidoc/internal/domain"
	"apidoc/internal/port"
)

func TestRunsCommand(t *testing.T) {
	dir := t.TempDir()
	if err := config.EnsureDataDir(dir); err != nil {
		t.Fatal(err)
	}
	st, err := store.NewBoltStore(config.DBPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	file := port.IndexedFile{
		Doc: domain.Document{ID: "d1", Path: "/src/math.js", ModTime: time.Unix(1700000000, 0)},
		Comments: []domain.DocComment{{
			ID: "c1", DocID: "d1", StartLine: 1, EndLine: 1,
			Result: domain.ParserResult{Parts: []domain.CommentPart{{Kind: domain.PartText, Text: "Adds numbers."}}},
		}},
		Postings: map[string]map[string]int{"adds": {"c1": 1}, "numbers": {"c1": 1}},
	}
	if err := st.BatchIndex([]port.IndexedFile{file}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpdateStats(domain.Stats{TotalDocs: 1, TotalComments: 1}); err != nil {
		t.Fatal(err)
	}
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := st.PutRun(domain.Run{ID: "run-1", StartedAt: started, FinishedAt: started.Add(2 * time.Second), FilesIndexed: 1, Comments: 1}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	out, err := executeCommand(t, dir, "", "runs", "-n", "10")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(out, "Stored: 1 files, 1 comments, 0 parse errors, 2 search terms") {
		t.Errorf("unexpected totals:\n%s", out)
	}
	if !strings.Contains(out, "run-1") || !strings.Contains(out, "indexed=1") {
		t.Errorf("run not listed:\n%s", out)
	}
}
