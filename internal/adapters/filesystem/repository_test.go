package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewRepository failed: %v", err)
	}
	return repo
}

func testDocument(created time.Time) *domain.TreeDocument {
	event := func() domain.ReadingEvent {
		return domain.ReadingEvent{
			ID:           uuid.New(),
			Type:         domain.EventCreation,
			Date:         created,
			WebSessionID: uuid.New(),
			PageLoadID:   uuid.New(),
		}
	}
	child := &domain.NodeDocument{
		Link:             domain.LinkIDFor("https://go.dev/doc/"),
		ID:               uuid.New(),
		IsLinkActivation: true,
		Events:           []domain.ReadingEvent{event()},
	}
	return &domain.TreeDocument{
		Root: &domain.NodeDocument{
			Link:     domain.MissingLinkID,
			ID:       uuid.New(),
			Events:   []domain.ReadingEvent{event()},
			Children: []*domain.NodeDocument{child},
		},
		Scores:      map[domain.LinkID]*domain.Score{child.Link: {VisitCount: 1}},
		Origin:      domain.SearchBarOrigin("go docs", nil),
		CurrentPath: []int{0},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	doc := testDocument(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(repo.Dir(), doc.ID().String()+".json")); err != nil {
		t.Fatalf("tree file not written: %v", err)
	}

	loaded, err := repo.Load(ctx, doc.ID())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID() != doc.ID() {
		t.Errorf("expected id %s, got %s", doc.ID(), loaded.ID())
	}
	if loaded.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", loaded.NodeCount())
	}
	if got := loaded.Scores[domain.LinkIDFor("https://go.dev/doc/")]; got == nil || got.VisitCount != 1 {
		t.Errorf("expected score with visit count 1, got %+v", got)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	repo := setupTestRepo(t)
	doc := testDocument(time.Now())

	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	entries, err := os.ReadDir(repo.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected exactly one file, got %v", names)
	}
}

func TestLoad_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Load(context.Background(), uuid.New())
	if !errors.Is(err, ports.ErrTreeNotFound) {
		t.Errorf("expected ErrTreeNotFound, got %v", err)
	}
}

func TestLoad_RejectsSchemaViolation(t *testing.T) {
	repo := setupTestRepo(t)
	id := uuid.New()

	bad := `{"root": {"link": "not-a-uuid", "id": "` + id.String() + `"}, "origin": {"type": "searchBar"}, "currentPath": []}`
	if err := os.WriteFile(filepath.Join(repo.Dir(), id.String()+".json"), []byte(bad), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := repo.Load(context.Background(), id); err == nil {
		t.Error("expected schema validation error")
	}
}

func TestList_SkipsInvalidAndSortsNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	older := testDocument(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	newer := testDocument(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))

	for _, doc := range []*domain.TreeDocument{older, newer} {
		if err := repo.Save(ctx, doc); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	junk := filepath.Join(repo.Dir(), uuid.NewString()+".json")
	if err := os.WriteFile(junk, []byte("{"), 0644); err != nil {
		t.Fatalf("failed to write junk: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repo.Dir(), "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to write notes: %v", err)
	}

	summaries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != newer.ID() || summaries[1].ID != older.ID() {
		t.Errorf("expected newest first, got %s then %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].Kind != domain.OriginSearchBar {
		t.Errorf("expected kind searchBar, got %s", summaries[0].Kind)
	}
	if summaries[0].NodeCount != 2 {
		t.Errorf("expected node count 2, got %d", summaries[0].NodeCount)
	}
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	doc := testDocument(time.Now())

	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Delete(ctx, doc.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, doc.ID()); !errors.Is(err, ports.ErrTreeNotFound) {
		t.Errorf("expected ErrTreeNotFound on second delete, got %v", err)
	}
}
