package badger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

func newDoc(created time.Time) *domain.TreeDocument {
	child := &domain.NodeDocument{
		Link:             domain.LinkIDFor("https://go.dev/"),
		ID:               uuid.New(),
		IsLinkActivation: true,
		Events:           []domain.ReadingEvent{{ID: uuid.New(), Type: domain.EventCreation, Date: created}},
	}
	return &domain.TreeDocument{
		Root: &domain.NodeDocument{
			Link:     domain.MissingLinkID,
			ID:       uuid.New(),
			Events:   []domain.ReadingEvent{{ID: uuid.New(), Type: domain.EventCreation, Date: created}},
			Children: []*domain.NodeDocument{child},
		},
		Scores:      map[domain.LinkID]*domain.Score{child.Link: {VisitCount: 1}},
		Origin:      domain.SearchBarOrigin("golang", nil),
		CurrentPath: []int{0},
	}
}

func openTestRepo(t *testing.T) *TreeRepository {
	t.Helper()
	repo, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_SaveLoad(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	doc := newDoc(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Save(ctx, doc))

	loaded, err := repo.Load(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, doc.ID(), loaded.ID())
	assert.Equal(t, 2, loaded.NodeCount())
	assert.Equal(t, []int{0}, loaded.CurrentPath)
	assert.Equal(t, 1, loaded.Scores[domain.LinkIDFor("https://go.dev/")].VisitCount)
	require.NotNil(t, loaded.Origin.Query)
	assert.Equal(t, "golang", *loaded.Origin.Query)
}

func TestRepository_LoadMissing(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrTreeNotFound)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	older := newDoc(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	newer := newDoc(time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID(), summaries[0].ID)
	assert.Equal(t, older.ID(), summaries[1].ID)
	assert.Nil(t, summaries[0].Origin.Query, "summaries carry anonymized origins")
}

func TestRepository_Delete(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	doc := newDoc(time.Now())

	require.NoError(t, repo.Save(ctx, doc))
	require.NoError(t, repo.Delete(ctx, doc.ID()))

	_, err := repo.Load(ctx, doc.ID())
	assert.ErrorIs(t, err, ports.ErrTreeNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, doc.ID()), ports.ErrTreeNotFound)
}

func TestRepository_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	doc := newDoc(time.Now())

	repo, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, doc))
	require.NoError(t, repo.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, doc.ID(), loaded.ID())
}
