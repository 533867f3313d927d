package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

// TreeRepository keeps encoded tree documents in a map so callers never
// share state with the stored copy.
type TreeRepository struct {
	mu    sync.RWMutex
	trees map[uuid.UUID][]byte
}

var _ ports.TreeRepository = (*TreeRepository)(nil)

func NewTreeRepository() *TreeRepository {
	return &TreeRepository{trees: make(map[uuid.UUID][]byte)}
}

func (r *TreeRepository) Save(ctx context.Context, doc *domain.TreeDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode tree %s: %w", doc.ID(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[doc.ID()] = data
	return nil
}

func (r *TreeRepository) Load(ctx context.Context, id uuid.UUID) (*domain.TreeDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	data, ok := r.trees[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrTreeNotFound, id)
	}

	var doc domain.TreeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode tree %s: %w", id, err)
	}
	return &doc, nil
}

func (r *TreeRepository) List(ctx context.Context) ([]domain.TreeSummary, error) {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.trees))
	for id := range r.trees {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	summaries := make([]domain.TreeSummary, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, doc.Summary())
	}
	slices.SortFunc(summaries, func(a, b domain.TreeSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return summaries, nil
}

func (r *TreeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trees[id]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrTreeNotFound, id)
	}
	delete(r.trees, id)
	return nil
}

func (r *TreeRepository) Close() error { return nil }
