package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"browsetree/internal/domain"
)

// ErrTreeNotFound is returned by TreeRepository.Load for unknown ids
var ErrTreeNotFound = errors.New("tree not found")

// TreeRepository persists tree documents
type TreeRepository interface {
	Save(ctx context.Context, doc *domain.TreeDocument) error
	Load(ctx context.Context, id uuid.UUID) (*domain.TreeDocument, error)
	List(ctx context.Context) ([]domain.TreeSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
