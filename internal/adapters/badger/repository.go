package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
)

const treePrefix = "tree/"

// TreeRepository implements ports.TreeRepository on BadgerDB
type TreeRepository struct {
	db     *badger.DB
	gc     *gcRunner
	logger *slog.Logger
}

var _ ports.TreeRepository = (*TreeRepository)(nil)

// Open opens the repository described by cfg
func Open(cfg Config) (*TreeRepository, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repo := &TreeRepository{db: db, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		repo.gc = startGC(db, cfg.GCInterval, cfg.GCDiscardRatio, logger)
	}
	return repo, nil
}

// OpenInMemory opens a repository that lives only as long as the process
func OpenInMemory() (*TreeRepository, error) {
	return Open(InMemoryConfig())
}

func treeKey(id uuid.UUID) []byte {
	return []byte(treePrefix + id.String())
}

func (r *TreeRepository) Save(ctx context.Context, doc *domain.TreeDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Root == nil {
		return domain.ErrMissingRoot
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode tree %s: %w", doc.ID(), err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(treeKey(doc.ID()), data)
	})
}

func (r *TreeRepository) Load(ctx context.Context, id uuid.UUID) (*domain.TreeDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc domain.TreeDocument
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(treeKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ports.ErrTreeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", id, err)
	}
	return &doc, nil
}

// List summarizes every stored tree, newest first. Undecodable entries
// are logged and skipped.
func (r *TreeRepository) List(ctx context.Context) ([]domain.TreeSummary, error) {
	var summaries []domain.TreeSummary

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(treePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			var doc domain.TreeDocument
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				r.logger.Warn("skipping undecodable tree", "key", string(item.Key()), "error", err)
				continue
			}
			summaries = append(summaries, doc.Summary())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(summaries, func(a, b domain.TreeSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return summaries, nil
}

func (r *TreeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(treeKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ports.ErrTreeNotFound, id)
			}
			return err
		}
		return txn.Delete(treeKey(id))
	})
}

func (r *TreeRepository) Close() error {
	if r.gc != nil {
		r.gc.stop()
	}
	return r.db.Close()
}
