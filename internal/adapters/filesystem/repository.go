package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"browsetree/internal/domain"
	"browsetree/internal/ports"
	"browsetree/internal/schema"
)

const treesDir = "trees"

// Repository implements ports.TreeRepository as one JSON file per tree
type Repository struct {
	dir    string
	logger *slog.Logger
}

var _ ports.TreeRepository = (*Repository)(nil)

// NewRepository creates a repository rooted at dataDir
func NewRepository(dataDir string, logger *slog.Logger) (*Repository, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~") {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, dataDir[1:])
	}
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Join(dataDir, treesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trees directory: %w", err)
	}
	return &Repository{dir: dir, logger: logger}, nil
}

// Dir returns the directory holding the tree files
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) path(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String()+".json")
}

// Save writes the document through a temporary file so a crash never
// leaves a truncated tree behind.
func (r *Repository) Save(ctx context.Context, doc *domain.TreeDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || doc.Root == nil {
		return domain.ErrMissingRoot
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tree %s: %w", doc.ID(), err)
	}

	tmp, err := os.CreateTemp(r.dir, ".tree-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tree %s: %w", doc.ID(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync tree %s: %w", doc.ID(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close tree %s: %w", doc.ID(), err)
	}

	if err := os.Rename(tmpPath, r.path(doc.ID())); err != nil {
		return fmt.Errorf("failed to move tree %s into place: %w", doc.ID(), err)
	}
	return nil
}

// Load reads a tree, validating the file against the tree schema first
func (r *Repository) Load(ctx context.Context, id uuid.UUID) (*domain.TreeDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.read(r.path(id), id.String())
}

func (r *Repository) read(path, name string) (*domain.TreeDocument, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ports.ErrTreeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", name, err)
	}

	if err := schema.Validate(schema.KindTree, data); err != nil {
		return nil, fmt.Errorf("tree %s does not match schema: %w", name, err)
	}

	var doc domain.TreeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode tree %s: %w", name, err)
	}
	return &doc, nil
}

// List summarizes every tree file, newest first. Invalid files are
// logged and skipped.
func (r *Repository) List(ctx context.Context) ([]domain.TreeSummary, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read trees directory: %w", err)
	}

	var summaries []domain.TreeSummary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		if _, err := uuid.Parse(strings.TrimSuffix(name, ".json")); err != nil {
			continue
		}

		doc, err := r.read(filepath.Join(r.dir, name), name)
		if err != nil {
			r.logger.Warn("skipping invalid tree file", "file", name, "error", err)
			continue
		}
		summaries = append(summaries, doc.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(r.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ports.ErrTreeNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete tree %s: %w", id, err)
	}
	return nil
}

// Close is a no-op; files are closed after every operation
func (r *Repository) Close() error {
	return nil
}
