package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/ports"
)

// ExportFormat selects the document layout of an export
type ExportFormat string

const (
	FormatNested ExportFormat = "nested"
	FormatFlat   ExportFormat = "flat"
)

// ExportTreeCommand encodes a stored tree as JSON
type ExportTreeCommand struct {
	repo      ports.TreeRepository
	env       browsing.Env
	TreeID    string
	Format    ExportFormat
	Anonymize bool
}

// NewExportTreeCommand creates a new ExportTreeCommand
func NewExportTreeCommand(repo ports.TreeRepository, env browsing.Env, treeID string, format ExportFormat, anonymize bool) *ExportTreeCommand {
	return &ExportTreeCommand{
		repo:      repo,
		env:       env,
		TreeID:    treeID,
		Format:    format,
		Anonymize: anonymize,
	}
}

// Validate checks the export options
func (c *ExportTreeCommand) Validate() error {
	if _, err := application.ValidateTreeID("treeID", c.TreeID); err != nil {
		return err
	}
	switch c.Format {
	case FormatNested, FormatFlat, "":
		return nil
	}
	return &application.ValidationError{
		Field:   "format",
		Message: fmt.Sprintf("expected nested or flat, got: %s", c.Format),
	}
}

// Execute runs the export tree command
func (c *ExportTreeCommand) Execute(ctx context.Context) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	id, _ := application.ValidateTreeID("treeID", c.TreeID)

	tree, err := loadTree(ctx, c.repo, c.env, id)
	if err != nil {
		return nil, err
	}
	if c.Anonymize {
		tree = tree.Anonymized()
	}

	var doc any = tree.Document()
	if c.Format == FormatFlat {
		doc = tree.Flatten()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tree %s: %w", id, err)
	}
	return data, nil
}
