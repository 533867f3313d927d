package commands

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"browsetree/internal/application"
	"browsetree/internal/browsing"
	"browsetree/internal/domain"
	"browsetree/internal/logging"
	"browsetree/internal/schema"
)

// ValidateResult describes a document that passed validation
type ValidateResult struct {
	Kind   schema.Kind
	TreeID uuid.UUID
	Nodes  int
}

// ValidateDocumentCommand checks a tree document against its JSON schema
// and then decodes it, catching what the schema cannot express such as a
// current path leading nowhere.
type ValidateDocumentCommand struct {
	Data []byte
}

// NewValidateDocumentCommand creates a new ValidateDocumentCommand
func NewValidateDocumentCommand(data []byte) *ValidateDocumentCommand {
	return &ValidateDocumentCommand{Data: data}
}

// Execute runs the validate document command
func (c *ValidateDocumentCommand) Execute(ctx context.Context) (*ValidateResult, error) {
	kind, err := schema.Detect(c.Data)
	if err != nil {
		return nil, &application.DocumentError{Reason: "not a JSON object", Err: err}
	}
	if err := schema.Validate(kind, c.Data); err != nil {
		return nil, &application.DocumentError{Reason: err.Error(), Err: err}
	}

	env := browsing.Env{Logger: logging.Discard()}
	var tree *browsing.Tree
	switch kind {
	case schema.KindFlat:
		var doc domain.FlatTreeDocument
		if err := json.Unmarshal(c.Data, &doc); err != nil {
			return nil, &application.DocumentError{Reason: err.Error(), Err: err}
		}
		tree, err = browsing.Unflatten(&doc, env)
	default:
		var doc domain.TreeDocument
		if err := json.Unmarshal(c.Data, &doc); err != nil {
			return nil, &application.DocumentError{Reason: err.Error(), Err: err}
		}
		tree, err = browsing.FromDocument(&doc, env)
	}
	if err != nil {
		return nil, &application.DocumentError{Reason: err.Error(), Err: err}
	}

	return &ValidateResult{Kind: kind, TreeID: tree.ID(), Nodes: tree.Len()}, nil
}
