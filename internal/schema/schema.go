// Package schema validates stored tree documents against the embedded
// JSON schemas.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind selects a document schema
type Kind string

const (
	KindTree Kind = "tree"
	KindFlat Kind = "flat"
)

const (
	treeURL = "https://browsetree.dev/schema/tree.schema.json"
	flatURL = "https://browsetree.dev/schema/flat.schema.json"
)

var (
	//go:embed tree.schema.json
	treeSchema []byte

	//go:embed flat.schema.json
	flatSchema []byte

	compileOnce sync.Once
	compiled    map[Kind]*jsonschema.Schema
	compileErr  error
)

func compile() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(treeURL, bytes.NewReader(treeSchema)); err != nil {
		compileErr = fmt.Errorf("add tree schema: %w", err)
		return
	}
	if err := compiler.AddResource(flatURL, bytes.NewReader(flatSchema)); err != nil {
		compileErr = fmt.Errorf("add flat schema: %w", err)
		return
	}

	compiled = make(map[Kind]*jsonschema.Schema)
	for kind, url := range map[Kind]string{KindTree: treeURL, KindFlat: flatURL} {
		s, err := compiler.Compile(url)
		if err != nil {
			compileErr = fmt.Errorf("compile %s schema: %w", kind, err)
			return
		}
		compiled[kind] = s
	}
}

// Validate checks a JSON document against the schema of kind
func Validate(kind Kind, data []byte) error {
	compileOnce.Do(compile)
	if compileErr != nil {
		return compileErr
	}

	s, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("unknown document kind: %q", kind)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return s.Validate(instance)
}

// Detect guesses the kind of a document from its top-level keys
func Detect(data []byte) (Kind, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return "", fmt.Errorf("unmarshal document: %w", err)
	}
	if _, ok := top["nodes"]; ok {
		return KindFlat, nil
	}
	return KindTree, nil
}
