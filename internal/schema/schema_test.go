package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTree = `{
	"root": {
		"link": "00000000-0000-0000-0000-000000000000",
		"id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e",
		"isLinkActivation": false,
		"events": [{
			"id": "6a0c9d1e-1f2b-4c3d-8e4f-5a6b7c8d9e0f",
			"type": "creation",
			"date": "2024-03-01T09:00:00Z",
			"webSessionId": "9b8a7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d",
			"pageLoadId": "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
		}],
		"children": [
			{"link": 17, "id": "8b0e3f1a-9c4d-4e2b-8f6a-1d2c3b4a5e6f", "isLinkActivation": true}
		]
	},
	"scores": {"8b0e3f1a-9c4d-4e2b-8f6a-1d2c3b4a5e6f": {"readingTimeToLastEvent": 3.5, "visitCount": 1}},
	"origin": {"type": "browsingNode", "nodeId": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e", "rootOrigin": {"type": "searchBar", "query": "q"}},
	"currentPath": [0]
}`

const validFlat = `{
	"origin": {"type": "historyImport", "sourceBrowser": "arc"},
	"nodes": [
		{"link": "00000000-0000-0000-0000-000000000000", "id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e"},
		{"link": "8b0e3f1a-9c4d-4e2b-8f6a-1d2c3b4a5e6f", "id": "6a0c9d1e-1f2b-4c3d-8e4f-5a6b7c8d9e0f"}
	],
	"parentIndices": [null, 0],
	"currentIndex": 1
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		doc     string
		wantErr bool
	}{
		{"valid tree", KindTree, validTree, false},
		{"valid flat", KindFlat, validFlat, false},
		{"tree without root", KindTree, `{"origin": {"type": "searchBar"}, "currentPath": []}`, true},
		{"unknown origin", KindTree, `{"root": {"link": 1, "id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e"}, "origin": {"type": "dream"}, "currentPath": []}`, true},
		{"negative path", KindTree, `{"root": {"link": 1, "id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e"}, "origin": {"type": "searchBar"}, "currentPath": [-1]}`, true},
		{"bad link", KindTree, `{"root": {"link": "nope", "id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e"}, "origin": {"type": "searchBar"}, "currentPath": []}`, true},
		{"flat without nodes", KindFlat, `{"origin": {"type": "searchBar"}, "nodes": [], "parentIndices": [], "currentIndex": 0}`, true},
		{"not json", KindTree, `{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, []byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	require.Error(t, Validate(Kind("forest"), []byte(validTree)))
}

func TestDetect(t *testing.T) {
	kind, err := Detect([]byte(validFlat))
	require.NoError(t, err)
	assert.Equal(t, KindFlat, kind)

	kind, err = Detect([]byte(validTree))
	require.NoError(t, err)
	assert.Equal(t, KindTree, kind)
}
