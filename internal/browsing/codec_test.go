package browsing

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browsetree/internal/domain"
)

// sampleTree builds a branching tree with the cursor on a deep node
func sampleTree(f *fixture) *Tree {
	tree := f.searchTree()
	tree.NavigateTo(goDoc, "Docs", true, false)
	f.advance(12)
	tree.NavigateTo(goTour, "Tour", true, true)
	f.advance(8)
	tree.GoBack(true)
	f.advance(3)
	tree.NavigateTo(pkgSite, "slices", true, true)
	f.advance(40)
	tree.SwitchToBackground()
	tree.TabPin()
	return tree
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	f := newFixture(t)
	tree := sampleTree(f)

	first, err := json.Marshal(tree.Document())
	require.NoError(t, err)

	var decoded domain.TreeDocument
	require.NoError(t, json.Unmarshal(first, &decoded))
	restored, err := FromDocument(&decoded, f.env)
	require.NoError(t, err)

	second, err := json.Marshal(restored.Document())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	assert.Equal(t, tree.ID(), restored.ID())
	assert.Equal(t, tree.Current().ID(), restored.Current().ID())
	assert.Equal(t, tree.CurrentPath(), restored.CurrentPath())
	assert.True(t, restored.IsPinned())
	for link, score := range tree.Scores() {
		assert.True(t, score.ApproxEqual(restored.Scores()[link], domain.DefaultScoreTolerance), link.String())
	}
}

func TestFromDocument_DerivesForegroundState(t *testing.T) {
	f := newFixture(t)
	tree := f.searchTree()
	node := tree.NavigateTo(goDoc, "", true, false)
	f.advance(9)
	tree.OpenLinkInNewTab()

	restored, err := FromDocument(tree.Document(), f.env)
	require.NoError(t, err)

	got := restored.Current()
	assert.True(t, got.IsForeground())
	assert.InDelta(t, node.ReadingTime(), got.ReadingTime(), 1e-9)
	assert.Equal(t, node.ForegroundSegments(), got.ForegroundSegments())
}

func TestFromDocument_NotifiesNobody(t *testing.T) {
	f := newFixture(t)
	doc := sampleTree(f).Document()
	updates := len(f.frecency.Updates())

	_, err := FromDocument(doc, f.env)
	require.NoError(t, err)

	assert.Len(t, f.frecency.Updates(), updates)
}

func TestFromDocument_InvalidCurrentPath(t *testing.T) {
	f := newFixture(t)
	doc := sampleTree(f).Document()
	doc.CurrentPath = []int{0, 5}

	_, err := FromDocument(doc, f.env)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestFromDocument_LegacyLink(t *testing.T) {
	const raw = `{
		"root": {
			"link": "00000000-0000-0000-0000-000000000000",
			"id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e",
			"isLinkActivation": false,
			"children": [
				{"link": %s, "id": "8b0e3f1a-9c4d-4e2b-8f6a-1d2c3b4a5e6f", "isLinkActivation": true}
			]
		},
		"scores": {},
		"origin": {"type": "searchBar", "query": "old"},
		"currentPath": [0]
	}`

	for _, link := range []string{"42", "9223372036854775807", "18446744073709551615", "0"} {
		t.Run(link, func(t *testing.T) {
			f := newFixture(t)

			var doc domain.TreeDocument
			require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(raw, link)), &doc))
			tree, err := FromDocument(&doc, f.env)
			require.NoError(t, err)

			child := tree.Current()
			assert.True(t, child.Legacy())
			assert.NotEqual(t, uuid.Nil, child.Link())
			assert.Empty(t, child.Events())
			assert.False(t, tree.Root().Legacy())
		})
	}
}

func TestNodeDocument_RejectsNonIntegerLink(t *testing.T) {
	for _, link := range []string{"4.5", `"not-a-uuid"`, "true", "1e3"} {
		var n domain.NodeDocument
		err := json.Unmarshal([]byte(`{"link": `+link+`, "id": "8b0e3f1a-9c4d-4e2b-8f6a-1d2c3b4a5e6f"}`), &n)
		assert.ErrorIs(t, err, domain.ErrInvalidLink, "link %s", link)
	}
}

func TestDocument_MissingRootOrOrigin(t *testing.T) {
	var doc domain.TreeDocument
	err := json.Unmarshal([]byte(`{"origin": {"type": "searchBar"}, "currentPath": []}`), &doc)
	require.ErrorIs(t, err, domain.ErrMissingRoot)

	err = json.Unmarshal([]byte(`{"root": {"link": "00000000-0000-0000-0000-000000000000", "id": "2f1c7a52-5a8e-4f5b-a9d8-4a3f0c1b2d3e"}, "currentPath": []}`), &doc)
	require.ErrorIs(t, err, domain.ErrMissingOrigin)
}

func TestFlatten_Layout(t *testing.T) {
	f := newFixture(t)
	tree := sampleTree(f)

	flat := tree.Flatten()

	require.Len(t, flat.Nodes, tree.Len())
	require.NoError(t, flat.Validate())
	assert.Nil(t, flat.ParentIndices[0])
	for i, p := range flat.ParentIndices[1:] {
		require.NotNil(t, p)
		assert.Less(t, *p, i+1)
	}
	assert.Equal(t, tree.Current().ID(), flat.Nodes[flat.CurrentIndex].ID)
	assert.Equal(t, tree.Root().ID(), flat.Nodes[0].ID)
}

func TestFlatten_RoundTrip(t *testing.T) {
	f := newFixture(t)
	tree := sampleTree(f)

	flat := tree.Flatten()
	restored, err := Unflatten(flat, f.env)
	require.NoError(t, err)

	assert.Equal(t, flat, restored.Flatten())
	assert.Equal(t, tree.CurrentPath(), restored.CurrentPath())

	data, err := json.Marshal(flat)
	require.NoError(t, err)
	var decoded domain.FlatTreeDocument
	require.NoError(t, json.Unmarshal(data, &decoded))
	fromJSON, err := Unflatten(&decoded, f.env)
	require.NoError(t, err)
	again, err := json.Marshal(fromJSON.Flatten())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestFlatAndNestedAgree(t *testing.T) {
	f := newFixture(t)
	tree := sampleTree(f)

	viaFlat, err := Unflatten(tree.Flatten(), f.env)
	require.NoError(t, err)
	viaNested, err := FromDocument(tree.Document(), f.env)
	require.NoError(t, err)

	a, err := json.Marshal(viaFlat.Document())
	require.NoError(t, err)
	b, err := json.Marshal(viaNested.Document())
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestUnflatten_RejectsBadParents(t *testing.T) {
	f := newFixture(t)
	flat := sampleTree(f).Flatten()
	bad := len(flat.Nodes)
	flat.ParentIndices[1] = &bad

	_, err := Unflatten(flat, f.env)
	require.Error(t, err)
}

func TestDeepTreeRoundTrip(t *testing.T) {
	f := newFixture(t)
	tree := f.searchTree()
	for i := 0; i < 5000; i++ {
		tree.NavigateTo("https://example.com/page/"+uuid.NewString(), "", false, true)
	}

	restored, err := FromDocument(tree.Document(), f.env)
	require.NoError(t, err)
	assert.Equal(t, 5001, restored.Len())
	assert.Equal(t, 5000, restored.Current().Depth())

	unflat, err := Unflatten(tree.Flatten(), f.env)
	require.NoError(t, err)
	assert.Equal(t, tree.Current().ID(), unflat.Current().ID())
}
