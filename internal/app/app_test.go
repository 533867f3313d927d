package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browsetree/internal/browsing"
	"browsetree/internal/config"
	"browsetree/internal/domain"
	"browsetree/internal/logging"
)

func TestOpen_Ephemeral(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "unused")

	a, err := Open(cfg, logging.Discard(), Options{Ephemeral: true})
	require.NoError(t, err)
	defer a.Close()

	tree := browsing.NewTree(domain.SearchBarOrigin("go", nil), a.Env)
	tree.NavigateTo("https://go.dev/", "Go", true, false)
	require.NoError(t, a.Trees.Save(context.Background(), tree.Document()))

	_, err = os.Stat(cfg.DataDir)
	assert.True(t, os.IsNotExist(err), "ephemeral mode must not touch the data dir")
}

func TestOpen_TreeStores(t *testing.T) {
	for _, store := range []string{config.TreeStoreBadger, config.TreeStoreFilesystem} {
		t.Run(store, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.DataDir = t.TempDir()
			cfg.TreeStore = store

			a, err := Open(cfg, logging.Discard(), Options{})
			require.NoError(t, err)

			tree := browsing.NewTree(domain.SearchBarOrigin("go", nil), a.Env)
			tree.NavigateTo("https://go.dev/doc/", "Documentation", true, false)
			require.NoError(t, a.Trees.Save(context.Background(), tree.Document()))

			link, err := a.Links.LinkFor(domain.LinkIDFor("https://go.dev/doc/"))
			require.NoError(t, err)
			require.NotNil(t, link)
			assert.Equal(t, "Documentation", link.Title)
			require.NoError(t, a.Close())

			// reopen and read back
			a, err = Open(cfg, logging.Discard(), Options{})
			require.NoError(t, err)
			defer a.Close()

			summaries, err := a.Trees.List(context.Background())
			require.NoError(t, err)
			require.Len(t, summaries, 1)
			assert.Equal(t, tree.ID(), summaries[0].ID)
		})
	}
}

func TestOpen_UnknownTreeStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.TreeStore = "s3"

	_, err := Open(cfg, logging.Discard(), Options{})
	assert.ErrorContains(t, err, "unknown tree store")
}

func TestLoggingConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = "json"

	lc := LoggingConfig(cfg, "cli")
	assert.Equal(t, logging.FormatJSON, lc.Format)
	assert.Equal(t, "cli", lc.Component)
	assert.Equal(t, "info", lc.Level)
}
