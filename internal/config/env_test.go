package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://indexer.testnet-02.midnight.network/api/v1/graphql", c.IndexerURL)
	assert.Equal(t, "deployment.json", c.DeploymentPath)
	assert.Equal(t, 5*time.Minute, c.SyncFirstTimeout)
	assert.Equal(t, 2*time.Minute, c.SyncEachTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("INDEXER_URL", "http://localhost:8088/api/v1/graphql")
	t.Setenv("API_URL", "http://localhost:4000")
	t.Setenv("SYNC_EACH_TIMEOUT", "30s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8088/api/v1/graphql", c.IndexerURL)
	assert.Equal(t, "http://localhost:4000", c.APIURL)
	assert.Equal(t, 30*time.Second, c.SyncEachTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("SYNC_FIRST_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestInitAndGet(t *testing.T) {
	t.Setenv("PORT", "9090")
	require.NoError(t, Init())
	t.Cleanup(func() { cfg = nil })

	assert.Equal(t, "9090", Get().Port)
	assert.Equal(t, "http://127.0.0.1:9944", Get().WalletRPCURL)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("loud", "")
	assert.Error(t, err)

	logger, err := NewLogger("debug", filepath.Join(t.TempDir(), "app.log"))
	require.NoError(t, err)
	logger.Info("hello")
	assert.NoError(t, logger.Sync())
}
