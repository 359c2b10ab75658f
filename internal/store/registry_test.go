package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

func TestBuild(t *testing.T) {
	cfg := config.ConnectorsConfig{
		Postgres:   config.PostgresConfig{URL: "postgres://localhost/sink"},
		SQLite:     config.SQLiteConfig{Path: "sink.db"},
		Redis:      config.RedisConfig{URL: "redis://localhost:6379/0", KeyPrefix: "resend"},
		OpenSearch: config.OpenSearchConfig{URL: "https://localhost:9200"},
		Warehouse:  config.WarehouseConfig{URL: "postgres://localhost/dw", Schema: "analytics"},
	}

	for _, name := range []string{"postgres", "mysql", "sqlite", "opensearch", "redis", "warehouse"} {
		conn, err := Build(name, cfg)
		require.NoError(t, err, name)
		assert.Equal(t, name, conn.Name())
	}
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("cassandra", config.ConnectorsConfig{})
	assert.Error(t, err)
}

func TestBuildEnabled(t *testing.T) {
	cfg := config.ConnectorsConfig{
		Enabled: []string{"sqlite", "redis"},
		SQLite:  config.SQLiteConfig{Path: "sink.db"},
		Redis:   config.RedisConfig{URL: "redis://localhost:6379/0"},
	}

	connectors, err := BuildEnabled(cfg)
	require.NoError(t, err)
	require.Len(t, connectors, 2)
	assert.Contains(t, connectors, "sqlite")
	assert.Contains(t, connectors, "redis")
}

func TestBuildEnabled_Duplicate(t *testing.T) {
	_, err := BuildEnabled(config.ConnectorsConfig{Enabled: []string{"sqlite", "sqlite"}})
	assert.Error(t, err)
}
