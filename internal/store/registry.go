package store

import (
	"fmt"

	"github.com/telhawk-systems/resend-sink/internal/config"
)

// Build constructs the connector named by backend from its section of the
// configuration. Construction never dials the store; connections are
// established lazily on first Acquire.
func Build(backend string, cfg config.ConnectorsConfig) (Connector, error) {
	switch backend {
	case "postgres":
		return NewPostgres(PostgresConfig{URL: cfg.Postgres.URL}), nil
	case "mysql":
		return NewMySQL(MySQLConfig{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.Database,
		}), nil
	case "sqlite":
		return NewSQLite(SQLiteConfig{Path: cfg.SQLite.Path}), nil
	case "opensearch":
		return NewOpenSearch(OpenSearchConfig{
			URL:           cfg.OpenSearch.URL,
			Username:      cfg.OpenSearch.Username,
			Password:      cfg.OpenSearch.Password,
			TLSSkipVerify: cfg.OpenSearch.TLSSkipVerify,
		}), nil
	case "redis":
		return NewRedis(RedisConfig{
			URL:       cfg.Redis.URL,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}), nil
	case "warehouse":
		return NewWarehouse(WarehouseConfig{
			URL:    cfg.Warehouse.URL,
			Schema: cfg.Warehouse.Schema,
		}), nil
	default:
		return nil, fmt.Errorf("unknown connector %q", backend)
	}
}

// BuildEnabled constructs every connector listed in cfg.Enabled, keyed by
// backend name.
func BuildEnabled(cfg config.ConnectorsConfig) (map[string]Connector, error) {
	connectors := make(map[string]Connector, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		if _, ok := connectors[name]; ok {
			return nil, fmt.Errorf("connector %q enabled twice", name)
		}
		conn, err := Build(name, cfg)
		if err != nil {
			return nil, err
		}
		connectors[name] = conn
	}
	return connectors, nil
}
