package app

import (
	"strings"

	"github.com/charlesng35/roomrental/internal/cache"
	"github.com/charlesng35/roomrental/internal/database"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
	}
}

// DatabaseConfig converts the storage section into database.Config. It is only meaningful
// for SQL drivers.
func (c StorageConfig) DatabaseConfig() database.Config {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	cfg := database.Config{
		Driver: driver,
		Path:   c.Path,
		DSN:    strings.TrimSpace(c.DSN),
	}

	var auth DBAuthConfig
	switch driver {
	case "postgres", "postgresql":
		auth = c.Postgres
	case "mysql", "mariadb":
		auth = c.MySQL
	default:
		return cfg
	}
	cfg.Host = auth.Host
	cfg.Port = auth.Port
	cfg.Name = auth.Database
	cfg.User = auth.Username
	cfg.Password = auth.Password
	return cfg
}

// UsesMemoryStore reports whether the in-process store is selected.
func (c StorageConfig) UsesMemoryStore() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), "memory")
}
