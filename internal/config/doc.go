// Package config manages application configuration for TaskFlow.
//
// Configuration is loaded with viper from three layers, later ones winning:
// built-in defaults, an optional YAML file (--config or TASKFLOW_CONFIG),
// and environment variables.
//
//	cfg, err := config.Load("")
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - StorageConfig: slot store driver, file path, memory quota, key scope
//   - RedisConfig: Redis settings for the redis driver
//   - DatabaseConfig: SurrealDB settings for the surrealdb driver
//   - SeedConfig: first-run seed URL, timeout and item limit
//   - SessionConfig: last-login refresh interval and staleness window
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	STORAGE_DRIVER       - sqlite | memory | redis | surrealdb (default: sqlite)
//	STORAGE_PATH         - SQLite file (default: ~/.taskflow/taskflow.db)
//	TASKS_KEY_SCOPE      - name | id (default: name)
//	REDIS_ADDR           - Redis address (default: localhost:6379)
//	DB_HOST, DB_PORT     - SurrealDB endpoint
//	SEED_URL             - seed document (default: https://dummyjson.com/todos)
//	SEED_TIMEOUT         - seed fetch timeout (default: 5s)
//	SESSION_STALE_AFTER  - last-login refresh window (default: 1h)
//	LOG_LEVEL            - debug | info | warn | error (default: info)
package config
