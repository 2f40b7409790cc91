package config

import (
	"errors"
	"os"
	"strings"
)

// DefaultSQLitePath is used when neither DB_URL nor DB_PATH is set,
// so the service runs out-of-the-box against a local file.
const DefaultSQLitePath = "phone_investigation.db"

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL      string            // Postgres URL; empty selects the SQLite fallback
	DBPath     string            // SQLite file path for the fallback store
	ListenAddr string            // HTTP listen address
	APIKeys    map[string]string // apiKey -> userID
}

// Load reads values from environment variables.
// API_KEYS format: "user1:key1,user2:key2"
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))

	dbPath := strings.TrimSpace(os.Getenv("DB_PATH"))
	if dbPath == "" {
		dbPath = DefaultSQLitePath
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	apiKeysRaw := strings.TrimSpace(os.Getenv("API_KEYS"))
	apiKeys := map[string]string{}

	if apiKeysRaw != "" {
		pairs := strings.Split(apiKeysRaw, ",")
		for _, p := range pairs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return Config{}, errors.New(`API_KEYS must be "user:key,user:key"`)
			}
			user := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if user == "" || key == "" {
				return Config{}, errors.New(`API_KEYS must be "user:key,user:key"`)
			}
			apiKeys[key] = user
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["local-dev-key"] = "local"
	}

	return Config{
		DBURL:      dbURL,
		DBPath:     dbPath,
		ListenAddr: listenAddr,
		APIKeys:    apiKeys,
	}, nil
}
