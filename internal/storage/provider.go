package storage

import (
	"strings"

	"github.com/julianstephens/focusblocks/internal/constants"
)

// NewProvider picks a backend from the configured location: "memory", a
// PostgreSQL URL, a .json file, or otherwise a SQLite database file.
func NewProvider(config string) Provider {
	switch {
	case config == constants.MemoryConfig:
		return NewMemoryStore()
	case IsPostgresConnString(config):
		return NewPostgresStore(config)
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return NewJSONStore(config)
	default:
		return NewSQLiteStore(config)
	}
}
