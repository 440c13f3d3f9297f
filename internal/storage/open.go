package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habits/internal/keyring"
)

// KeyringLocation selects the PostgreSQL connection string stored in the OS keyring.
const KeyringLocation = "keyring"

// Open picks a backend from the data location: the keyring marker or a
// postgres:// URL selects PostgreSQL, a .db/.sqlite file selects SQLite,
// anything else is a JSON document. trusted marks locations that did not
// come from the command line (environment, keyring) and may carry a password.
func Open(location string, trusted bool) (Provider, error) {
	if location == KeyringLocation {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return NewPostgresStore(connStr), nil
	}

	if IsPostgresConnString(location) {
		if !trusted && HasEmbeddedCredentials(location) {
			return nil, fmt.Errorf("%w: use 'habits keyring set', HABITS_DB_CONNECTION, or .pgpass instead", ErrEmbeddedCredentials)
		}
		return NewPostgresStore(location), nil
	}

	if IsSQLitePath(location) {
		return NewSQLiteStore(location), nil
	}
	return NewJSONStore(location), nil
}

// IsSQLitePath reports whether path names a SQLite database file.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}
