package storage

import (
	"errors"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/julianstephens/habits/internal/models"
)

// ErrEmbeddedCredentials is returned for connection strings that carry a password.
var ErrEmbeddedCredentials = errors.New("connection string contains embedded credentials")

type PostgresStore struct {
	sqlStore
	connStr string
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		sqlStore: sqlStore{
			driver:  "postgres",
			dsn:     connStr,
			migrDir: "postgres",
		},
		connStr: connStr,
	}
}

func (s *PostgresStore) Init() error {
	return s.init()
}

func (s *PostgresStore) Load() ([]models.Habit, error) {
	return s.load()
}

func (s *PostgresStore) Save(habits []models.Habit) error {
	return s.save(habits)
}

func (s *PostgresStore) Close() error {
	return s.close()
}

// GetConfigPath returns the connection string with any password masked.
func (s *PostgresStore) GetConfigPath() string {
	return MaskPassword(s.connStr)
}

// IsPostgresConnString reports whether s selects the PostgreSQL backend.
func IsPostgresConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// HasEmbeddedCredentials reports whether a connection string carries a password,
// either as URL user info or as a password= keyword/query parameter.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			// Unparseable URLs are treated as unsafe
			return true
		}
		if _, ok := u.User.Password(); ok {
			return true
		}
		return u.Query().Has("password")
	}

	for _, field := range strings.Fields(connStr) {
		if strings.HasPrefix(strings.ToLower(field), "password=") {
			return true
		}
	}
	return false
}

// MaskPassword masks passwords in connection strings for display
func MaskPassword(connStr string) string {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
		if q := u.Query(); q.Has("password") {
			q.Set("password", "****")
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}
