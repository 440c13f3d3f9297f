package storage

import (
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habits/internal/models"
)

type SQLiteStore struct {
	sqlStore
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		sqlStore: sqlStore{
			driver:  "sqlite",
			dsn:     path,
			migrDir: "sqlite",
		},
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return s.init()
}

// Load reads the collection. A missing database file is a fresh store
// and is not created until the first Save.
func (s *SQLiteStore) Load() ([]models.Habit, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return []models.Habit{}, nil
		}
	}
	return s.load()
}

func (s *SQLiteStore) Save(habits []models.Habit) error {
	if s.db == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return s.save(habits)
}

func (s *SQLiteStore) Close() error {
	return s.close()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
