package storage

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/habits/internal/logger"
	"github.com/julianstephens/habits/internal/migration"
	"github.com/julianstephens/habits/internal/models"
	"github.com/julianstephens/habits/migrations"
)

// habitRow is the habits table layout shared by the SQL backends.
type habitRow struct {
	ID          string         `db:"id"`
	Position    int            `db:"position"`
	Task        string         `db:"task"`
	Periodicity string         `db:"periodicity"`
	CreatedAt   string         `db:"created_at"`
	CompletedAt sql.NullString `db:"completed_at"`
	Streak      int            `db:"streak"`
}

func toRow(position int, h models.Habit) habitRow {
	row := habitRow{
		ID:          uuid.New().String(),
		Position:    position,
		Task:        h.Task,
		Periodicity: string(h.Periodicity),
		CreatedAt:   h.CreatedAt.String(),
		Streak:      h.Streak,
	}
	if h.IsCompleted() {
		row.CompletedAt = sql.NullString{String: h.CompletedAt.String(), Valid: true}
	}
	return row
}

func (r habitRow) toHabit() (models.Habit, error) {
	createdAt, err := models.ParseTimestamp(r.CreatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", r.ID, err)
	}

	h := models.Habit{
		Task:        r.Task,
		Periodicity: models.Periodicity(r.Periodicity),
		CreatedAt:   createdAt,
		Streak:      r.Streak,
	}
	if r.CompletedAt.Valid {
		h.CompletedAt, err = models.ParseTimestamp(r.CompletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse completed_at for habit %s: %w", r.ID, err)
		}
	}
	return h, nil
}

// sqlStore implements the document contract on top of a habits table:
// Save swaps the whole table inside one transaction.
type sqlStore struct {
	driver  string
	dsn     string
	migrDir string
	db      *sqlx.DB
}

func (s *sqlStore) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *sqlStore) migrationsFS() (fs.FS, error) {
	subFS, err := fs.Sub(migrations.FS, s.migrDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.migrDir, err)
	}
	return subFS, nil
}

func (s *sqlStore) runMigrations() error {
	subFS, err := s.migrationsFS()
	if err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "driver", s.driver)
	})
	return err
}

// ValidateSchema reports whether the database schema matches the embedded migrations.
func (s *sqlStore) ValidateSchema() error {
	if err := s.open(); err != nil {
		return err
	}
	subFS, err := s.migrationsFS()
	if err != nil {
		return err
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *sqlStore) init() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *sqlStore) load() ([]models.Habit, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	var rows []habitRow
	err := s.db.Select(&rows, `
		SELECT id, position, task, periodicity, created_at, completed_at, streak
		FROM habits ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, row := range rows {
		h, err := row.toHabit()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (s *sqlStore) save(habits []models.Habit) error {
	if err := s.init(); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	for i, h := range habits {
		_, err := tx.NamedExec(`
			INSERT INTO habits (id, position, task, periodicity, created_at, completed_at, streak)
			VALUES (:id, :position, :task, :periodicity, :created_at, :completed_at, :streak)`,
			toRow(i, h))
		if err != nil {
			return fmt.Errorf("failed to write habit %q: %w", h.Task, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit habits: %w", err)
	}

	logger.Debug("Saved habits", "driver", s.driver, "count", len(habits))
	return nil
}

func (s *sqlStore) close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// GetDB returns the underlying database connection.
// Returns nil until the store has been initialized or loaded.
func (s *sqlStore) GetDB() *sqlx.DB {
	return s.db
}
