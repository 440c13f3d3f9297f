package storage

import "github.com/julianstephens/habits/internal/models"

// Provider is the durable side of the habit collection. Every backend
// stores the full ordered collection as one document: Save replaces
// everything, Load reads everything back in insertion order.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns the persisted collection. A store with no prior
	// state yields an empty collection and no error.
	Load() ([]models.Habit, error)
	// Save atomically replaces the persisted collection.
	Save([]models.Habit) error

	// Utils
	GetConfigPath() string
}
