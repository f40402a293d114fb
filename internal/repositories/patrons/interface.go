package patrons

import (
	"context"

	"github.com/adubois/patrontheque/internal/models"
)

// Repository describes storage operations for Patron records.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// Save inserts a new patron or replaces an existing one by ID, stamping
	// UpdatedAt. It returns the record's ID.
	Save(ctx context.Context, p *models.Patron) (string, error)

	// GetByID returns a patron by its identifier, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.Patron, error)

	// GetAll returns all patrons in store iteration order.
	GetAll(ctx context.Context) ([]models.Patron, error)

	// GetByCategory returns patrons with the given category.
	GetByCategory(ctx context.Context, c models.Category) ([]models.Patron, error)

	// GetByLevel returns patrons with the given skill level.
	GetByLevel(ctx context.Context, l models.Level) ([]models.Patron, error)

	// DeleteByID removes a patron. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error

	// Clear removes every patron.
	Clear(ctx context.Context) error
}
