// Package services holds the application-facing catalog operations on top of
// the repositories.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/models"
	"github.com/adubois/patrontheque/internal/repositories/patrons"
)

// PatronService is the record catalog. Save publishes a PatronSaved event as
// an observable side effect; the sync bridge listens for it.
type PatronService interface {
	Save(ctx context.Context, p *models.Patron) (string, error)
	Get(ctx context.Context, id string) (*models.Patron, error)
	List(ctx context.Context) ([]models.Patron, error)
	ListByCategory(ctx context.Context, c models.Category) ([]models.Patron, error)
	ListByLevel(ctx context.Context, l models.Level) ([]models.Patron, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type patronService struct {
	repo patrons.Repository
	bus  *events.Bus
	log  logging.Logger
	now  func() time.Time
}

func NewPatronService(repo patrons.Repository, bus *events.Bus, log logging.Logger) PatronService {
	return &patronService{repo: repo, bus: bus, log: log, now: time.Now}
}

// Save persists p, assigning a time-based ID to new records. The ID of an
// existing record is never rewritten.
func (s *patronService) Save(ctx context.Context, p *models.Patron) (string, error) {
	if p.ID == "" {
		p.ID = models.NewID(s.now())
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	id, err := s.repo.Save(ctx, p)
	if err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}

	s.log.Debug(ctx, "patron saved", "id", id, "category", p.Category)
	s.bus.Publish(events.Event{Kind: events.PatronSaved, PatronID: id})
	return id, nil
}

func (s *patronService) Get(ctx context.Context, id string) (*models.Patron, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving patron: %w", err)
	}
	return p, nil
}

func (s *patronService) List(ctx context.Context) ([]models.Patron, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing patrons: %w", err)
	}
	return rows, nil
}

func (s *patronService) ListByCategory(ctx context.Context, c models.Category) ([]models.Patron, error) {
	rows, err := s.repo.GetByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error listing patrons by category: %w", err)
	}
	return rows, nil
}

func (s *patronService) ListByLevel(ctx context.Context, l models.Level) ([]models.Patron, error) {
	rows, err := s.repo.GetByLevel(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("error listing patrons by level: %w", err)
	}
	return rows, nil
}

func (s *patronService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting patron: %w", err)
	}
	return nil
}

func (s *patronService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing patrons: %w", err)
	}
	return nil
}
