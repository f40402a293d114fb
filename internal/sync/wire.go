package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adubois/patrontheque/internal/media"
	"github.com/adubois/patrontheque/internal/models"
)

// patronFile is the wire form of a record as stored remotely: binary fields
// are carried as portable data URIs so the whole record is one JSON object.
type patronFile struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Level       models.Level    `json:"level"`
	HookSize    string          `json:"hookSize"`
	YarnAmount  int             `json:"yarnAmount"`
	Materials   []string        `json:"materials"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	PDF         string          `json:"pdf,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	SyncedAt    time.Time       `json:"syncedAt"`
}

func encodePatron(p *models.Patron, syncedAt time.Time) ([]byte, error) {
	f := patronFile{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Level:       p.Level,
		HookSize:    p.HookSize,
		YarnAmount:  p.YarnAmount,
		Materials:   p.Materials,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		SyncedAt:    syncedAt,
	}
	if len(p.Image) > 0 {
		f.Image = media.ToPortable(p.Image, "image/jpeg")
	}
	if len(p.PDF) > 0 {
		f.PDF = media.ToPortable(p.PDF, "application/pdf")
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode patron %s: %w", p.ID, err)
	}
	return data, nil
}

func decodePatron(data []byte) (*models.Patron, error) {
	var f patronFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode patron file: %w", err)
	}

	p := &models.Patron{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Level:       f.Level,
		HookSize:    f.HookSize,
		YarnAmount:  f.YarnAmount,
		Materials:   f.Materials,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Image != "" {
		raw, _, err := media.FromPortable(f.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image of %s: %w", f.ID, err)
		}
		p.Image = raw
	}
	if f.PDF != "" {
		raw, _, err := media.FromPortable(f.PDF)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pdf of %s: %w", f.ID, err)
		}
		p.PDF = raw
	}
	return p, nil
}
