package patrons

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adubois/patrontheque/internal/dbx"
	"github.com/adubois/patrontheque/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Timestamps are stored as RFC 3339 text so rows stay readable
// with any sqlite tooling; materials are stored as a JSON array.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const patronColumns = `id, name, category, level, hook_size, yarn_amount, materials, description, image, pdf, created_at, updated_at`

// Save upserts a patron by id. On conflict all columns except id and
// created_at are replaced. UpdatedAt is stamped here so every write, insert
// or replace, moves it forward.
func (r *SQLiteRepository) Save(ctx context.Context, p *models.Patron) (string, error) {
	materials, err := json.Marshal(p.Materials)
	if err != nil {
		return "", fmt.Errorf("failed to encode materials: %w", err)
	}

	p.UpdatedAt = r.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	query := `INSERT INTO patrons (` + patronColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			category = excluded.category,
			level = excluded.level,
			hook_size = excluded.hook_size,
			yarn_amount = excluded.yarn_amount,
			materials = excluded.materials,
			description = excluded.description,
			image = excluded.image,
			pdf = excluded.pdf,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, string(p.Category), string(p.Level), p.HookSize, p.YarnAmount,
		string(materials), p.Description, p.Image, p.PDF,
		p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to upsert patron: %w", err)
	}
	return p.ID, nil
}

// GetByID returns a single patron, or (nil, nil) when no row matches.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Patron, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patronColumns+` FROM patrons WHERE id = ?`, id)

	p, err := scanPatron(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patron[%s]: %w", id, err)
	}
	return p, nil
}

// GetAll lists every patron, oldest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Patron, error) {
	return r.queryPatrons(ctx, `SELECT `+patronColumns+` FROM patrons ORDER BY created_at`)
}

// GetByCategory lists patrons in the given category via the category index.
func (r *SQLiteRepository) GetByCategory(ctx context.Context, c models.Category) ([]models.Patron, error) {
	return r.queryPatrons(ctx,
		`SELECT `+patronColumns+` FROM patrons WHERE category = ? ORDER BY created_at`, string(c))
}

// GetByLevel lists patrons at the given skill level via the level index.
func (r *SQLiteRepository) GetByLevel(ctx context.Context, l models.Level) ([]models.Patron, error) {
	return r.queryPatrons(ctx,
		`SELECT `+patronColumns+` FROM patrons WHERE level = ? ORDER BY created_at`, string(l))
}

// DeleteByID removes a patron by id. Absent rows are not an error.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patrons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patron[%s]: %w", id, err)
	}
	return nil
}

// Clear removes all patrons.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patrons`)
	if err != nil {
		return fmt.Errorf("failed to clear patrons: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryPatrons(ctx context.Context, query string, args ...any) ([]models.Patron, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select patrons: %w", err)
	}
	defer rows.Close()

	var result []models.Patron
	for rows.Next() {
		p, err := scanPatron(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patron row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patron rows: %w", err)
	}
	return result, nil
}

func scanPatron(scan func(dest ...any) error) (*models.Patron, error) {
	var (
		p                    models.Patron
		category, level      string
		materials            string
		createdAt, updatedAt string
	)

	err := scan(&p.ID, &p.Name, &category, &level, &p.HookSize, &p.YarnAmount,
		&materials, &p.Description, &p.Image, &p.PDF, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.Category = models.Category(category)
	p.Level = models.Level(level)

	if err := json.Unmarshal([]byte(materials), &p.Materials); err != nil {
		return nil, fmt.Errorf("failed to decode materials: %w", err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &p, nil
}
