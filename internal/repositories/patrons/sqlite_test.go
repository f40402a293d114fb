package patrons

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adubois/patrontheque/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE patrons (
  id          TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  category    TEXT NOT NULL,
  level       TEXT NOT NULL,
  hook_size   TEXT NOT NULL DEFAULT '',
  yarn_amount INTEGER NOT NULL DEFAULT 0,
  materials   TEXT NOT NULL DEFAULT '[]',
  description TEXT NOT NULL DEFAULT '',
  image       BLOB,
  pdf         BLOB,
  created_at  TEXT NOT NULL,
  updated_at  TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func samplePatron(id string) *models.Patron {
	return &models.Patron{
		ID:          id,
		Name:        "Bonnet d'hiver",
		Category:    models.CategoryAccessoire,
		Level:       models.LevelDebutant,
		HookSize:    "5",
		YarnAmount:  120,
		Materials:   []string{"Laine mérinos", "Pompon"},
		Description: "Un bonnet chaud et rapide à crocheter.",
		Image:       []byte{0xff, 0xd8, 0x01},
		PDF:         []byte("%PDF-1.4"),
	}
}

func TestSave_InsertThenGetByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := samplePatron("id1")
	id, err := r.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "id1", id)

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Category, got.Category)
	assert.Equal(t, p.Level, got.Level)
	assert.Equal(t, p.HookSize, got.HookSize)
	assert.Equal(t, p.YarnAmount, got.YarnAmount)
	assert.Equal(t, p.Materials, got.Materials)
	assert.Equal(t, p.Description, got.Description)
	assert.Equal(t, p.Image, got.Image)
	assert.Equal(t, p.PDF, got.PDF)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSave_UpdateKeepsCreatedAtMovesUpdatedAt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	p := samplePatron("id1")
	_, err := r.Save(ctx, p)
	require.NoError(t, err)

	r.now = func() time.Time { return base.Add(time.Hour) }
	p.Name = "Bonnet révisé"
	_, err = r.Save(ctx, p)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Bonnet révisé", got.Name)
	assert.Equal(t, base, got.CreatedAt)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)
}

func TestGetByID_NotExists_ReturnsNilNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.GetByID(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAll_OrderedByCreation(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		offset := time.Duration(i) * time.Minute
		r.now = func() time.Time { return base.Add(offset) }
		p := samplePatron(id)
		_, err := r.Save(ctx, p)
		require.NoError(t, err)
	}

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestGetByCategory_FiltersOtherCategories(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p1 := samplePatron("id1")
	p1.Category = models.CategoryAmigurumi
	p2 := samplePatron("id2")
	p2.Category = models.CategoryDeco

	_, err := r.Save(ctx, p1)
	require.NoError(t, err)
	_, err = r.Save(ctx, p2)
	require.NoError(t, err)

	list, err := r.GetByCategory(ctx, models.CategoryAmigurumi)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id1", list[0].ID)
}

func TestGetByLevel_FiltersOtherLevels(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p1 := samplePatron("id1")
	p1.Level = models.LevelAvance
	p2 := samplePatron("id2")
	p2.Level = models.LevelDebutant

	_, err := r.Save(ctx, p1)
	require.NoError(t, err)
	_, err = r.Save(ctx, p2)
	require.NoError(t, err)

	list, err := r.GetByLevel(ctx, models.LevelAvance)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id1", list[0].ID)
}

func TestDeleteByID_RemovesRowAndIsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Save(ctx, samplePatron("id1"))
	require.NoError(t, err)

	require.NoError(t, r.DeleteByID(ctx, "id1"))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting again is not an error
	require.NoError(t, r.DeleteByID(ctx, "id1"))
}

func TestClear_RemovesEverything(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Save(ctx, samplePatron("id1"))
	require.NoError(t, err)
	_, err = r.Save(ctx, samplePatron("id2"))
	require.NoError(t, err)

	require.NoError(t, r.Clear(ctx))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
