package sync

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/models"
	"github.com/adubois/patrontheque/internal/remote"
	"github.com/adubois/patrontheque/internal/repositories/metadata"
	"github.com/adubois/patrontheque/internal/repositories/patrons"

	_ "modernc.org/sqlite"
)

// fakeStore is an in-memory ObjectStore with call counters.
type fakeStore struct {
	mu stdsync.Mutex

	folderID   string
	findCalls  int
	findDelay  time.Duration
	findErr    error
	createErr  error
	uploadErr  error
	objects    map[string][]byte // objectID -> content
	objectName map[string]string // objectID -> name
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:    make(map[string][]byte),
		objectName: make(map[string]string),
	}
}

func (f *fakeStore) FindFolder(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	f.findCalls++
	delay, err, id := f.findDelay, f.findErr, f.folderID
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (f *fakeStore) CreateFolder(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.folderID = "created-folder"
	return f.folderID, nil
}

func (f *fakeStore) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	id := "obj-" + name
	f.objects[id] = append([]byte(nil), content...)
	f.objectName[id] = name
	return id, nil
}

func (f *fakeStore) List(ctx context.Context, folderID, nameContains string) ([]remote.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []remote.Object
	for id, name := range f.objectName {
		if nameContains != "" && !strings.Contains(name, nameContains) {
			continue
		}
		result = append(result, remote.Object{ID: id, Name: name})
	}
	return result, nil
}

func (f *fakeStore) Download(ctx context.Context, objectID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.objects[objectID]
	if !ok {
		return nil, errors.New("object not found")
	}
	return content, nil
}

func setupBridge(t *testing.T, store remote.ObjectStore) (*Bridge, patrons.Repository, *events.Bus) {
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
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);
`)
	require.NoError(t, err)

	repo := patrons.NewSQLiteRepository(db)
	meta := metadata.NewSQLiteRepository(db)
	bus := events.NewBus()
	b := NewBridge(store, repo, meta, bus, logging.NewDiscard(), "CrochetPatterns")
	return b, repo, bus
}

func TestEnsureFolder_FindsExisting(t *testing.T) {
	store := newFakeStore()
	store.folderID = "existing"
	b, _, bus := setupBridge(t, store)
	_, readyCh := bus.Subscribe(events.FolderReady)

	id, err := b.EnsureFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "existing", id)
	assert.Equal(t, StateReady, b.State())
	assert.Equal(t, "existing", b.FolderID())

	select {
	case <-readyCh:
	case <-time.After(time.Second):
		t.Fatal("expected folder-ready event")
	}
}

func TestEnsureFolder_CreatesWhenAbsent(t *testing.T) {
	store := newFakeStore()
	b, _, _ := setupBridge(t, store)

	id, err := b.EnsureFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "created-folder", id)
	assert.Equal(t, StateReady, b.State())
}

func TestEnsureFolder_CachesResultAcrossCalls(t *testing.T) {
	store := newFakeStore()
	store.folderID = "existing"
	b, _, _ := setupBridge(t, store)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)
	_, err = b.EnsureFolder(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.findCalls)
}

func TestEnsureFolder_ConcurrentCallsShareOneLookup(t *testing.T) {
	store := newFakeStore()
	store.folderID = "existing"
	store.findDelay = 50 * time.Millisecond
	b, _, _ := setupBridge(t, store)
	ctx := context.Background()

	var wg stdsync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := b.EnsureFolder(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "existing", id)
		}()
	}
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.findCalls)
}

func TestEnsureFolder_FailureParksInErrorState(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("remote down")
	b, _, bus := setupBridge(t, store)
	_, errCh := bus.Subscribe(events.SyncError)

	_, err := b.EnsureFolder(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, b.State())
	assert.Equal(t, "", b.FolderID())

	select {
	case e := <-errCh:
		assert.Contains(t, e.Err, "remote down")
	case <-time.After(time.Second):
		t.Fatal("expected sync-error event")
	}
}

func TestStart_DeliversEventsPublishedRightAfter(t *testing.T) {
	store := newFakeStore()
	store.folderID = "existing"
	b, _, bus := setupBridge(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A restored session publishes the connected event straight after the
	// bridge starts; it must not be lost to a not-yet-registered subscriber.
	b.Start(ctx)
	bus.Publish(events.Event{Kind: events.DriveConnected})

	require.Eventually(t, func() bool {
		return b.FolderID() == "existing" && b.State() == StateReady
	}, 2*time.Second, 10*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.findCalls)
}

func TestStart_SavedEventTriggersUpload(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, repo, bus := setupBridge(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Start(ctx)
	bus.Publish(events.Event{Kind: events.DriveConnected})
	require.Eventually(t, func() bool { return b.FolderID() == "f1" },
		2*time.Second, 10*time.Millisecond)

	_, err := repo.Save(ctx, &models.Patron{
		ID: "11", Name: "Bonnet", Category: models.CategoryVetement, Level: models.LevelDebutant,
	})
	require.NoError(t, err)
	bus.Publish(events.Event{Kind: events.PatronSaved, PatronID: "11"})

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		_, ok := store.objectName["obj-11.json"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUpload_WithoutFolder(t *testing.T) {
	b, _, _ := setupBridge(t, newFakeStore())

	err := b.Upload(context.Background(), &models.Patron{ID: "1", Name: "Test"})
	assert.True(t, errors.Is(err, common.ErrNoFolder))
}

func TestUpload_PushesRecordAndAttachments(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, _, bus := setupBridge(t, store)
	_, okCh := bus.Subscribe(events.SyncSuccess)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	p := &models.Patron{
		ID:       "42",
		Name:     "Écharpe simple",
		Category: models.CategoryAccessoire,
		Level:    models.LevelDebutant,
		Image:    []byte{0xff, 0xd8},
		PDF:      []byte("%PDF"),
	}
	require.NoError(t, b.Upload(ctx, p))

	store.mu.Lock()
	assert.Contains(t, store.objectName, "obj-42.json")
	assert.Contains(t, store.objectName, "obj-42-image")
	assert.Contains(t, store.objectName, "obj-42.pdf")
	store.mu.Unlock()

	select {
	case e := <-okCh:
		assert.Equal(t, "42", e.PatronID)
	case <-time.After(time.Second):
		t.Fatal("expected sync-success event")
	}

	assert.False(t, b.LastSync(ctx).IsZero())
	assert.Equal(t, StateReady, b.State())
}

func TestUpload_SkipsAbsentAttachments(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, _, _ := setupBridge(t, store)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Upload(ctx, &models.Patron{ID: "7", Name: "Sans pièces jointes"}))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.objectName, "obj-7.json")
	assert.NotContains(t, store.objectName, "obj-7-image")
	assert.NotContains(t, store.objectName, "obj-7.pdf")
}

func TestUpload_FailurePublishesErrorAndNoTimestamp(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, _, bus := setupBridge(t, store)
	_, errCh := bus.Subscribe(events.SyncError)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	store.mu.Lock()
	store.uploadErr = errors.New("quota exceeded")
	store.mu.Unlock()

	err = b.Upload(ctx, &models.Patron{ID: "9", Name: "Test"})
	require.Error(t, err)

	select {
	case e := <-errCh:
		assert.Equal(t, "9", e.PatronID)
	case <-time.After(time.Second):
		t.Fatal("expected sync-error event")
	}

	assert.True(t, b.LastSync(ctx).IsZero())
}

func TestSyncAll_ContinuesPastFailingRecords(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, repo, _ := setupBridge(t, store)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		_, err := repo.Save(ctx, &models.Patron{
			ID: id, Name: "P" + id,
			Category: models.CategoryAutre, Level: models.LevelDebutant,
		})
		require.NoError(t, err)
	}

	require.NoError(t, b.SyncAll(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.objectName, 3)
}

func TestFetchAll_RoundTripsRecords(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, _, _ := setupBridge(t, store)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	original := &models.Patron{
		ID:        "5",
		Name:      "Plaid géant",
		Category:  models.CategoryDeco,
		Level:     models.LevelIntermediaire,
		Materials: []string{"Grosse laine"},
		Image:     []byte{0x01, 0x02},
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, b.Upload(ctx, original))

	fetched, err := b.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, fetched, 1)

	got := fetched[0]
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.Category, got.Category)
	assert.Equal(t, original.Materials, got.Materials)
	assert.Equal(t, original.Image, got.Image)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt))
}

func TestFetchAll_SkipsMalformedObjects(t *testing.T) {
	store := newFakeStore()
	store.folderID = "f1"
	b, _, _ := setupBridge(t, store)
	ctx := context.Background()

	_, err := b.EnsureFolder(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Upload(ctx, &models.Patron{ID: "1", Name: "Valide"}))

	store.mu.Lock()
	store.objects["obj-bad.json"] = []byte("{malformed")
	store.objectName["obj-bad.json"] = "bad.json"
	store.mu.Unlock()

	fetched, err := b.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, "1", fetched[0].ID)
}

func TestFetchAll_WithoutFolder(t *testing.T) {
	b, _, _ := setupBridge(t, newFakeStore())

	_, err := b.FetchAll(context.Background())
	assert.True(t, errors.Is(err, common.ErrNoFolder))
}
