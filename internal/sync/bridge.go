// Package sync pushes local records to the remote object store and pulls
// them back. Synchronization is one-way and best-effort: a failed call is
// reported on the event bus and forgotten, with no retry, backoff or queued
// replay. The caller re-triggers when it wants another attempt.
package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/models"
	"github.com/adubois/patrontheque/internal/remote"
	"github.com/adubois/patrontheque/internal/repositories/metadata"
	"github.com/adubois/patrontheque/internal/repositories/patrons"
)

// State is the bridge's lifecycle phase.
type State string

const (
	// StateDisconnected: no access token has been granted yet.
	StateDisconnected State = "disconnected"
	// StateFolderResolving: looking up or creating the remote folder.
	StateFolderResolving State = "folder_resolving"
	// StateReady: folder resolved, transfers may start.
	StateReady State = "ready"
	// StateSyncing: an upload or fetch is in flight.
	StateSyncing State = "syncing"
	// StateError: folder resolution failed; a new trigger is required.
	StateError State = "error"
)

// Bridge coordinates transfers between the local catalog and the remote
// store. The remote folder is resolved once per session and its identifier
// cached in memory; concurrent resolution attempts are collapsed into one
// call via singleflight.
type Bridge struct {
	store      remote.ObjectStore
	patronRepo patrons.Repository
	meta       metadata.Repository
	bus        *events.Bus
	log        logging.Logger
	folderName string
	now        func() time.Time

	mu       stdsync.Mutex
	state    State
	folderID string

	resolve singleflight.Group
}

func NewBridge(store remote.ObjectStore, patronRepo patrons.Repository, meta metadata.Repository,
	bus *events.Bus, log logging.Logger, folderName string) *Bridge {
	if folderName == "" {
		folderName = common.RemoteFolderName
	}
	return &Bridge{
		store:      store,
		patronRepo: patronRepo,
		meta:       meta,
		bus:        bus,
		log:        log,
		folderName: folderName,
		now:        time.Now,
		state:      StateDisconnected,
	}
}

// Start subscribes to the bus and launches the event loop: an access-token
// grant triggers folder resolution, a saved record triggers its upload, and
// a background sync request uploads everything. Subscriptions are taken
// before Start returns, so events published afterwards (a restored session,
// for instance) are never missed; only the select loop runs on its own
// goroutine.
func (b *Bridge) Start(ctx context.Context) {
	connectedID, connected := b.bus.Subscribe(events.DriveConnected)
	savedID, saved := b.bus.Subscribe(events.PatronSaved)
	requestedID, requested := b.bus.Subscribe(events.SyncRequested)

	go func() {
		defer b.bus.Unsubscribe(connectedID)
		defer b.bus.Unsubscribe(savedID)
		defer b.bus.Unsubscribe(requestedID)
		b.loop(ctx, connected, saved, requested)
	}()
}

func (b *Bridge) loop(ctx context.Context, connected, saved, requested <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-connected:
			if _, err := b.EnsureFolder(ctx); err != nil {
				b.log.Error(ctx, "folder resolution failed", "error", err)
			}
		case e := <-saved:
			p, err := b.patronRepo.GetByID(ctx, e.PatronID)
			if err != nil || p == nil {
				continue
			}
			if err := b.Upload(ctx, p); err != nil {
				b.log.Warn(ctx, "background upload failed", "id", e.PatronID, "error", err)
			}
		case <-requested:
			if err := b.SyncAll(ctx); err != nil {
				b.log.Warn(ctx, "background sync failed", "error", err)
			}
		}
	}
}

// State returns the current lifecycle phase.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FolderID returns the cached remote folder identifier, or "".
func (b *Bridge) FolderID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.folderID
}

// LastSync returns the persisted timestamp of the last successful upload,
// or the zero time when nothing has synced yet.
func (b *Bridge) LastSync(ctx context.Context) time.Time {
	raw, err := b.meta.Get(ctx, common.KeyLastSync)
	if err != nil || raw == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// EnsureFolder finds the well-known folder, creating it when absent, and
// caches its identifier for the session. Concurrent callers share one
// network round trip. On failure the bridge parks in StateError until the
// next explicit trigger.
func (b *Bridge) EnsureFolder(ctx context.Context) (string, error) {
	b.mu.Lock()
	if b.folderID != "" {
		id := b.folderID
		b.mu.Unlock()
		return id, nil
	}
	b.state = StateFolderResolving
	b.mu.Unlock()

	v, err, _ := b.resolve.Do("ensure-folder", func() (any, error) {
		id, err := b.store.FindFolder(ctx, b.folderName)
		if err != nil {
			return "", fmt.Errorf("failed to look up folder: %w", err)
		}
		if id != "" {
			b.log.Info(ctx, "remote folder found", "id", id)
			return id, nil
		}

		id, err = b.store.CreateFolder(ctx, b.folderName)
		if err != nil {
			return "", fmt.Errorf("failed to create folder: %w", err)
		}
		b.log.Info(ctx, "remote folder created", "id", id)
		return id, nil
	})
	if err != nil {
		b.setState(StateError)
		b.bus.Publish(events.Event{Kind: events.SyncError, Err: err.Error()})
		return "", err
	}

	id := v.(string)
	b.mu.Lock()
	b.folderID = id
	b.state = StateReady
	b.mu.Unlock()

	b.bus.Publish(events.Event{Kind: events.FolderReady})
	return id, nil
}

// Upload pushes one record: the JSON object named <id>.json, then the image
// and PDF attachments as separate objects. There is no atomicity across the
// three uploads; a mid-way failure can leave the JSON without attachments
// until the next successful upload replaces the set.
func (b *Bridge) Upload(ctx context.Context, p *models.Patron) error {
	b.mu.Lock()
	folderID := b.folderID
	b.mu.Unlock()
	if folderID == "" {
		return common.ErrNoFolder
	}

	b.setState(StateSyncing)
	defer b.setState(StateReady)

	err := b.upload(ctx, folderID, p)
	if err != nil {
		b.bus.Publish(events.Event{Kind: events.SyncError, PatronID: p.ID, Err: err.Error()})
		return err
	}

	if err := b.meta.Set(ctx, common.KeyLastSync, []byte(b.now().UTC().Format(time.RFC3339Nano))); err != nil {
		b.log.Warn(ctx, "failed to persist last-sync timestamp", "error", err)
	}
	b.bus.Publish(events.Event{Kind: events.SyncSuccess, PatronID: p.ID})
	return nil
}

func (b *Bridge) upload(ctx context.Context, folderID string, p *models.Patron) error {
	data, err := encodePatron(p, b.now().UTC())
	if err != nil {
		return err
	}

	if _, err := b.store.Upload(ctx, folderID, p.ID+".json", "application/json", data); err != nil {
		return fmt.Errorf("failed to upload patron json: %w", err)
	}

	if len(p.Image) > 0 {
		if _, err := b.store.Upload(ctx, folderID, p.ID+"-image", "image/jpeg", p.Image); err != nil {
			return fmt.Errorf("failed to upload patron image: %w", err)
		}
	}
	if len(p.PDF) > 0 {
		if _, err := b.store.Upload(ctx, folderID, p.ID+".pdf", "application/pdf", p.PDF); err != nil {
			return fmt.Errorf("failed to upload patron pdf: %w", err)
		}
	}
	return nil
}

// SyncAll uploads every local record sequentially. A failing record is
// reported and skipped; the rest are still attempted.
func (b *Bridge) SyncAll(ctx context.Context) error {
	all, err := b.patronRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error retrieving patrons: %w", err)
	}

	for i := range all {
		if err := b.Upload(ctx, &all[i]); err != nil {
			b.log.Warn(ctx, "upload failed, continuing", "id", all[i].ID, "error", err)
		}
	}
	return nil
}

// FetchAll lists the folder's record objects and downloads each. One listing
// call is made; a malformed object is skipped and the rest are kept.
func (b *Bridge) FetchAll(ctx context.Context) ([]models.Patron, error) {
	b.mu.Lock()
	folderID := b.folderID
	b.mu.Unlock()
	if folderID == "" {
		return nil, common.ErrNoFolder
	}

	b.setState(StateSyncing)
	defer b.setState(StateReady)

	objects, err := b.store.List(ctx, folderID, ".json")
	if err != nil {
		b.bus.Publish(events.Event{Kind: events.SyncError, Err: err.Error()})
		return nil, fmt.Errorf("failed to list remote folder: %w", err)
	}

	result := make([]models.Patron, 0, len(objects))
	for _, obj := range objects {
		data, err := b.store.Download(ctx, obj.ID)
		if err != nil {
			b.log.Warn(ctx, "failed to download remote file, skipping", "name", obj.Name, "error", err)
			continue
		}
		p, err := decodePatron(data)
		if err != nil {
			b.log.Warn(ctx, "malformed remote file, skipping", "name", obj.Name, "error", err)
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}
