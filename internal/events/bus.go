// Package events implements a small typed publish/subscribe bus. It replaces
// ad-hoc observer callback lists with per-kind channels and defined payloads.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Kind identifies an event type on the bus.
type Kind string

const (
	// UserChanged fires after sign-in and sign-out.
	UserChanged Kind = "user_changed"
	// DriveConnected fires when an access token for the remote store is granted.
	DriveConnected Kind = "drive_connected"
	// FolderReady fires once the remote folder has been found or created.
	FolderReady Kind = "folder_ready"
	// PatronSaved fires after a record has been persisted locally.
	PatronSaved Kind = "patron_saved"
	// SyncSuccess fires after a record has been uploaded remotely.
	SyncSuccess Kind = "sync_success"
	// SyncError fires when a remote operation fails.
	SyncError Kind = "sync_error"
	// SyncRequested is broadcast when a background sync should run.
	SyncRequested Kind = "sync_requested"
)

// Event is a single notification. PatronID and Err are filled where the kind
// calls for them and empty otherwise.
type Event struct {
	Kind     Kind
	PatronID string
	Err      string
}

const subscriberBuffer = 16

type subscriber struct {
	kind Kind
	ch   chan Event
}

// Bus routes published events to subscribers of the matching kind.
// Publishing never blocks: a subscriber whose buffer is full misses the
// event. All methods are safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]subscriber)}
}

// Subscribe registers interest in one event kind and returns the
// subscription id together with the receiving channel. The id is passed to
// Unsubscribe when the caller is done.
func (b *Bus) Subscribe(kind Kind) (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[id] = subscriber{kind: kind, ch: ch}
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscription and closes its channel. Unknown ids are
// ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(s.ch)
}

// Publish delivers e to every subscriber of e.Kind without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if s.kind != e.Kind {
			continue
		}
		select {
		case s.ch <- e:
		default:
			// subscriber is not keeping up, drop
		}
	}
}
