package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	stdsync "sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/adubois/patrontheque/internal/config"
	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/filex"
	"github.com/adubois/patrontheque/internal/gateway"
	"github.com/adubois/patrontheque/internal/logging"
	"github.com/adubois/patrontheque/internal/remote"
	"github.com/adubois/patrontheque/internal/repositories/metadata"
	"github.com/adubois/patrontheque/internal/repositories/patrons"
	"github.com/adubois/patrontheque/internal/seed"
	"github.com/adubois/patrontheque/internal/services"
	"github.com/adubois/patrontheque/internal/session"
	"github.com/adubois/patrontheque/internal/store"
	syncbridge "github.com/adubois/patrontheque/internal/sync"
)

// Mode reflects remote reachability as seen by the periodic probe.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires every service together and drives the REPL. All collaborators
// are constructed here and passed by reference; nothing is a package-level
// singleton.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	bus     *events.Bus
	meta    metadata.Repository
	patrons services.PatronService
	session *session.Manager
	bridge  *syncbridge.Bridge
	gateway *gateway.Gateway
	client  *http.Client

	modeMu stdsync.Mutex
	mode   Mode

	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, filepath.Join(dir, "patrons.db"))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	bus := events.NewBus()
	metaRepo := metadata.NewSQLiteRepository(db)
	patronRepo := patrons.NewSQLiteRepository(db)
	patronSvc := services.NewPatronService(patronRepo, bus, log)
	sess := session.NewManager(metaRepo, bus, log)

	cacheStore, err := newCacheStore(cfg, db)
	if err != nil {
		return nil, err
	}
	gw := gateway.New(nil, cacheStore, gateway.Policy{APIHosts: cfg.APIHosts}, cfg.CacheVersion, bus, log)
	client := &http.Client{Transport: gw}

	app := &App{
		config:  cfg,
		log:     log,
		db:      db,
		bus:     bus,
		meta:    metaRepo,
		patrons: patronSvc,
		session: sess,
		gateway: gw,
		client:  client,
		mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
	}

	objectStore, err := newObjectStore(ctx, cfg, sess, client, log)
	if err != nil {
		return nil, err
	}
	if objectStore != nil {
		app.bridge = syncbridge.NewBridge(objectStore, patronRepo, metaRepo, bus, log, cfg.RemoteFolderName)
	}

	return app, nil
}

func newCacheStore(cfg *config.Config, db *sql.DB) (gateway.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheSQLite:
		return gateway.NewSQLiteStore(db), nil
	case config.CacheRedis:
		return gateway.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})), nil
	case config.CacheNone:
		return gateway.NoOpStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config, tokens remote.TokenProvider,
	client *http.Client, log logging.Logger) (remote.ObjectStore, error) {
	switch cfg.RemoteBackend {
	case config.RemoteDrive:
		return remote.NewDriveClient(cfg.DriveBaseURL, cfg.DriveUploadURL, tokens, client, log), nil
	case config.RemoteS3:
		return remote.NewS3Store(ctx, remote.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		}, log)
	case config.RemoteNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}

// Run starts the background loops, restores the previous session, seeds the
// catalog on first run and enters the REPL. It returns when the user exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.gateway.Run(ctx)
	// Bridge subscriptions must be in place before Restore republishes the
	// persisted drive token, or the connected event is dropped unheard.
	if a.bridge != nil {
		a.bridge.Start(ctx)
	}
	go a.startOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	if a.config.SeedSampleData {
		if err := seed.Load(ctx, a.patrons, a.meta, a.log); err != nil {
			a.log.Warn(ctx, "seeding failed", "error", err)
		}
	}

	a.Root(ctx)
	return a.db.Close()
}

// Mode reports remote reachability. Safe to call from the REPL while the
// watcher goroutine updates it.
func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()
	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// startOnlineStatusWatcher probes the remote endpoint on a ticker and flips
// the mode accordingly. The probe bypasses the gateway: it measures
// reachability, not cache contents.
func (a *App) startOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := &http.Client{}

	for {
		select {
		case <-ticker.C:
			reqCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, a.config.DriveBaseURL, nil)
			if err != nil {
				cancel()
				continue
			}
			resp, err := probe.Do(req)
			cancel()
			if err != nil {
				a.setMode(ctx, ModeOffline)
				continue
			}
			resp.Body.Close()
			a.setMode(ctx, ModeOnline)

		case <-ctx.Done():
			return
		}
	}
}
