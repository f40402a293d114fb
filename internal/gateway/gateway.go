// Package gateway intercepts outbound HTTP requests and serves them through
// a persistent cache, so the application keeps working offline. Each request
// class gets its own strategy (network-first or cache-first); cache buckets
// are named by a version tag and evicted wholesale when the tag changes.
//
// The gateway plugs in as an http.RoundTripper, the closest Go analogue of a
// request-intercepting proxy sitting between the app and the network.
package gateway

import (
	"context"
	"io"
	"net/http"

	"github.com/adubois/patrontheque/internal/events"
	"github.com/adubois/patrontheque/internal/logging"
)

// Command is one of the two inbound control messages the gateway accepts.
type Command int

const (
	// CmdSkipWaiting activates the current cache version immediately,
	// deleting buckets left over from older versions.
	CmdSkipWaiting Command = iota
	// CmdClearCache drops every cache bucket.
	CmdClearCache
)

// Gateway applies the caching policy around an inner RoundTripper.
type Gateway struct {
	next   http.RoundTripper
	store  Store
	policy Policy
	bus    *events.Bus
	log    logging.Logger

	version  string
	commands chan Command
}

func New(next http.RoundTripper, store Store, policy Policy, version string, bus *events.Bus, log logging.Logger) *Gateway {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Gateway{
		next:     next,
		store:    store,
		policy:   policy,
		bus:      bus,
		log:      log,
		version:  version,
		commands: make(chan Command, 4),
	}
}

func (g *Gateway) assetsBucket() string { return "patrons-assets-" + g.version }
func (g *Gateway) pagesBucket() string  { return "patrons-pages-" + g.version }

func (g *Gateway) bucketFor(c Class) string {
	if c == ClassNavigation {
		return g.pagesBucket()
	}
	return g.assetsBucket()
}

func cacheKey(req *http.Request) string {
	return req.Method + " " + req.URL.String()
}

// RoundTrip implements http.RoundTripper.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	class := g.policy.Classify(req)
	bucket := g.bucketFor(class)
	key := cacheKey(req)

	switch g.policy.StrategyFor(class) {
	case NetworkFirst:
		return g.networkFirst(req, bucket, key), nil
	default:
		return g.cacheFirst(req, bucket, key), nil
	}
}

// networkFirst tries the network, refreshing the cached copy on success, and
// falls back to the cache, then to the offline fallbacks.
func (g *Gateway) networkFirst(req *http.Request, bucket, key string) *http.Response {
	resp, err := g.next.RoundTrip(req)
	if err == nil && resp.StatusCode < http.StatusBadRequest {
		return g.cacheResponse(req, bucket, key, resp)
	}
	if err == nil {
		// non-success status: pass through untouched, do not cache
		return resp
	}

	g.log.Debug(req.Context(), "network failed, trying cache", "url", req.URL.String(), "error", err)

	if e, gerr := g.store.Get(req.Context(), bucket, key); gerr == nil && e != nil {
		return fromEntry(req, e)
	}
	return g.offlineFallback(req)
}

// cacheFirst serves the cached copy when present; only a miss reaches the
// network.
func (g *Gateway) cacheFirst(req *http.Request, bucket, key string) *http.Response {
	if e, err := g.store.Get(req.Context(), bucket, key); err == nil && e != nil {
		return fromEntry(req, e)
	}

	resp, err := g.next.RoundTrip(req)
	if err != nil {
		return g.offlineFallback(req)
	}
	if resp.StatusCode < http.StatusBadRequest {
		return g.cacheResponse(req, bucket, key, resp)
	}
	return resp
}

// cacheResponse snapshots resp into the bucket and returns an equivalent
// response whose body is replayable. Cache write failures are logged, never
// surfaced.
func (g *Gateway) cacheResponse(req *http.Request, bucket, key string, resp *http.Response) *http.Response {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		g.log.Warn(req.Context(), "failed to read response body", "url", req.URL.String(), "error", err)
		return g.offlineFallback(req)
	}

	e := &Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}
	if err := g.store.Put(req.Context(), bucket, key, e); err != nil {
		g.log.Warn(req.Context(), "failed to cache response", "url", req.URL.String(), "error", err)
	}

	return synthesize(req, resp.StatusCode, resp.Header, body)
}

// Activate deletes every bucket whose name is not part of the current
// version set. This is the entire eviction policy.
func (g *Gateway) Activate(ctx context.Context) error {
	keep := map[string]struct{}{
		g.assetsBucket(): {},
		g.pagesBucket():  {},
	}

	buckets, err := g.store.Buckets(ctx)
	if err != nil {
		return err
	}
	for _, b := range buckets {
		if _, ok := keep[b]; ok {
			continue
		}
		g.log.Info(ctx, "deleting stale cache bucket", "bucket", b)
		if err := g.store.DeleteBucket(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Commands is the inbound control channel. Send CmdSkipWaiting or
// CmdClearCache; Run consumes them.
func (g *Gateway) Commands() chan<- Command {
	return g.commands
}

// RequestSync broadcasts that a background sync should run. The sync bridge
// picks it up from the bus.
func (g *Gateway) RequestSync() {
	g.bus.Publish(events.Event{Kind: events.SyncRequested})
}

// Run consumes control commands until ctx is done. Intended to run on its
// own goroutine.
func (g *Gateway) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-g.commands:
			switch cmd {
			case CmdSkipWaiting:
				if err := g.Activate(ctx); err != nil {
					g.log.Error(ctx, "activation failed", "error", err)
				}
			case CmdClearCache:
				if err := g.store.Clear(ctx); err != nil {
					g.log.Error(ctx, "cache clear failed", "error", err)
				}
			}
		}
	}
}
