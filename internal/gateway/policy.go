package gateway

import (
	"net/http"
	"path"
	"strings"
)

// Class groups requests by destination; each class maps to one caching
// strategy.
type Class int

const (
	// ClassAPI: external API / auth-provider hosts.
	ClassAPI Class = iota
	// ClassNavigation: top-level page loads.
	ClassNavigation
	// ClassAsset: styles, scripts and images.
	ClassAsset
	// ClassOther: everything else.
	ClassOther
)

// Strategy is how a request class interacts with the cache.
type Strategy int

const (
	// NetworkFirst tries the network and refreshes the cache on success;
	// the cached copy is the fallback.
	NetworkFirst Strategy = iota
	// CacheFirst serves the cached copy when present and only then fetches.
	CacheFirst
)

var assetExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".mjs": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".ico": {},
	".woff": {}, ".woff2": {}, ".ttf": {},
}

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".ico": {},
}

// Policy classifies requests and assigns strategies. APIHosts are suffixes
// matched against the request host.
type Policy struct {
	APIHosts []string
}

// Classify buckets a request by destination. Order matters: API hosts win
// over anything path-based, and asset extensions win over navigation.
func (p Policy) Classify(req *http.Request) Class {
	host := req.URL.Hostname()
	for _, suffix := range p.APIHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return ClassAPI
		}
	}

	ext := strings.ToLower(path.Ext(req.URL.Path))
	if _, ok := assetExtensions[ext]; ok {
		return ClassAsset
	}

	if isNavigation(req) {
		return ClassNavigation
	}

	return ClassOther
}

// StrategyFor returns the caching strategy for a class.
func (p Policy) StrategyFor(c Class) Strategy {
	switch c {
	case ClassAPI, ClassNavigation:
		return NetworkFirst
	default:
		return CacheFirst
	}
}

func isNavigation(req *http.Request) bool {
	if strings.Contains(req.Header.Get("Accept"), "text/html") {
		return true
	}
	pth := req.URL.Path
	return pth == "" || pth == "/" || strings.HasSuffix(pth, "/") || strings.HasSuffix(pth, ".html")
}

func isImage(req *http.Request) bool {
	ext := strings.ToLower(path.Ext(req.URL.Path))
	_, ok := imageExtensions[ext]
	return ok
}
