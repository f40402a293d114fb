package gateway

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// placeholderSVG is served in place of images that are neither reachable nor
// cached.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text y="50" font-size="50" text-anchor="middle" x="50">📷</text></svg>`

// synthesize builds an *http.Response from raw parts, for cached entries and
// offline fallbacks alike.
func synthesize(req *http.Request, status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func fromEntry(req *http.Request, e *Entry) *http.Response {
	return synthesize(req, e.Status, e.Header.Clone(), e.Body)
}

// offlineFallback is the last resort when both network and cache come up
// empty: navigations get the cached home shell, images get a placeholder
// graphic, everything else a synthetic unavailable response.
func (g *Gateway) offlineFallback(req *http.Request) *http.Response {
	if g.policy.Classify(req) == ClassNavigation {
		if shell := g.homeShell(req); shell != nil {
			return shell
		}
	}

	if isImage(req) {
		header := http.Header{}
		header.Set("Content-Type", "image/svg+xml")
		return synthesize(req, http.StatusOK, header, []byte(placeholderSVG))
	}

	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	return synthesize(req, http.StatusServiceUnavailable, header, []byte("Offline - Resource not available"))
}

// homeShell returns the cached copy of the site root for the request's host,
// or nil when none is cached.
func (g *Gateway) homeShell(req *http.Request) *http.Response {
	home := *req.URL
	home.Path = "/"
	home.RawQuery = ""

	e, err := g.store.Get(req.Context(), g.pagesBucket(), http.MethodGet+" "+home.String())
	if err != nil || e == nil {
		return nil
	}
	return fromEntry(req, e)
}
