// Package remote talks to the cloud object store that backs synchronization.
// Two backends implement the same contract: a drive-style REST API and any
// S3-compatible service.
package remote

import "context"

// Object is a remote file reference.
type Object struct {
	ID   string
	Name string
}

// TokenProvider supplies the current bearer token. An empty string means the
// user has not connected the remote store.
type TokenProvider interface {
	AccessToken() string
}

// ObjectStore exposes the folder/file primitives the sync bridge needs.
// Implementations perform one network call per method, with no retries;
// callers decide whether and when to try again.
type ObjectStore interface {
	// FindFolder looks up a folder by exact name and returns its identifier,
	// or "" with a nil error when no such folder exists.
	FindFolder(ctx context.Context, name string) (string, error)

	// CreateFolder creates a folder and returns its identifier.
	CreateFolder(ctx context.Context, name string) (string, error)

	// Upload stores content as a named object inside the folder, replacing
	// nothing (a re-upload creates a new object on backends that allow
	// duplicate names). It returns the new object's identifier.
	Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error)

	// List returns the folder's objects whose name contains nameContains.
	// A single listing call is made; backend paging is not chased.
	List(ctx context.Context, folderID, nameContains string) ([]Object, error)

	// Download fetches an object's content by identifier.
	Download(ctx context.Context, objectID string) ([]byte, error)
}
