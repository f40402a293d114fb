package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/logging"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, token string) (*DriveClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewDriveClient(srv.URL, srv.URL, staticTokens(token), srv.Client(), logging.NewDiscard())
	return c, srv
}

func TestDriveClient_NoToken_NoNetworkCall(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), "")
	ctx := context.Background()

	_, err := c.FindFolder(ctx, "CrochetPatterns")
	assert.True(t, errors.Is(err, common.ErrNoAccessToken))

	_, err = c.CreateFolder(ctx, "CrochetPatterns")
	assert.True(t, errors.Is(err, common.ErrNoAccessToken))

	_, err = c.Upload(ctx, "folder", "a.json", "application/json", []byte("{}"))
	assert.True(t, errors.Is(err, common.ErrNoAccessToken))

	_, err = c.List(ctx, "folder", ".json")
	assert.True(t, errors.Is(err, common.ErrNoAccessToken))

	_, err = c.Download(ctx, "obj")
	assert.True(t, errors.Is(err, common.ErrNoAccessToken))

	assert.False(t, called, "no request should reach the network without a token")
}

func TestFindFolder_QueryAndResult(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/files", r.URL.Path)

		q := r.URL.Query().Get("q")
		assert.Contains(t, q, "name='CrochetPatterns'")
		assert.Contains(t, q, "trashed=false")
		assert.Contains(t, q, "application/vnd.google-apps.folder")

		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{{"id": "folder-1", "name": "CrochetPatterns"}},
		})
	}), "tok")

	id, err := c.FindFolder(context.Background(), "CrochetPatterns")
	require.NoError(t, err)
	assert.Equal(t, "folder-1", id)
}

func TestFindFolder_AbsentIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	}), "tok")

	id, err := c.FindFolder(context.Background(), "CrochetPatterns")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestCreateFolder_SendsFolderMetadata(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "id", r.URL.Query().Get("fields"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CrochetPatterns", body["name"])
		assert.Equal(t, "application/vnd.google-apps.folder", body["mimeType"])

		json.NewEncoder(w).Encode(map[string]string{"id": "folder-2"})
	}), "tok")

	id, err := c.CreateFolder(context.Background(), "CrochetPatterns")
	require.NoError(t, err)
	assert.Equal(t, "folder-2", id)
}

func TestUpload_MultipartMetadataAndContent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
		assert.Equal(t, "id", r.URL.Query().Get("fields"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])

		part, err := mr.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "metadata", part.FormName())
		var meta struct {
			Name    string   `json:"name"`
			Parents []string `json:"parents"`
		}
		require.NoError(t, json.NewDecoder(part).Decode(&meta))
		assert.Equal(t, "123.json", meta.Name)
		assert.Equal(t, []string{"folder-1"}, meta.Parents)

		part, err = mr.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		assert.Equal(t, "application/json", part.Header.Get("Content-Type"))
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"id":"123"}`), content)

		json.NewEncoder(w).Encode(map[string]string{"id": "obj-1"})
	}), "tok")

	id, err := c.Upload(context.Background(), "folder-1", "123.json", "application/json", []byte(`{"id":"123"}`))
	require.NoError(t, err)
	assert.Equal(t, "obj-1", id)
}

func TestList_FiltersByParentAndName(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		assert.Contains(t, q, "'folder-1' in parents")
		assert.Contains(t, q, "name contains '.json'")

		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{
				{"id": "o1", "name": "1.json"},
				{"id": "o2", "name": "2.json"},
			},
		})
	}), "tok")

	objects, err := c.List(context.Background(), "folder-1", ".json")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, Object{ID: "o1", Name: "1.json"}, objects[0])
	assert.Equal(t, Object{ID: "o2", Name: "2.json"}, objects[1])
}

func TestDownload_UsesAltMedia(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/obj-1", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Write([]byte("payload"))
	}), "tok")

	data, err := c.Download(context.Background(), "obj-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestRemoteErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}), "expired")

	_, err := c.FindFolder(context.Background(), "CrochetPatterns")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteStatus))

	_, err = c.Download(context.Background(), "obj-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteStatus))
}
