package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/adubois/patrontheque/internal/logging"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient implements ObjectStore against a drive-style REST API:
// bearer-token authorized queries over /files, multipart uploads (metadata
// part + binary part) and ?alt=media downloads.
//
// Every method checks the token before doing anything; with no token it
// fails without touching the network.
type DriveClient struct {
	baseURL   string
	uploadURL string
	tokens    TokenProvider
	http      *http.Client
	log       logging.Logger
}

func NewDriveClient(baseURL, uploadURL string, tokens TokenProvider, client *http.Client, log logging.Logger) *DriveClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &DriveClient{
		baseURL:   baseURL,
		uploadURL: uploadURL,
		tokens:    tokens,
		http:      client,
		log:       log,
	}
}

type driveFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type driveFileList struct {
	Files []driveFile `json:"files"`
}

func (c *DriveClient) FindFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name='%s' and trashed=false and mimeType='%s'", name, folderMimeType)
	u := c.baseURL + "/files?q=" + url.QueryEscape(q) + "&spaces=drive&fields=" + url.QueryEscape("files(id,name)")

	var list driveFileList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return "", fmt.Errorf("failed to find folder: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].ID, nil
}

func (c *DriveClient) CreateFolder(ctx context.Context, name string) (string, error) {
	token := c.tokens.AccessToken()
	if token == "" {
		return "", common.ErrNoAccessToken
	}

	body, err := json.Marshal(map[string]string{
		"name":     name,
		"mimeType": folderMimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode folder metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files?fields=id", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var created driveFile
	if err := c.do(req, &created); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return created.ID, nil
}

func (c *DriveClient) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error) {
	token := c.tokens.AccessToken()
	if token == "" {
		return "", common.ErrNoAccessToken
	}

	metadata, err := json.Marshal(map[string]any{
		"name":    name,
		"parents": []string{folderID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode file metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="metadata"`},
		"Content-Type":        {"application/json"},
	})
	if err != nil {
		return "", err
	}
	if _, err := part.Write(metadata); err != nil {
		return "", err
	}

	part, err = w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"`},
		"Content-Type":        {mimeType},
	})
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	u := c.uploadURL + "/files?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	var uploaded driveFile
	if err := c.do(req, &uploaded); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return uploaded.ID, nil
}

func (c *DriveClient) List(ctx context.Context, folderID, nameContains string) ([]Object, error) {
	q := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	if nameContains != "" {
		q = fmt.Sprintf("'%s' in parents and name contains '%s' and trashed=false", folderID, nameContains)
	}
	u := c.baseURL + "/files?q=" + url.QueryEscape(q) + "&fields=" + url.QueryEscape("files(id,name)")

	var list driveFileList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	objects := make([]Object, 0, len(list.Files))
	for _, f := range list.Files {
		objects = append(objects, Object{ID: f.ID, Name: f.Name})
	}
	return objects, nil
}

func (c *DriveClient) Download(ctx context.Context, objectID string) ([]byte, error) {
	token := c.tokens.AccessToken()
	if token == "" {
		return nil, common.ErrNoAccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+objectID+"?alt=media", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", objectID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", common.ErrRemoteStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// getJSON performs an authorized GET and decodes the JSON response into v.
func (c *DriveClient) getJSON(ctx context.Context, u string, v any) error {
	token := c.tokens.AccessToken()
	if token == "" {
		return common.ErrNoAccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, v)
}

func (c *DriveClient) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", common.ErrRemoteStatus, resp.Status)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
