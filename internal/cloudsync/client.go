package cloudsync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/transfer"
)

// maxDocumentSize caps the download at 16 MiB.
const maxDocumentSize = 16 << 20

var (
	ErrNotConfigured = apperr.New(apperr.ErrState, "no sync URL configured")
	ErrNoRemoteData  = apperr.New(apperr.ErrNotFound, "no data found at the sync URL, upload an export first")
)

// Client downloads a published export document.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the export at url. token, when set, is
// sent as a bearer token.
func NewClient(url, token string) *Client {
	return &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// URL returns the configured document location.
func (c *Client) URL() string {
	return c.url
}

// Fetch downloads and decodes the remote export document.
func (c *Client) Fetch(ctx context.Context) (*transfer.Document, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoRemoteData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	return transfer.Decode(data)
}
