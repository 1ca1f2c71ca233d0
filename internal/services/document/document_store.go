// Package document covers the one contract this service has with the
// external media host: deleting hosted files when an application is
// removed. Uploads and everything else about storage stay outside.
package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Store deletes a hosted file by its provider public id.
type Store interface {
	Destroy(ctx context.Context, publicID string) error
}

// MediaHostStore talks to the media host's destroy endpoint.
type MediaHostStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMediaHostStore creates a store for the configured media host.
func NewMediaHostStore(baseURL, apiKey string) *MediaHostStore {
	return &MediaHostStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Destroy removes one hosted file. A 404 from the host counts as
// success: the file is gone either way.
func (s *MediaHostStore) Destroy(ctx context.Context, publicID string) error {
	endpoint := fmt.Sprintf("%s/resources/%s", s.baseURL, url.PathEscape(publicID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("media host destroy failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("media host destroy returned status %d", resp.StatusCode)
}

// NoopStore is used when no media host is configured; cascade then only
// removes local metadata.
type NoopStore struct{}

// Destroy does nothing.
func (NoopStore) Destroy(ctx context.Context, publicID string) error {
	return nil
}
