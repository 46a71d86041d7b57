package playlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

// FetchError reports a failed playlist download with a message fit for the
// admin UI banner.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch playlist %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to fetch playlist %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetch downloads the M3U document at url and parses it into content items.
// relayURL, when non-empty, is prefixed to the target URL (CORS-relay
// indirection kept from the original deployment). userAgent is optional.
func Fetch(ctx context.Context, url, relayURL, userAgent string, timeout time.Duration) ([]models.ContentItem, error) {
	target := url
	if relayURL != "" {
		target = strings.TrimSuffix(relayURL, "/") + "/" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return Parse(string(body)), nil
}
