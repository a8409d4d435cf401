package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mensahub/backend/internal/domain"
)

// Fetcher retrieves the raw menu feed from an HTTP(S) URL or a local file.
// It makes exactly one attempt per call; the refresh schedule provides the
// retry cadence.
type Fetcher struct {
	httpClient *http.Client
	source     string
}

// NewFetcher creates a feed fetcher for the given source (URL or file path).
func NewFetcher(source string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		source: source,
	}
}

// Fetch returns the raw bytes of the feed.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(f.source, "http://") || strings.HasPrefix(f.source, "https://") {
		return f.fetchURL(ctx)
	}
	return f.fetchFile()
}

func (f *Fetcher) fetchURL(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MensaHub/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFeedUnavailable, err)
	}

	log.Printf("[Feed] Fetched %d bytes from %s", len(body), f.source)
	return body, nil
}

func (f *Fetcher) fetchFile() ([]byte, error) {
	body, err := os.ReadFile(f.source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	log.Printf("[Feed] Read %d bytes from %s", len(body), f.source)
	return body, nil
}
