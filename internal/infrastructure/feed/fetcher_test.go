package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mensahub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "MensaHub/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("<DATAPACKET/>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 5*time.Second)

	body, err := fetcher.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("<DATAPACKET/>"), body)
}

func TestFetch_URLErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			fetcher := NewFetcher(server.URL, 5*time.Second)

			body, err := fetcher.Fetch(context.Background())

			assert.Nil(t, body)
			assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
		})
	}
}

func TestFetch_ConnectionFailure(t *testing.T) {
	// Grab a port that nothing is listening on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher(url, time.Second)

	_, err := fetcher.Fetch(context.Background())

	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(path, []byte("<DATAPACKET/>"), 0o644))

	fetcher := NewFetcher(path, time.Second)

	body, err := fetcher.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("<DATAPACKET/>"), body)
}

func TestFetch_LocalFileMissing(t *testing.T) {
	fetcher := NewFetcher(filepath.Join(t.TempDir(), "missing.xml"), time.Second)

	body, err := fetcher.Fetch(context.Background())

	assert.Nil(t, body)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}
