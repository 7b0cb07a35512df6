// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
)

// StubMetadata is a test double for [services.MetadataService] returning canned records keyed by query title.
//
// Titles without a record fail with Err, or return nil when Err is unset.
type StubMetadata struct {
	mu      sync.Mutex
	Records map[string]models.Record
	Err     error
	Calls   []string
}

// NewStubMetadata creates a [StubMetadata] serving the given records.
func NewStubMetadata(records ...models.Record) *StubMetadata {
	m := &StubMetadata{Records: make(map[string]models.Record)}
	for _, r := range records {
		m.Records[r.Title] = r
	}
	return m
}

func (m *StubMetadata) Fetch(ctx context.Context, title string) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, title)
	if r, ok := m.Records[title]; ok {
		return &r, nil
	}
	return nil, m.Err
}

func (m *StubMetadata) Name() string { return "stub" }

// CallCount returns the number of Fetch calls observed.
func (m *StubMetadata) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewOMDbServer starts an [httptest.Server] that answers OMDb title lookups from payloads keyed by the t query
// parameter. Unknown titles receive OMDb's "Movie not found!" payload.
func NewOMDbServer(t *testing.T, payloads map[string]map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := payloads[r.URL.Query().Get("t")]
		if !ok {
			payload = map[string]string{"Response": "False", "Error": "Movie not found!"}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)

	return srv
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
