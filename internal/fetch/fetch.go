package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ziadkadry99/pagehydrate/internal/content"
)

// DefaultLocation is where a site keeps its content document.
const DefaultLocation = "public/content.json"

// Source loads a content document. Each call performs exactly one read;
// there is no caching and no retry.
type Source interface {
	Load(ctx context.Context) (*content.Document, error)
	Location() string
}

// StatusError reports a non-2xx response from the content endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.URL)
}

// NewSource returns an HTTPSource for http(s) locations and a FileSource
// for everything else.
func NewSource(location string) Source {
	if location == "" {
		location = DefaultLocation
	}
	if IsRemote(location) {
		return NewHTTPSource(location, nil)
	}
	return &FileSource{Path: location}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// HTTPSource fetches the document with one GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client means http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{URL: url, client: client}
}

// Location returns the URL being fetched.
func (s *HTTPSource) Location() string { return s.URL }

// Load performs the GET and decodes the body.
func (s *HTTPSource) Load(ctx context.Context) (*content.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	doc, err := content.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing content from %s: %w", s.URL, err)
	}
	return doc, nil
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

// Location returns the file path being read.
func (s *FileSource) Location() string { return s.Path }

// Load reads and decodes the file. The context is checked before reading.
func (s *FileSource) Load(ctx context.Context) (*content.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening content %s: %w", s.Path, err)
	}
	defer f.Close()

	doc, err := content.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing content from %s: %w", s.Path, err)
	}
	return doc, nil
}

// Static is a Source that always returns the same document. It is used
// when the caller already holds a decoded document.
type Static struct {
	Doc *content.Document
}

// Location identifies the static source.
func (s Static) Location() string { return "static" }

// Load returns the wrapped document.
func (s Static) Load(ctx context.Context) (*content.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Doc, nil
}
