// Package fetch obtains the initial document of a run.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

const (
	opLoad = "load document"

	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 32 << 20

	MetaContentType = "contentType"
	MetaFinalURL    = "finalURL"
)

// Loader fetches pages over http(s) and reads file:// URLs and plain paths
// from disk.
type Loader struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
}

// NewLoader creates a loader with the given request timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "easy-amplify",
		MaxBytes:  DefaultMaxBytes,
	}
}

// Load produces the initial document for rawURL. Every failure is a load
// error.
func (l *Loader) Load(ctx context.Context, rawURL string) (*pipeline.Document, error) {
	if rawURL == "" {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("url is required"))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("parsing url: %w", err))
	}

	switch u.Scheme {
	case "http", "https":
		return l.loadHTTP(ctx, rawURL)
	case "file":
		return l.loadFile(rawURL, u.Path)
	case "":
		return l.loadFile(rawURL, rawURL)
	default:
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) (*pipeline.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("creating request: %w", err))
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	slog.Info("fetching page", "url", rawURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("fetching page: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("unexpected status %s", resp.Status))
	}

	doc, err := l.parse(rawURL, resp.Body)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, err)
	}
	doc.Meta[MetaContentType] = resp.Header.Get("Content-Type")
	doc.Meta[MetaFinalURL] = resp.Request.URL.String()
	return doc, nil
}

func (l *Loader) loadFile(rawURL, path string) (*pipeline.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, fmt.Errorf("opening file: %w", err))
	}
	defer func() { _ = f.Close() }()

	slog.Info("reading page", "path", path)
	doc, err := l.parse(rawURL, f)
	if err != nil {
		return nil, api.LoadError(opLoad, rawURL, err)
	}
	doc.Meta[MetaContentType] = "text/html"
	return doc, nil
}

func (l *Loader) parse(rawURL string, r io.Reader) (*pipeline.Document, error) {
	if l.MaxBytes <= 0 {
		return pipeline.ParseDocument(rawURL, r)
	}

	body, err := readBounded(r, l.MaxBytes)
	if err != nil {
		return nil, err
	}
	return pipeline.ParseDocument(rawURL, bytes.NewReader(body))
}

// readBounded reads at most maxBytes and fails when r holds more.
func readBounded(r io.Reader, maxBytes int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("page exceeds %d bytes", maxBytes)
	}
	return b, nil
}
