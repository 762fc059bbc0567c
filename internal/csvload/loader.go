package csvload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrEmptySource is returned when Load is called without a source.
var ErrEmptySource = errors.New("csv source is empty")

// FetchError indicates the source could not be retrieved.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Loader retrieves CSV resources over HTTP or from disk. It does not cache or retry.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLoader returns a loader whose HTTP client times out after timeout (60s if <= 0).
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return NewLoaderWithClient(&http.Client{Timeout: timeout})
}

// NewLoaderWithClient allows injecting a custom HTTP client (used in tests).
func NewLoaderWithClient(c *http.Client) *Loader {
	if c == nil {
		c = http.DefaultClient
	}
	return &Loader{httpClient: c, logger: slog.Default()}
}

// WithLogger sets the logger used for fetch diagnostics.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load fetches source and parses it. Sources starting with http:// or https://
// are fetched with a single GET; file:// URLs and plain paths are read from disk.
// Sources ending in .xlsx are read as workbooks (first sheet).
func (l *Loader) Load(ctx context.Context, source string) (*Table, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}
	start := time.Now()
	body, err := l.fetch(ctx, source)
	if err != nil {
		l.logger.WarnContext(ctx, "csv fetch failed", slog.String("source", source), slog.Any("error", err))
		return nil, err
	}
	var t *Table
	if isWorkbook(source) {
		t, err = ParseXLSX(bytes.NewReader(body), "")
	} else {
		t, err = Parse(bytes.NewReader(body))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	l.logger.DebugContext(ctx, "csv loaded",
		slog.String("source", source),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns)),
		slog.Duration("elapsed", time.Since(start)))
	return t, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return l.fetchHTTP(ctx, source)
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, &FetchError{Source: source, Err: err}
		}
		return readFile(ctx, source, u.Path)
	default:
		return readFile(ctx, source, source)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(b)))}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func readFile(ctx context.Context, source, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	return b, nil
}
