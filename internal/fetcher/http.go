package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// OutcomeKind classifies the result of a fetch.
type OutcomeKind int

const (
	// OutcomeDocument means an HTML document was retrieved successfully.
	OutcomeDocument OutcomeKind = iota

	// OutcomeSkipped means the URL was reachable but not crawlable
	// (non-HTML content or a non-2xx status).
	OutcomeSkipped

	// OutcomeFailed means the fetch failed after exhausting retries.
	OutcomeFailed
)

// Skip reasons for OutcomeSkipped.
const (
	SkipNonHTML = "non-html"
	SkipNon2xx  = "non-2xx"
)

// Outcome is the result of fetching one URL.
type Outcome struct {
	Kind        OutcomeKind
	Body        []byte
	StatusCode  int
	ContentType string
	Size        int64
	FinalURL    string
	SkipReason  string
	Err         error
}

// HTTPFetcher retrieves pages and assets over HTTP with a per-request
// timeout and bounded retries.
type HTTPFetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	maxBody    int64
	userAgent  string
	logger     *slog.Logger
}

// New creates an HTTPFetcher from configuration.
func New(cfg *config.Config, logger *slog.Logger) *HTTPFetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // we decompress ourselves (including brotli)
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !cfg.Fetcher.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= cfg.Fetcher.MaxRedirects {
			return fmt.Errorf("max redirects (%d) reached", cfg.Fetcher.MaxRedirects)
		}
		return nil
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport:     transport,
			CheckRedirect: redirectPolicy,
		},
		timeout:    cfg.Crawler.Timeout,
		maxRetries: cfg.Crawler.MaxRetries,
		retryDelay: cfg.Crawler.RetryDelay,
		maxBody:    cfg.Fetcher.MaxBodySize,
		userAgent:  cfg.Crawler.UserAgent,
		logger:     logger.With("component", "fetcher"),
	}
}

// Fetch retrieves an HTML page. Timeouts and 5xx statuses are retried with
// exponential backoff up to the configured retry budget; 4xx statuses are
// never retried. The returned Outcome is never nil.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) *Outcome {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.retryDelay * time.Duration(1<<(attempt-1))
			f.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return &Outcome{Kind: OutcomeFailed, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		outcome, retryable := f.fetchOnce(ctx, rawURL)
		if outcome != nil {
			return outcome
		}
		lastErr = retryable
	}

	return &Outcome{
		Kind: OutcomeFailed,
		Err:  &types.FetchError{URL: rawURL, Err: lastErr, Retryable: true},
	}
}

// fetchOnce performs a single attempt. It returns a non-nil Outcome when the
// attempt reached a terminal state, or (nil, err) when the attempt should be
// retried.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) (*Outcome, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Outcome{
			Kind: OutcomeFailed,
			Err:  &types.FetchError{URL: rawURL, Err: err},
		}, nil
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		if isRetryableError(err) {
			return nil, err
		}
		return &Outcome{
			Kind: OutcomeFailed,
			Err:  &types.FetchError{URL: rawURL, Err: err},
		}, nil
	}
	defer resp.Body.Close()

	// Retry on 5xx only; 4xx is a terminal skip.
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Outcome{
			Kind:       OutcomeSkipped,
			StatusCode: resp.StatusCode,
			SkipReason: SkipNon2xx,
			FinalURL:   resp.Request.URL.String(),
		}, nil
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := strings.Cut(contentType, ";"); !strings.HasPrefix(strings.TrimSpace(mediaType), "text/html") {
		return &Outcome{
			Kind:        OutcomeSkipped,
			StatusCode:  resp.StatusCode,
			ContentType: strings.TrimSpace(mediaType),
			SkipReason:  SkipNonHTML,
			FinalURL:    resp.Request.URL.String(),
		}, nil
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	return &Outcome{
		Kind:        OutcomeDocument,
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: strings.TrimSpace(mediaType),
		Size:        int64(len(body)),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchBytes retrieves a raw asset body. Assets get a single attempt: a
// missing image is not worth a retry budget.
func (f *HTTPFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &types.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &types.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, "", &types.FetchError{URL: rawURL, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	return body, strings.TrimSpace(mediaType), nil
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() {
	f.client.CloseIdleConnections()
}

// readBody reads a size-capped, decompressed response body.
func (f *HTTPFetcher) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if f.maxBody > 0 {
		reader = io.LimitReader(reader, f.maxBody)
	}

	reader, err := decompressReader(resp, reader)
	if err != nil {
		return nil, err
	}

	return io.ReadAll(reader)
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// isRetryableError checks if a network error warrants a retry.
// Covers timeouts, connection resets, unexpected EOF, and connection refused.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	// Parent-context cancellation is not retryable; a per-request deadline is.
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNRESET) ||
			errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return true
		}
	}
	return false
}
