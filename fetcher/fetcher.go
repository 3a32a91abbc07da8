// Package fetcher retrieves service OpenAPI documents over HTTP.
//
// Every failure is classified so the aggregator can report it:
//
//   - *oaserrors.FetchError: the request could not be completed
//   - *oaserrors.ResponseError: the service answered with a non-2xx status
//   - *oaserrors.DecodeError: the body is not a usable OpenAPI document
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/MrLipa/oasaggregate"
	"github.com/MrLipa/oasaggregate/document"
	"github.com/MrLipa/oasaggregate/internal/httputil"
	"github.com/MrLipa/oasaggregate/oaserrors"
)

const (
	// DefaultTimeout bounds a single fetch, including reading the body.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodySize is the largest document accepted (10MB).
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// Fetcher fetches and decodes service documents.
//
// A Fetcher is safe for concurrent use once configured.
type Fetcher struct {
	// HTTPClient is the HTTP client used for requests.
	// If nil, a default client is created on each call.
	// When set, InsecureSkipVerify is ignored (configure TLS on your client's transport).
	HTTPClient *http.Client
	// Timeout bounds each Fetch call. Zero disables the per-call bound
	// and leaves only the context and the client's own timeout.
	Timeout time.Duration
	// UserAgent is the User-Agent header value.
	// Defaults to "oasaggregate/<version>" if not set.
	UserAgent string
	// MaxBodySize is the maximum response body size in bytes.
	// Zero means DefaultMaxBodySize.
	MaxBodySize int64
	// InsecureSkipVerify disables TLS certificate verification.
	// Use with caution - only for internal services with self-signed certs.
	InsecureSkipVerify bool
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger oasaggregate.Logger
}

// New creates a Fetcher with default settings.
func New() *Fetcher {
	return &Fetcher{
		Timeout:     DefaultTimeout,
		UserAgent:   oasaggregate.UserAgent(),
		MaxBodySize: DefaultMaxBodySize,
	}
}

func (f *Fetcher) log() oasaggregate.Logger {
	return oasaggregate.OrNop(f.Logger)
}

func (f *Fetcher) client() *http.Client {
	if f.HTTPClient != nil {
		if f.InsecureSkipVerify {
			f.log().Warn("InsecureSkipVerify ignored when HTTPClient provided; configure TLS on your client's transport")
		}
		return f.HTTPClient
	}
	if f.InsecureSkipVerify {
		return &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, //nolint:gosec // operator explicitly requested insecure mode
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
	}
	return &http.Client{}
}

// Fetch retrieves the document at rawURL and extracts its paths and
// components.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*document.Source, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &oaserrors.FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = oasaggregate.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	start := time.Now()
	resp, err := f.client().Do(req) //nolint:gosec // G107: URL comes from the operator's registry
	if err != nil {
		return nil, &oaserrors.FetchError{URL: rawURL, Message: "request failed", Cause: unwrapURLError(err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !httputil.IsSuccessStatus(resp.StatusCode) {
		return nil, &oaserrors.ResponseError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	maxSize := f.MaxBodySize
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, &oaserrors.FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(data)) > maxSize {
		return nil, &oaserrors.DecodeError{URL: rawURL, Message: fmt.Sprintf("document exceeds maximum size of %d bytes", maxSize)}
	}

	format := detectFormat(rawURL, resp.Header.Get("Content-Type"))
	src, err := document.ParseSource(data, format)
	if err != nil {
		var decErr *oaserrors.DecodeError
		if errors.As(err, &decErr) {
			decErr.URL = rawURL
		}
		return nil, err
	}

	f.log().Debug("fetched document",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(data),
		"format", string(format),
		"paths", len(src.Paths),
		"elapsed", time.Since(start))
	return src, nil
}

// detectFormat picks YAML when the response or the URL path says so and
// JSON otherwise.
func detectFormat(rawURL, contentType string) document.Format {
	if httputil.IsYAMLContentType(contentType) {
		return document.FormatYAML
	}
	if u, err := url.Parse(rawURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".yaml", ".yml":
			return document.FormatYAML
		}
	}
	return document.FormatJSON
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the
// method and URL that FetchError already carries.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
