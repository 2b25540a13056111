package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/tartampluch/go-vernissage/internal/config"
)

// ErrNotModified is returned when the server confirms the catalog has not
// changed since the last successful download.
var ErrNotModified = errors.New(config.ErrNotModified)

// SiteFetcher retrieves a remote site catalog.
type SiteFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// validatorCache is implemented by fetchers that revalidate with ETags.
// Forget drops the validator so the next Fetch of url is unconditional.
type validatorCache interface {
	Forget(url string)
}

// HTTPFetcher downloads YAML catalogs and remembers their ETag, so periodic
// reloads of an unchanged catalog cost a 304.
type HTTPFetcher struct {
	Client *http.Client

	mu    sync.Mutex
	etags map[string]string // Keyed by catalog URL.
}

// NewHTTPFetcher creates a fetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		etags: make(map[string]string),
	}
}

// Fetch downloads the catalog at targetURL.
// It returns ErrNotModified when the stored ETag still matches, and rejects
// responses whose Content-Type cannot be a YAML document (an HTML login
// page, typically). The body is capped at config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query parameters may carry tokens.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestBuild, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptYAML)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}
	etag := f.etag(targetURL)
	if etag != "" {
		req.Header.Set(config.HeaderIfNoneMatch, etag)
	}
	log.Debug(config.MsgFetchStart, slog.String(config.LogKeyETag, etag))

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		_ = resp.Body.Close()
		log.Info(config.MsgFetchUnchanged)
		return nil, ErrNotModified
	default:
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrHTTPStatus, resp.StatusCode, resp.Status)
	}

	if ct := resp.Header.Get(config.HeaderContentType); !isYAMLContentType(ct) {
		_ = resp.Body.Close()
		log.Warn(config.ErrContentType, slog.String(config.LogKeyMIME, ct))
		return nil, fmt.Errorf("%s: %q", config.ErrContentType, ct)
	}

	f.remember(targetURL, resp.Header.Get(config.HeaderETag))
	log.Info(config.MsgFetchBody, slog.Int64(config.LogKeyLength, resp.ContentLength))

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// Forget drops the validator stored for targetURL.
func (f *HTTPFetcher) Forget(targetURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.etags, targetURL)
}

func (f *HTTPFetcher) etag(targetURL string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.etags[targetURL]
}

func (f *HTTPFetcher) remember(targetURL, etag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.etags == nil {
		f.etags = make(map[string]string)
	}
	if etag == "" {
		delete(f.etags, targetURL)
		return
	}
	f.etags[targetURL] = etag
}

// isYAMLContentType accepts the YAML media types plus the generic ones
// static hosts commonly serve .yaml files with. A missing header is accepted.
func isYAMLContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return slices.Contains(config.YAMLMediaTypes, mediaType)
}

// limitedReadCloser reads through a size limit but closes the underlying body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
