package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/cors"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// cacheItem stores a rendered document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	mime         string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// document is one published route. Reads are lock-free: documents change
// only when the catalog reloads, but browsers poll them continuously.
type document struct {
	cache atomic.Pointer[cacheItem]
}

// SiteServer publishes the launch calendar, the artist card and the live
// countdown to browsers on the loopback interface.
type SiteServer struct {
	Port string

	documents map[string]*document
	feed      *Feed
}

// NewSiteServer creates a server with empty documents.
// Document routes answer 503 until their first Update.
func NewSiteServer(port string) *SiteServer {
	return &SiteServer{
		Port: port,
		documents: map[string]*document{
			config.RouteLaunch: {},
			config.RouteArtist: {},
		},
		feed: NewFeed(),
	}
}

// Feed returns the countdown broadcaster.
func (s *SiteServer) Feed() *Feed {
	return s.feed
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *SiteServer) Handler() http.Handler {
	mux := http.NewServeMux()
	for route, doc := range s.documents {
		mux.HandleFunc(route, doc.serve)
	}
	mux.HandleFunc(config.RouteCountdown, s.feed.serveSnapshot)
	mux.HandleFunc(config.RouteCountdownWS, s.feed.serveStream)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	return c.Handler(mux)
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *SiteServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		s.feed.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the document served on route.
// Unknown routes are ignored.
func (s *SiteServer) Update(route string, data []byte, mime string) {
	doc, ok := s.documents[route]
	if !ok {
		return
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	doc.cache.Store(&cacheItem{
		data:         data,
		mime:         mime,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// serve writes the cached document with HTTP caching support.
func (d *document) serve(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if !allowMethod(w, r) {
		return
	}

	// 2. Readiness Check
	item := d.cache.Load()
	if item == nil {
		notReady(w)
		return
	}

	// 3. Response Headers
	w.Header().Set(config.HeaderContentType, item.mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// 4. Conditional Headers
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	// 5. Body
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// allowMethod rejects everything but GET and HEAD with 405.
func allowMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// notReady answers 503 with a retry hint.
func notReady(w http.ResponseWriter) {
	w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
	http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
}
