package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-vernissage/internal/config"
	"gopkg.in/yaml.v3"
)

// Launch describes the opening night the countdown runs towards.
type Launch struct {
	Title       string    `yaml:"title"`
	Location    string    `yaml:"location"`
	Description string    `yaml:"description"`
	Target      time.Time `yaml:"target"`
	// Reminder is how long before Target calendar clients should notify. Zero disables it.
	Reminder time.Duration `yaml:"reminder"`
}

// Artist is the subject of the About page and of the published vCard.
type Artist struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Website string `yaml:"website"`
	Role    string `yaml:"role"`
	Bio     string `yaml:"bio"`
}

// Photo is one carousel item.
type Photo struct {
	ID     string `yaml:"id"`
	Path   string `yaml:"path"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Aspect returns width / height.
func (p Photo) Aspect() float64 {
	if p.Height == 0 {
		return 1
	}
	return float64(p.Width) / float64(p.Height)
}

// Site is the content of the microsite: one launch, one artist, an ordered photo list
// and the animation tuning.
type Site struct {
	Launch   Launch  `yaml:"launch"`
	Headline string  `yaml:"headline"`
	Artist   Artist  `yaml:"artist"`
	Photos   []Photo `yaml:"photos"`
	Tuning   Tuning  `yaml:"tuning"`
}

// DecodeSite parses a YAML catalog. Tuning keys that are absent keep their defaults.
func DecodeSite(r io.Reader) (*Site, error) {
	site := &Site{Tuning: DefaultTuning()}
	if err := yaml.NewDecoder(r).Decode(site); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSiteParse, err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// Validate checks the fields the pages cannot render without.
func (s *Site) Validate() error {
	if s.Launch.Target.IsZero() {
		return errors.New(config.ErrSiteNoTarget)
	}
	if len(s.Photos) == 0 {
		return errors.New(config.ErrSiteNoPhotos)
	}

	seen := make(map[string]struct{}, len(s.Photos))
	for _, p := range s.Photos {
		if p.ID == "" {
			return fmt.Errorf("%s: %q", config.ErrSitePhotoID, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%s: %q", config.ErrSitePhotoID, p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("%s: %q", config.ErrSitePhotoSize, p.ID)
		}
		if strings.TrimSpace(p.Path) == "" {
			return fmt.Errorf("%s: %q", config.ErrSitePhotoPath, p.ID)
		}
	}
	return s.Tuning.Validate()
}

// SourceConfig tells the loader where the catalog lives.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the .yaml file
	WebURL    string // URL of the .yaml file
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Catalog is a loaded site plus the documents published by the HTTP server.
type Catalog struct {
	Site     *Site
	Calendar []byte
	Card     []byte
}

// key identifies the source a catalog came from.
func (c SourceConfig) key() string {
	if c.Mode == config.SourceModeWeb {
		return c.Mode + "|" + c.WebUser + "@" + c.WebURL
	}
	return c.Mode + "|" + c.LocalPath
}

// Loader reads the site catalog and renders the exported documents.
// A Loader is long-lived: it remembers the source of its last successful
// load, so a web catalog the server reports unchanged is not parsed again.
type Loader struct {
	Clock   Clock       // Stamps the calendar.
	Fetcher SiteFetcher // Used in web mode.

	mu      sync.Mutex
	lastKey string
}

// Load executes the read, parse and export pipeline.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig) (*Catalog, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgLoadStarted)

	// 0. Revalidate only what this loader already holds
	key := cfg.key()
	l.mu.Lock()
	held := l.lastKey == key
	l.mu.Unlock()
	if !held {
		l.forget(cfg)
	}

	// 1. Acquire Data Stream
	reader, base, err := l.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, ErrNotModified) && held {
			log.Info(config.MsgSiteUnchanged)
			return nil, err
		}
		l.forget(cfg)
		return nil, fmt.Errorf("%s: %w", config.ErrSiteRead, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		l.forget(cfg)
		return nil, err
	}

	// 2. Parse & 3. Export
	catalog, err := l.build(reader, base)
	if err != nil {
		l.forget(cfg)
		return nil, err
	}
	site := catalog.Site

	log.Info(config.MsgLoadSuccess,
		config.LogKeyPhotos, len(site.Photos),
		config.LogKeyTarget, site.Launch.Target,
		config.LogKeyDuration, time.Since(start).Milliseconds())

	l.mu.Lock()
	l.lastKey = key
	l.mu.Unlock()
	return catalog, nil
}

func (l *Loader) build(r io.Reader, base string) (*Catalog, error) {
	site, err := DecodeSite(r)
	if err != nil {
		return nil, err
	}
	site.resolvePhotos(base)

	ics, err := LaunchCalendar(site, l.Clock)
	if err != nil {
		return nil, err
	}
	vcf, err := ArtistCard(site.Artist)
	if err != nil {
		return nil, err
	}
	return &Catalog{Site: site, Calendar: ics, Card: vcf}, nil
}

// forget makes the next web fetch unconditional and drops the held source.
func (l *Loader) forget(cfg SourceConfig) {
	l.mu.Lock()
	l.lastKey = ""
	l.mu.Unlock()
	if vc, ok := l.Fetcher.(validatorCache); ok && cfg.Mode == config.SourceModeWeb {
		vc.Forget(cfg.WebURL)
	}
}

// acquireStream opens the configured source. The second result is the base
// that relative photo paths are resolved against.
func (l *Loader) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, string, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, "", errors.New(config.ErrLocalPathEmpty)
		}
		f, err := os.Open(cfg.LocalPath)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", config.ErrSiteOpen, err)
		}
		return f, filepath.Dir(cfg.LocalPath), nil
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, "", errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, "", errors.New(config.ErrFetcherMissing)
		}
		rc, err := l.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
		return rc, cfg.WebURL, err
	default:
		return nil, "", fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// resolvePhotos turns relative photo paths into paths or URLs usable from anywhere.
func (s *Site) resolvePhotos(base string) {
	baseURL, err := url.Parse(base)
	isWeb := err == nil && (baseURL.Scheme == config.SchemeHTTP || baseURL.Scheme == config.SchemeHTTPS)

	for i := range s.Photos {
		p := s.Photos[i].Path
		if p == "" {
			continue
		}
		if isWeb {
			if ref, err := url.Parse(p); err == nil {
				s.Photos[i].Path = baseURL.ResolveReference(ref).String()
			}
			continue
		}
		if u, err := url.Parse(p); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
			continue
		}
		if !filepath.IsAbs(p) {
			s.Photos[i].Path = filepath.Join(base, p)
		}
	}
}
