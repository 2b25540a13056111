package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used to fetch remote site catalogs.
var UserAgent = "Go-Vernissage/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Vernissage"
	AppID             = "com.github.tartampluch.go-vernissage"
	KeyringService    = "com.github.tartampluch.go-vernissage"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	// SnapshotBufferSize is the queue length of a countdown subscriber.
	SnapshotBufferSize = 4
)

// -----------------------------------------------------------------------------
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagSite         = "site"
	FlagOffset       = "offset"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescSite     = "Path or http(s) URL of the site catalog (YAML)"
	FlagDescOffset   = "Shift the clock by this duration (e.g. 72h) to preview the countdown"
	MsgVersionOutput = "%s version %s (%s/%s)\n"

	EnvSite   = "VERNISSAGE_SITE"
	EnvOffset = "VERNISSAGE_OFFSET"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	MainWindowWidth     = 960
	MainWindowHeight    = 640

	// Preference Keys
	PrefLanguage   = "language"
	PrefInterval   = "refresh_interval_min"
	PrefServerPort = "server_port"
	PrefSourceMode = "source_mode"
	PrefLocalPath  = "local_path"
	PrefSiteURL    = "site_url"
	PrefUsername   = "username"
	PrefLastRun    = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// YAMLMediaTypes are the response types a remote catalog may be served with.
var YAMLMediaTypes = []string{
	"application/yaml",
	"application/x-yaml",
	"text/yaml",
	"text/x-yaml",
	"text/plain",
	"application/octet-stream",
}

// -----------------------------------------------------------------------------
// Pages
// -----------------------------------------------------------------------------

const (
	PageTeaser     = "teaser"
	PageExhibition = "exhibition"
	PageGallery    = "gallery"
	PageAbout      = "about"

	// CaptionFormat renders "current / total" below the carousel.
	CaptionFormat = "%d / %d"
	// ViewerCaptionFormat prefixes it with the photo title in the viewer.
	ViewerCaptionFormat = "%s  %d / %d"

	// Photo viewer and gallery grid geometry.
	ViewerMargin        = 48
	ViewerCaptionHeight = 36
	ViewerBackdropAlpha = 230
	ThumbWidth          = 180
	ThumbHeight         = 150

	// CountdownFormat renders days, hours, minutes and seconds.
	CountdownFormat = "%02d:%02d:%02d:%02d"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle      = "win_title"
	TKeyWinSettings   = "win_settings_title"
	TKeyTabTeaser     = "tab_teaser"
	TKeyTabExhibition = "tab_exhibition"
	TKeyTabGallery    = "tab_gallery"
	TKeyTabAbout      = "tab_about"
	TKeyMenuSettings  = "menu_settings"
	TKeyMenuRefresh   = "menu_refresh"
	TKeyCountdownLbl  = "lbl_countdown"
	TKeyCountdownOpen = "lbl_countdown_open"
	TKeyCountdownUnit = "lbl_countdown_units"
	TKeyAddCalendar   = "link_add_calendar"
	TKeySaveContact   = "link_save_contact"
	TKeyNoPhotos      = "lbl_no_photos"
	TKeyLblLanguage   = "lbl_language"
	TKeyHelpLanguage  = "help_language"
	TKeyLblMinutes    = "lbl_minutes_suffix"
	TKeyLblRefresh    = "lbl_refresh_interval"
	TKeyHelpInterval  = "help_interval"
	TKeyLblPort       = "lbl_server_port"
	TKeyHelpPort      = "help_port"
	TKeyLblGeneral    = "lbl_general"
	TKeyLblSource     = "lbl_source"
	TKeyModeWeb       = "mode_web"
	TKeyModeLocal     = "mode_local"
	TKeyLblURL        = "lbl_url"
	TKeyHelpURL       = "help_site_url"
	TKeyLblUser       = "lbl_user"
	TKeyLblPass       = "lbl_pass"
	TKeyLblPath       = "lbl_path"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyLblFooter     = "lbl_footer"
	TKeyNotifError    = "notif_err_load"
	TKeyNotifLoaded   = "notif_loaded"
	TKeyBtnBrowse     = "btn_browse"
	TKeyLblNotReady   = "lbl_not_ready"

	// Validation Errors (UI)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
	TKeyErrInterval  = "err_interval_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18090"
	DefaultRefreshMin = 30
	MaxRefreshMin     = 1440
	DefaultLanguage   = "en"
	DefaultSitePath   = "site.yaml"
	DisabledInterval  = 0
	UIDSalt           = "go-vernissage-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Animation Tuning Defaults
// -----------------------------------------------------------------------------

const (
	DefaultCountdownInterval = time.Second
	DefaultTypeSpeed         = 45 * time.Millisecond
	DefaultHeadlineDelay     = 600 * time.Millisecond
	DefaultBioDelay          = 250 * time.Millisecond
	DefaultGestureCooldown   = 700 * time.Millisecond
	DefaultSwipeThreshold    = 48.0
	DefaultScrollMinFactor   = 0.06
	DefaultScrollMaxFactor   = 0.22
	DefaultScrollDistance    = 900.0
	DefaultScrollEpsilon     = 0.5
	DefaultItemSpacing       = 420.0
	DefaultFadeDistance      = 840.0
	DefaultEntranceOvershoot = 34.0
	DefaultFrameDuration     = time.Second // Length of one fyne animation cycle; it repeats forever.

	PolicyNameClamp = "clamp"
	PolicyNameWrap  = "wrap"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Vernissage//Launch//EN"
	ICalCalName   = "Vernissage"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "governissage"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropLocation    = "LOCATION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardVersion = "4.0"
	VCardKind    = "individual"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	FormatTriggerMinutes = "-PT%dM"
	FormatTriggerSeconds = "-PT%dS"

	// File Extensions
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	WSWriteTimeout      = 5 * time.Second
	WSPongTimeout       = 60 * time.Second
	WSPingInterval      = 30 * time.Second
	WSSendQueue         = 8
	WSReadLimit         = 512
	RetryAfterSeconds   = "5"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 8 * 1024 * 1024 // 8MB, a catalog is text
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	FormatLocalURL      = "http://%s:%s%s"

	RouteLaunch      = "/launch.ics"
	RouteArtist      = "/artist.vcf"
	RouteCountdown   = "/countdown"
	RouteCountdownWS = "/ws/countdown"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAccept          = "Accept"

	AcceptYAML = "application/yaml, text/yaml;q=0.9, text/plain;q=0.5"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextVCard       = "text/vcard; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrSiteRead         = "failed to read site catalog"
	ErrSiteParse        = "failed to parse site catalog"
	ErrSiteNoTarget     = "site catalog: launch target is missing"
	ErrSiteNoPhotos     = "site catalog: no photos listed"
	ErrSitePhotoID      = "site catalog: photo id is empty or duplicated"
	ErrSitePhotoSize    = "site catalog: photo dimensions must be positive"
	ErrSitePhotoPath    = "site catalog: photo path is empty"
	ErrSitePolicy       = "site catalog: unknown gesture policy"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
	ErrContentType      = "server returned a non-YAML content type"
	ErrNotModified      = "site catalog not modified"
	ErrSiteOpen         = "failed to open site catalog"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrOffsetParse      = "invalid clock offset"
	ErrWSUpgrade        = "websocket upgrade failed"
	ErrWSWrite          = "websocket write failed"
	ErrEncodeSnapshot   = "failed to encode countdown snapshot"
	ErrKeyringSave      = "failed to save credentials to keyring"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrEntryEmpty       = "value is required"
	ErrEntryNotNumber   = "value is not a number"
	ErrEntryRange       = "value is out of range"
	ErrImageURI         = "invalid photo URI"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Microsite initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Opening: %s"
	FallbackName    = "Unknown"

	TitleStartupError = "Startup Error"
	TitleLoadError    = "Catalog Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgLoadStarted    = "Loading site catalog"
	MsgLoadFailed     = "Site catalog load failed"
	MsgLoadSuccess    = "Site catalog loaded"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateInterval = "Updating reload interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Document cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgEnvMissing     = "No .env file loaded"
	MsgClockOffset    = "Clock offset active"
	MsgCountdownDone  = "Countdown reached the launch"
	MsgNavigate       = "Page changed"
	MsgIndexChanged   = "Carousel index changed"
	MsgViewerOpen     = "Photo viewer opened"
	MsgViewerClose    = "Photo viewer closed"
	MsgWSConnected    = "Countdown feed subscriber connected"
	MsgWSClosed       = "Countdown feed subscriber left"
	MsgWSDropped      = "Countdown frame dropped for slow subscriber"
	MsgCalendarBuilt  = "Launch calendar generated"
	MsgCardBuilt      = "Artist card generated"
	MsgSettingsOpen   = "Opening settings window"
	MsgSettingsSave   = "Saving preferences"
	MsgFetchStart     = "Initiating site catalog download"
	MsgFetchStatus    = "Server returned error status"
	MsgFetchBody      = "Site catalog downloading"
	MsgFetchUnchanged = "Site catalog unchanged on server"
	MsgSiteUnchanged  = "Site catalog unchanged, keeping the published one"
	MsgReloadReq      = "Site catalog reload requested"
	MsgAutoReloadOff  = "Auto-reload disabled via settings"
	MsgSettingsFocus  = "Settings window already open, requesting focus"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyManual    = "manual"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyPage      = "page"
	LogKeyIndex     = "index"
	LogKeyOffset    = "offset"
	LogKeyTarget    = "target"
	LogKeyClient    = "client_id"
	LogKeyPhotos    = "photos"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"
	LogKeyMIME      = "content_type"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompEngine   = "engine"
	CompCarousel = "carousel"
	CompViewer   = "viewer"
	CompServer   = "server"
	CompFeed     = "feed"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	CountdownTextSize   = 56
	PhotoHeightRatio    = 0.8
	CarouselMinWidth    = 480
	CarouselMinHeight   = 320
)
