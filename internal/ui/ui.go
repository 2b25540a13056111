package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/jonboulle/clockwork"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
	"github.com/tartampluch/go-vernissage/internal/server"
	"github.com/zalando/go-keyring"
)

// MicrositeApp encapsulates the UI state, preferences, and background logic.
type MicrositeApp struct {
	App         fyne.App
	Window      fyne.Window // Settings window, nil while closed.
	MainWindow  fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server  *server.SiteServer
	Fetcher engine.SiteFetcher
	Clock   engine.Clock // Injected clock; tests use a fake, previews an offset one.

	// SiteOverride replaces the configured source when set (path or http(s) URL).
	SiteOverride string

	Tray         desktop.App
	Menu         *fyne.Menu
	RefreshItem  *fyne.MenuItem
	SettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	// Loaded content. The countdown is created by the first successful load.
	siteMu     sync.RWMutex
	site       *engine.Site
	countdown  *engine.Countdown
	loader     *engine.Loader
	loaderOnce sync.Once

	// Navigation, touched on the fyne main goroutine only.
	tabs   *container.AppTabs
	pages  []page
	active page
	viewer *photoViewer
}

// NewMicrositeApp constructs the application and wires dependencies.
func NewMicrositeApp(a fyne.App, ctx context.Context, srv *server.SiteServer, fetcher engine.SiteFetcher) *MicrositeApp {
	a.SetIcon(theme.MediaPhotoIcon())

	return &MicrositeApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.NewRealClock(),
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
}

// Run launches the application services and the main UI loop.
func (app *MicrositeApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	app.setupMenu()
	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.Tray.SetSystemTrayMenu(app.Menu)
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.buildMainWindow()
	app.MainWindow.SetMainMenu(fyne.NewMainMenu(app.Menu))
	app.MainWindow.Show()

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *MicrositeApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupMenu constructs the menu shared by the tray and the main window.
func (app *MicrositeApp) setupMenu() {
	app.RefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performReload(true)
	})
	app.SettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})
	app.Menu = fyne.NewMenu(config.AppName, app.RefreshItem, app.SettingsItem)
}

// RefreshLocalization updates every translated label after a language change.
func (app *MicrositeApp) RefreshLocalization() {
	if app.Menu != nil {
		app.RefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
		app.SettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
		app.Menu.Refresh()
	}
	if app.tabs == nil {
		return
	}
	for i, p := range app.pages {
		app.tabs.Items[i].Text = app.GetMsg(p.titleKey())
		p.localize()
	}
	app.tabs.Refresh()
	if app.MainWindow != nil {
		app.MainWindow.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}
}

// refreshInterval reads the reload period. Zero disables periodic reloads.
func (app *MicrositeApp) refreshInterval() time.Duration {
	val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if val <= 0 {
		return 0
	}
	return time.Duration(val) * time.Minute
}

// backgroundWorker manages the periodic reload schedule.
func (app *MicrositeApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performReload(false)

	var ticker clockwork.Ticker
	var tick <-chan time.Time
	schedule := func(d time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d <= 0 {
			log.Info(config.MsgAutoReloadOff)
			return
		}
		ticker = app.Clock.NewTicker(d)
		tick = ticker.Chan()
	}

	currentDuration := app.refreshInterval()
	schedule(currentDuration)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		app.stopCountdown()
	}()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := app.refreshInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateInterval, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				schedule(currentDuration)
			}

		case <-tick:
			app.performReload(false)
		}
	}
}

// performReload executes the catalog pipeline (Read -> Parse -> Export) and
// publishes the result to the server, the countdown and the pages.
func (app *MicrositeApp) performReload(manual bool) {
	slog.Info(config.MsgReloadReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	catalog, err := app.siteLoader().Load(app.Ctx, app.loadSourceConfig())
	if errors.Is(err, engine.ErrNotModified) {
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifLoaded)))
		}
		return
	}
	if err != nil {
		// The previous catalog, if any, stays published.
		slog.Error(config.MsgLoadFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleLoadError, app.GetMsg(config.TKeyNotifError)))
		}
		return
	}

	app.Server.Update(config.RouteLaunch, catalog.Calendar, config.MimeTextCalendar)
	app.Server.Update(config.RouteArtist, catalog.Card, config.MimeTextVCard)
	app.installSite(catalog.Site)

	fyne.Do(func() { app.applySite(catalog.Site) })

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifLoaded)))
	}
}

// siteLoader returns the loader shared by every reload, built on first use
// so that a clock injected after construction is honoured.
func (app *MicrositeApp) siteLoader() *engine.Loader {
	app.loaderOnce.Do(func() {
		app.loader = &engine.Loader{Clock: app.Clock, Fetcher: app.Fetcher}
	})
	return app.loader
}

// installSite stores the site and moves the countdown to its launch.
func (app *MicrositeApp) installSite(site *engine.Site) {
	app.siteMu.Lock()
	defer app.siteMu.Unlock()
	app.site = site

	if app.countdown != nil {
		app.countdown.Retarget(site.Launch.Target)
		return
	}

	cd := engine.NewCountdown(app.Clock, site.Launch.Target, site.Tuning.CountdownInterval)
	go app.pumpFeed(cd.Subscribe(config.SnapshotBufferSize))
	cd.Start(app.Ctx)
	app.countdown = cd
}

// pumpFeed forwards countdown snapshots to the HTTP feed until the countdown stops.
func (app *MicrositeApp) pumpFeed(sub <-chan engine.Snapshot) {
	for s := range sub {
		if err := app.Server.Feed().Publish(s); err != nil {
			slog.Error(config.ErrEncodeSnapshot,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyError, err)
		}
	}
}

func (app *MicrositeApp) stopCountdown() {
	app.siteMu.RLock()
	cd := app.countdown
	app.siteMu.RUnlock()
	if cd != nil {
		cd.Stop()
	}
}

// currentSite returns the loaded site and its countdown, or nils before the first load.
func (app *MicrositeApp) currentSite() (*engine.Site, *engine.Countdown) {
	app.siteMu.RLock()
	defer app.siteMu.RUnlock()
	return app.site, app.countdown
}

// loadSourceConfig assembles the loader configuration from the override,
// the UI preferences and the Keyring.
func (app *MicrositeApp) loadSourceConfig() engine.SourceConfig {
	if src := app.SiteOverride; src != "" {
		if isWebSource(src) {
			return engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: src}
		}
		return engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: src}
	}

	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal),
		LocalPath: app.Preferences.StringWithFallback(config.PrefLocalPath, config.DefaultSitePath),
		WebURL:    app.Preferences.String(config.PrefSiteURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return cfg
}

// localURL returns the address of a route on the local server.
func (app *MicrositeApp) localURL(route string) *url.URL {
	u, err := url.Parse(fmt.Sprintf(config.FormatLocalURL, config.LocalhostBindAddr, app.Server.Port, route))
	if err != nil {
		return nil
	}
	return u
}

func isWebSource(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS)
}
