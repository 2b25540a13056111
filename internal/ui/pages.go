package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// page is one tab of the main window.
// Every timer a page starts in Mount is released by Unmount, so only the
// visible page animates.
type page interface {
	id() string
	titleKey() string
	content() fyne.CanvasObject
	localize()
	apply(site *engine.Site)
	mount(ctx context.Context)
	unmount()
}

// keyHandler is implemented by pages that react to the keyboard.
type keyHandler interface {
	handleKey(ev *fyne.KeyEvent)
}

// buildMainWindow creates the window with one tab per page.
func (app *MicrositeApp) buildMainWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	app.MainWindow = w

	app.viewer = newPhotoViewer()
	app.pages = []page{
		newTeaserPage(app),
		newExhibitionPage(app),
		newGalleryPage(app),
		newAboutPage(app),
	}

	items := make([]*container.TabItem, 0, len(app.pages))
	for _, p := range app.pages {
		items = append(items, container.NewTabItem(app.GetMsg(p.titleKey()), p.content()))
	}
	app.tabs = container.NewAppTabs(items...)
	app.tabs.OnSelected = func(item *container.TabItem) {
		for i, it := range app.tabs.Items {
			if it == item {
				app.navigate(i)
				return
			}
		}
	}

	// The open viewer takes the keyboard from the page below it.
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if app.viewer.IsOpen() {
			app.viewer.handleKey(ev)
			return
		}
		if h, ok := app.active.(keyHandler); ok {
			h.handleKey(ev)
		}
	})
	w.SetContent(app.tabs)

	if site, _ := app.currentSite(); site != nil {
		app.applySite(site)
	}
	app.navigate(0)
}

// navigate unmounts the current page and mounts the one at index.
func (app *MicrositeApp) navigate(index int) {
	if index < 0 || index >= len(app.pages) {
		return
	}
	next := app.pages[index]
	if next == app.active {
		return
	}

	app.viewer.Close()
	from := ""
	if app.active != nil {
		from = app.active.id()
		app.active.unmount()
	}
	app.active = next

	slog.Info(config.MsgNavigate,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyOld, from,
		config.LogKeyPage, next.id())

	next.mount(app.Ctx)
}

// applySite pushes fresh content to every page and restarts the visible one.
func (app *MicrositeApp) applySite(site *engine.Site) {
	if app.tabs == nil {
		return
	}
	for _, p := range app.pages {
		p.apply(site)
	}
	if app.active != nil {
		app.active.unmount()
		app.active.mount(app.Ctx)
	}
}
