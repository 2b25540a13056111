package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// exhibitionPage hosts the photo carousel and its caption.
type exhibitionPage struct {
	app *MicrositeApp

	view    *carouselView
	title   *widget.Label
	caption *widget.Label
	empty   *widget.Label
	root    fyne.CanvasObject
}

func newExhibitionPage(app *MicrositeApp) *exhibitionPage {
	p := &exhibitionPage{app: app}

	p.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	p.caption = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	p.empty = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.view = newCarouselView(app.Clock, func(index int) {
		p.showCaption(index)
	})
	p.view.onOpen = p.openViewer
	p.view.suspended = func() bool {
		return app.viewer != nil && app.viewer.IsOpen()
	}

	p.root = container.NewBorder(nil,
		container.NewVBox(p.title, p.caption),
		nil, nil,
		container.NewStack(p.empty, p.view),
	)
	p.localize()
	return p
}

func (p *exhibitionPage) id() string                 { return config.PageExhibition }
func (p *exhibitionPage) titleKey() string           { return config.TKeyTabExhibition }
func (p *exhibitionPage) content() fyne.CanvasObject { return p.root }

func (p *exhibitionPage) localize() {
	p.empty.SetText(p.app.GetMsg(config.TKeyNoPhotos))
}

func (p *exhibitionPage) apply(site *engine.Site) {
	p.view.SetPhotos(site.Photos, site.Tuning)
	if len(site.Photos) > 0 {
		p.empty.Hide()
	} else {
		p.empty.Show()
	}
	p.showCaption(p.view.Index())
}

func (p *exhibitionPage) mount(context.Context) {
	p.view.Enter()
	p.view.Start()
}

func (p *exhibitionPage) unmount() {
	p.view.Stop()
}

func (p *exhibitionPage) handleKey(ev *fyne.KeyEvent) {
	p.view.handleKey(ev)
}

// openViewer shows the tapped photo; stepping in the viewer moves the strip along.
func (p *exhibitionPage) openViewer(index int) {
	if p.app.viewer == nil || p.app.MainWindow == nil {
		return
	}
	p.app.viewer.Open(p.app.MainWindow.Canvas(), p.view.photos, index, p.view.Select)
}

func (p *exhibitionPage) showCaption(index int) {
	if index < 0 || index >= len(p.view.photos) {
		p.title.SetText("")
		p.caption.SetText("")
		return
	}
	p.title.SetText(p.view.photos[index].Title)
	p.caption.SetText(fmt.Sprintf(config.CaptionFormat, index+1, len(p.view.photos)))
}
