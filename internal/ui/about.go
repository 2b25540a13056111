package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// aboutPage presents the artist and types the biography.
type aboutPage struct {
	app *MicrositeApp

	name *widget.Label
	role *widget.Label
	bio  *widget.Label
	site *widget.Hyperlink
	card *widget.Hyperlink
	root fyne.CanvasObject

	typist *engine.Typist
}

func newAboutPage(app *MicrositeApp) *aboutPage {
	p := &aboutPage{app: app}

	p.name = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	p.role = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Italic: true})
	p.bio = widget.NewLabel("")
	p.bio.Wrapping = fyne.TextWrapWord
	p.site = widget.NewHyperlink("", nil)
	p.site.Hide()
	p.card = widget.NewHyperlink("", app.localURL(config.RouteArtist))
	p.card.Hide()

	p.typist = engine.NewTypist(app.Clock, func(r engine.Reveal) {
		fyne.Do(func() { p.bio.SetText(r.Text) })
	})

	p.root = container.NewPadded(container.NewVBox(
		p.name,
		p.role,
		p.bio,
		container.NewHBox(p.site, p.card),
	))
	p.localize()
	return p
}

func (p *aboutPage) id() string                 { return config.PageAbout }
func (p *aboutPage) titleKey() string           { return config.TKeyTabAbout }
func (p *aboutPage) content() fyne.CanvasObject { return p.root }

func (p *aboutPage) localize() {
	p.card.SetText(p.app.GetMsg(config.TKeySaveContact))
}

func (p *aboutPage) apply(site *engine.Site) {
	p.name.SetText(site.Artist.Name)
	p.role.SetText(site.Artist.Role)
	p.card.Show()

	if site.Artist.Website == "" {
		p.site.Hide()
		return
	}
	if err := p.site.SetURLFromString(site.Artist.Website); err != nil {
		p.site.Hide()
		return
	}
	p.site.SetText(site.Artist.Website)
	p.site.Show()
}

func (p *aboutPage) mount(ctx context.Context) {
	site, _ := p.app.currentSite()
	if site == nil {
		return
	}
	p.typist.Play(ctx, site.Artist.Bio, site.Tuning.TypeSpeed, site.Tuning.BioDelay)
}

func (p *aboutPage) unmount() {
	p.typist.Stop()
}
