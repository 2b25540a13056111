package ui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// teaserPage shows the countdown to the launch and types the headline.
type teaserPage struct {
	app *MicrositeApp

	title    *widget.Label
	caption  *widget.Label
	clock    *canvas.Text
	units    *widget.Label
	headline *widget.Label
	link     *widget.Hyperlink
	root     fyne.CanvasObject

	typist *engine.Typist

	mu  sync.Mutex
	sub <-chan engine.Snapshot
	cd  *engine.Countdown
}

func newTeaserPage(app *MicrositeApp) *teaserPage {
	p := &teaserPage{app: app}

	p.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	p.caption = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	p.clock = canvas.NewText(app.GetMsg(config.TKeyLblNotReady), theme.Color(theme.ColorNameForeground))
	p.clock.TextSize = config.CountdownTextSize
	p.clock.TextStyle = fyne.TextStyle{Monospace: true}
	p.clock.Alignment = fyne.TextAlignCenter
	p.units = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.headline = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	p.headline.Wrapping = fyne.TextWrapWord
	p.link = widget.NewHyperlink("", app.localURL(config.RouteLaunch))
	p.link.Alignment = fyne.TextAlignCenter
	p.link.Hide()

	p.typist = engine.NewTypist(app.Clock, func(r engine.Reveal) {
		fyne.Do(func() { p.headline.SetText(r.Text) })
	})

	p.root = container.NewCenter(container.NewVBox(
		p.title,
		p.caption,
		p.clock,
		p.units,
		p.headline,
		p.link,
	))
	p.localize()
	return p
}

func (p *teaserPage) id() string                 { return config.PageTeaser }
func (p *teaserPage) titleKey() string           { return config.TKeyTabTeaser }
func (p *teaserPage) content() fyne.CanvasObject { return p.root }

func (p *teaserPage) localize() {
	p.caption.SetText(p.app.GetMsg(config.TKeyCountdownLbl))
	p.units.SetText(p.app.GetMsg(config.TKeyCountdownUnit))
	p.link.SetText(p.app.GetMsg(config.TKeyAddCalendar))
}

func (p *teaserPage) apply(site *engine.Site) {
	p.title.SetText(site.Launch.Title)
	p.link.Show()
}

// mount follows the countdown and starts typing the headline.
func (p *teaserPage) mount(ctx context.Context) {
	site, cd := p.app.currentSite()
	if site == nil || cd == nil {
		return
	}

	p.render(cd.Current())
	sub := cd.Subscribe(config.SnapshotBufferSize)
	p.mu.Lock()
	p.sub, p.cd = sub, cd
	p.mu.Unlock()

	go func() {
		for s := range sub {
			s := s
			fyne.Do(func() { p.render(s) })
		}
	}()

	p.typist.Play(ctx, site.Headline, site.Tuning.TypeSpeed, site.Tuning.HeadlineDelay)
}

func (p *teaserPage) unmount() {
	p.mu.Lock()
	sub, cd := p.sub, p.cd
	p.sub, p.cd = nil, nil
	p.mu.Unlock()

	if cd != nil {
		cd.Unsubscribe(sub)
	}
	p.typist.Stop()
}

// subscribed reports whether the page currently follows the countdown.
func (p *teaserPage) subscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sub != nil
}

func (p *teaserPage) render(s engine.Snapshot) {
	if s.Expired {
		p.clock.Text = p.app.GetMsg(config.TKeyCountdownOpen)
		p.units.Hide()
	} else {
		p.clock.Text = s.Display()
		p.units.Show()
	}
	p.clock.Refresh()
}
