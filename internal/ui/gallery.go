package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// galleryPage is the index: every photo as a thumbnail in a grid.
type galleryPage struct {
	app *MicrositeApp

	grid   *fyne.Container
	empty  *widget.Label
	thumbs []*thumbnail
	photos []engine.Photo
	root   fyne.CanvasObject
}

func newGalleryPage(app *MicrositeApp) *galleryPage {
	p := &galleryPage{app: app}

	p.grid = container.NewGridWrap(fyne.NewSize(config.ThumbWidth, config.ThumbHeight))
	p.empty = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.root = container.NewStack(p.empty, container.NewVScroll(container.NewPadded(p.grid)))
	p.localize()
	return p
}

func (p *galleryPage) id() string                 { return config.PageGallery }
func (p *galleryPage) titleKey() string           { return config.TKeyTabGallery }
func (p *galleryPage) content() fyne.CanvasObject { return p.root }

func (p *galleryPage) localize() {
	p.empty.SetText(p.app.GetMsg(config.TKeyNoPhotos))
}

func (p *galleryPage) apply(site *engine.Site) {
	p.photos = site.Photos
	p.thumbs = make([]*thumbnail, len(site.Photos))
	objects := make([]fyne.CanvasObject, len(site.Photos))
	for i, photo := range site.Photos {
		i := i
		p.thumbs[i] = newThumbnail(photo, func() { p.open(i) })
		objects[i] = p.thumbs[i]
	}
	p.grid.Objects = objects
	p.grid.Refresh()

	if len(site.Photos) > 0 {
		p.empty.Hide()
	} else {
		p.empty.Show()
	}
}

func (p *galleryPage) mount(context.Context) {}

func (p *galleryPage) unmount() {}

func (p *galleryPage) open(index int) {
	if p.app.viewer == nil || p.app.MainWindow == nil {
		return
	}
	p.app.viewer.Open(p.app.MainWindow.Canvas(), p.photos, index, nil)
}

// thumbnail is one grid cell: the photo and its id below it.
type thumbnail struct {
	widget.BaseWidget

	image *canvas.Image
	label *widget.Label
	onTap func()
}

func newThumbnail(photo engine.Photo, onTap func()) *thumbnail {
	t := &thumbnail{
		image: loadImage(photo.Path),
		label: widget.NewLabelWithStyle(photo.ID, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}),
		onTap: onTap,
	}
	t.image.FillMode = canvas.ImageFillContain
	t.label.Truncation = fyne.TextTruncateEllipsis
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *thumbnail) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, t.label, nil, nil, t.image))
}

// Tapped implements fyne.Tappable.
func (t *thumbnail) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}
