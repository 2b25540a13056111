package ui

import (
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// photoViewer shows one photo at full size in a window overlay.
// Prev and next wrap around the photo list. Escape or a tap on the backdrop
// closes it. Its methods run on the fyne main goroutine.
type photoViewer struct {
	widget.BaseWidget

	backdrop *canvas.Rectangle
	image    *canvas.Image
	caption  *widget.Label
	prev     *widget.Button
	next     *widget.Button
	layer    *fyne.Container

	canvas fyne.Canvas
	photos []engine.Photo
	index  int
	open   bool
	onMove func(index int)
}

func newPhotoViewer() *photoViewer {
	v := &photoViewer{
		backdrop: canvas.NewRectangle(color.NRGBA{A: config.ViewerBackdropAlpha}),
		image:    canvas.NewImageFromResource(theme.MediaPhotoIcon()),
		caption:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true}),
	}
	v.image.FillMode = canvas.ImageFillContain
	v.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { v.step(engine.Backward) })
	v.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { v.step(engine.Forward) })
	v.layer = container.NewWithoutLayout(v.backdrop, v.image, v.caption, v.prev, v.next)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *photoViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.layer)
}

// Resize lays the photo out inside the new bounds.
func (v *photoViewer) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.layout()
}

// Open shows photos[index] above everything on c. onMove is told about every
// prev/next step so the caller can follow the viewer.
func (v *photoViewer) Open(c fyne.Canvas, photos []engine.Photo, index int, onMove func(int)) {
	if index < 0 || index >= len(photos) {
		return
	}
	if v.open {
		v.canvas.Overlays().Remove(v)
	}
	v.canvas = c
	v.photos = photos
	v.index = index
	v.onMove = onMove
	v.open = true

	c.Overlays().Add(v)
	v.Resize(c.Size())
	v.show(index)

	slog.Debug(config.MsgViewerOpen,
		config.LogKeyComponent, config.CompViewer,
		config.LogKeyIndex, index)
}

// Close removes the overlay. Closing a closed viewer is a no-op.
func (v *photoViewer) Close() {
	if !v.open {
		return
	}
	v.open = false
	v.canvas.Overlays().Remove(v)
	v.onMove = nil
	slog.Debug(config.MsgViewerClose, config.LogKeyComponent, config.CompViewer)
}

// IsOpen reports whether the viewer is on screen.
func (v *photoViewer) IsOpen() bool {
	return v.open
}

// Index returns the photo on display.
func (v *photoViewer) Index() int {
	return v.index
}

// Tapped implements fyne.Tappable. Only the backdrop closes the viewer.
func (v *photoViewer) Tapped(ev *fyne.PointEvent) {
	if inside(v.image, ev.Position) {
		return
	}
	v.Close()
}

// Scrolled implements fyne.Scrollable so wheel input never reaches the
// content below the overlay.
func (v *photoViewer) Scrolled(*fyne.ScrollEvent) {}

func (v *photoViewer) handleKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		v.Close()
		return
	}
	v.step(engine.KeyDirection(string(ev.Name)))
}

// step moves by one photo, wrapping modulo the photo count.
func (v *photoViewer) step(dir engine.Direction) {
	n := len(v.photos)
	if !v.open || dir == engine.NoDirection || n == 0 {
		return
	}
	next := ((v.index+int(dir))%n + n) % n
	v.show(next)
	if v.onMove != nil {
		v.onMove(next)
	}
}

func (v *photoViewer) show(index int) {
	v.index = index
	p := v.photos[index]

	img := loadImage(p.Path)
	img.FillMode = canvas.ImageFillContain
	for i, obj := range v.layer.Objects {
		if obj == v.image {
			v.layer.Objects[i] = img
		}
	}
	v.image = img
	v.layer.Refresh()

	label := p.Title
	if label == "" {
		label = p.ID
	}
	v.caption.SetText(fmt.Sprintf(config.ViewerCaptionFormat, label, index+1, len(v.photos)))
	v.layout()
}

// layout fits the photo inside the margins, keeping its aspect ratio.
func (v *photoViewer) layout() {
	size := v.Size()
	v.backdrop.Resize(size)
	v.backdrop.Move(fyne.NewPos(0, 0))

	if len(v.photos) == 0 {
		return
	}
	aspect := float32(v.photos[v.index].Aspect())
	maxW := size.Width - 2*config.ViewerMargin
	maxH := size.Height - 2*config.ViewerMargin - config.ViewerCaptionHeight
	if maxW <= 0 || maxH <= 0 {
		return
	}
	w, h := maxW, maxW/aspect
	if h > maxH {
		w, h = maxH*aspect, maxH
	}
	x := (size.Width - w) / 2
	y := (size.Height - config.ViewerCaptionHeight - h) / 2

	v.image.Resize(fyne.NewSize(w, h))
	v.image.Move(fyne.NewPos(x, y))
	v.caption.Resize(fyne.NewSize(w, config.ViewerCaptionHeight))
	v.caption.Move(fyne.NewPos(x, y+h))

	btn := v.prev.MinSize()
	mid := (size.Height - btn.Height) / 2
	v.prev.Resize(btn)
	v.prev.Move(fyne.NewPos((config.ViewerMargin-btn.Width)/2, mid))
	v.next.Resize(btn)
	v.next.Move(fyne.NewPos(size.Width-(config.ViewerMargin+btn.Width)/2, mid))
}

// inside reports whether pos, relative to the parent, falls on obj.
func inside(obj fyne.CanvasObject, pos fyne.Position) bool {
	p, s := obj.Position(), obj.Size()
	return pos.X >= p.X && pos.X <= p.X+s.Width && pos.Y >= p.Y && pos.Y <= p.Y+s.Height
}
