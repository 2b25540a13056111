package ui

import (
	"log/slog"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// carouselView renders the photo strip and turns wheel, drag and key events
// into carousel inputs. Its methods run on the fyne main goroutine.
type carouselView struct {
	widget.BaseWidget

	clock   engine.Clock
	onIndex func(index int)

	// onOpen is called when a photo is tapped; suspended blocks every input
	// while it reports true (the photo viewer is open).
	onOpen    func(index int)
	suspended func() bool

	carousel *engine.Carousel
	tuning   engine.Tuning
	photos   []engine.Photo
	images   []*canvas.Image
	layer    *fyne.Container
	anim     *fyne.Animation
}

func newCarouselView(clock engine.Clock, onIndex func(int)) *carouselView {
	v := &carouselView{
		clock:   clock,
		onIndex: onIndex,
		layer:   container.NewWithoutLayout(),
	}
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *carouselView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.layer)
}

// MinSize keeps room for a photo when the window shrinks.
func (v *carouselView) MinSize() fyne.Size {
	return fyne.NewSize(config.CarouselMinWidth, config.CarouselMinHeight)
}

// Resize re-positions the photos for the new viewport.
func (v *carouselView) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.layoutItems()
}

// SetPhotos replaces the strip. The index survives a reload when the tuning
// is unchanged and is clamped to the new photo count.
func (v *carouselView) SetPhotos(photos []engine.Photo, tuning engine.Tuning) {
	if v.carousel == nil || v.tuning != tuning {
		v.carousel = engine.NewCarousel(len(photos), tuning)
		v.tuning = tuning
	} else {
		v.carousel.Resize(len(photos))
	}

	v.photos = photos
	v.images = make([]*canvas.Image, len(photos))
	objects := make([]fyne.CanvasObject, len(photos))
	for i, p := range photos {
		img := loadImage(p.Path)
		img.FillMode = canvas.ImageFillContain
		v.images[i] = img
		objects[i] = img
	}
	v.layer.Objects = objects
	v.layer.Refresh()
	v.layoutItems()
}

// Index returns the selected photo, or -1 before the first SetPhotos.
func (v *carouselView) Index() int {
	if v.carousel == nil {
		return -1
	}
	return v.carousel.Index()
}

// Select moves the strip to index without a gesture, as the viewer does.
func (v *carouselView) Select(index int) {
	if v.carousel == nil {
		return
	}
	if i, ok := v.carousel.Select(index); ok {
		v.changed(i)
	}
}

// Enter replays the entrance sequence.
func (v *carouselView) Enter() {
	if v.carousel == nil {
		return
	}
	v.carousel.Enter()
	v.layoutItems()
}

// Start runs the frame loop. Each animation tick steps the interpolator once.
func (v *carouselView) Start() {
	v.Stop()
	v.anim = fyne.NewAnimation(config.DefaultFrameDuration, func(float32) { v.frame() })
	v.anim.Curve = fyne.AnimationLinear
	v.anim.RepeatCount = fyne.AnimationRepeatForever
	v.anim.Start()
}

// Stop halts the frame loop.
func (v *carouselView) Stop() {
	if v.anim != nil {
		v.anim.Stop()
		v.anim = nil
	}
}

// frame advances the scroll progress by one step when it is moving.
func (v *carouselView) frame() {
	if v.carousel == nil || v.carousel.Settled() {
		return
	}
	v.carousel.Step()
	v.layoutItems()
}

// Tapped implements fyne.Tappable. Tapping a photo selects and opens it.
func (v *carouselView) Tapped(ev *fyne.PointEvent) {
	if !v.ready() {
		return
	}
	index := v.photoAt(ev.Position)
	if index < 0 {
		return
	}
	v.Select(index)
	if v.onOpen != nil {
		v.onOpen(index)
	}
}

// photoAt returns the visible photo under pos, preferring the one nearest
// the centre where neighbours overlap, or -1.
func (v *carouselView) photoAt(pos fyne.Position) int {
	found := -1
	for i, img := range v.images {
		if !img.Visible() || !inside(img, pos) {
			continue
		}
		if found < 0 || math.Abs(v.carousel.Offset(i)) < math.Abs(v.carousel.Offset(found)) {
			found = i
		}
	}
	return found
}

// ready reports whether input should reach the carousel.
func (v *carouselView) ready() bool {
	if v.carousel == nil {
		return false
	}
	return v.suspended == nil || !v.suspended()
}

// Scrolled implements fyne.Scrollable. fyne reports wheel-up as a positive DY.
func (v *carouselView) Scrolled(ev *fyne.ScrollEvent) {
	if !v.ready() {
		return
	}
	if index, ok := v.carousel.Wheel(-float64(ev.Scrolled.DY), v.clock.Now()); ok {
		v.changed(index)
	}
}

// Dragged implements fyne.Draggable.
func (v *carouselView) Dragged(ev *fyne.DragEvent) {
	if !v.ready() {
		return
	}
	v.carousel.Drag(float64(ev.Dragged.DX))
}

// DragEnd implements fyne.Draggable.
func (v *carouselView) DragEnd() {
	if !v.ready() {
		return
	}
	if index, ok := v.carousel.Release(v.clock.Now()); ok {
		v.changed(index)
	}
}

func (v *carouselView) handleKey(ev *fyne.KeyEvent) {
	if !v.ready() {
		return
	}
	dir := engine.KeyDirection(string(ev.Name))
	if dir == engine.NoDirection {
		return
	}
	if index, ok := v.carousel.Input(dir, v.clock.Now()); ok {
		v.changed(index)
	}
}

func (v *carouselView) changed(index int) {
	slog.Debug(config.MsgIndexChanged,
		config.LogKeyComponent, config.CompCarousel,
		config.LogKeyIndex, index)
	if v.onIndex != nil {
		v.onIndex(index)
	}
}

// layoutItems places every photo at its offset from the viewport centre and
// fades it with the distance. Fully faded photos are hidden.
func (v *carouselView) layoutItems() {
	if v.carousel == nil {
		return
	}
	size := v.Size()
	height := size.Height * config.PhotoHeightRatio

	for i, img := range v.images {
		offset := v.carousel.Offset(i)
		alpha := v.carousel.Opacity(offset)
		if alpha <= 0 {
			img.Hide()
			continue
		}

		width := height * float32(v.photos[i].Aspect())
		img.Translucency = 1 - alpha
		img.Resize(fyne.NewSize(width, height))
		img.Move(fyne.NewPos(size.Width/2+float32(offset)-width/2, (size.Height-height)/2))
		img.Show()
		img.Refresh()
	}
}

// loadImage reads a photo from a local path or an http(s) URL.
func loadImage(path string) *canvas.Image {
	if !isWebSource(path) {
		return canvas.NewImageFromFile(path)
	}
	uri, err := storage.ParseURI(path)
	if err != nil {
		slog.Warn(config.ErrImageURI,
			config.LogKeyComponent, config.CompCarousel,
			config.LogKeyURL, path,
			config.LogKeyError, err)
		return canvas.NewImageFromResource(theme.BrokenImageIcon())
	}
	return canvas.NewImageFromURI(uri)
}
