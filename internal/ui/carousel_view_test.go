package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

var testPhotos = []engine.Photo{
	{ID: "dawn", Path: "img/dawn.jpg", Width: 1600, Height: 1200},
	{ID: "fjord", Path: "img/fjord.jpg", Width: 1200, Height: 1600},
	{ID: "frost", Path: "img/frost.jpg", Width: 1000, Height: 1000},
}

// newTestView returns an 800x600 view over testPhotos and the indices it reported.
func newTestView(t *testing.T) (*carouselView, *clockwork.FakeClock, *[]int) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	fc := clockwork.NewFakeClockAt(now)
	var seen []int
	v := newCarouselView(fc, func(i int) { seen = append(seen, i) })
	v.SetPhotos(testPhotos, engine.DefaultTuning())
	v.Resize(fyne.NewSize(800, 600))
	return v, fc, &seen
}

// settle runs frames until the progress rests.
func settle(t *testing.T, v *carouselView) {
	t.Helper()
	for i := 0; i < 1000 && !v.carousel.Settled(); i++ {
		v.frame()
	}
	require.True(t, v.carousel.Settled())
}

func TestCarouselView_WheelRespectsCooldown(t *testing.T) {
	v, fc, seen := newTestView(t)
	tuning := engine.DefaultTuning()

	// fyne reports wheel-down as a negative DY.
	down := &fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}}
	v.Scrolled(down)
	v.Scrolled(down)
	assert.Equal(t, 1, v.Index(), "Second notch inside the cooldown is ignored")

	fc.Advance(tuning.GestureCooldown)
	v.Scrolled(down)
	assert.Equal(t, 2, v.Index())

	fc.Advance(tuning.GestureCooldown)
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 10}})
	assert.Equal(t, 1, v.Index())

	assert.Equal(t, []int{1, 2, 1}, *seen)
}

func TestCarouselView_FramesEaseToSelection(t *testing.T) {
	v, _, _ := newTestView(t)
	tuning := engine.DefaultTuning()

	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	before := v.carousel.Progress()
	v.frame()
	assert.Greater(t, v.carousel.Progress(), before)

	settle(t, v)
	assert.Equal(t, tuning.ItemSpacing, v.carousel.Progress())

	// The selected photo sits in the centre, fully opaque.
	centre := v.images[1]
	assert.Equal(t, 0.0, centre.Translucency)
	assert.InDelta(t, 400, centre.Position().X+centre.Size().Width/2, 0.01)
	assert.InDelta(t, 480, centre.Size().Height, 0.01)

	// Neighbours are half faded at one spacing from the centre.
	assert.InDelta(t, 1-tuning.ItemSpacing/tuning.FadeDistance, 1-v.images[0].Translucency, 1e-9)
	assert.True(t, v.images[2].Visible())
}

func TestCarouselView_HidesFadedPhotos(t *testing.T) {
	v, _, _ := newTestView(t)

	assert.True(t, v.images[0].Visible())
	assert.False(t, v.images[2].Visible(), "Two spacings away is past the fade distance")
}

func TestCarouselView_SwipeSelectsNext(t *testing.T) {
	v, _, seen := newTestView(t)

	v.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -60}})
	v.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -60}})
	v.DragEnd()

	assert.Equal(t, 1, v.Index())
	assert.Equal(t, []int{1}, *seen)
}

func TestCarouselView_ShortSwipeSnapsBack(t *testing.T) {
	v, _, seen := newTestView(t)

	v.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -20}})
	v.frame()
	v.DragEnd()
	settle(t, v)

	assert.Equal(t, 0, v.Index())
	assert.Equal(t, 0.0, v.carousel.Progress())
	assert.Empty(t, *seen)
}

func TestCarouselView_IgnoresUnmappedKeys(t *testing.T) {
	v, _, seen := newTestView(t)

	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyA})

	assert.Equal(t, 0, v.Index())
	assert.Empty(t, *seen)
}

func TestCarouselView_EnterSettlesOnIndex(t *testing.T) {
	v, _, _ := newTestView(t)

	v.Enter()
	assert.False(t, v.carousel.Settled())
	settle(t, v)

	assert.Equal(t, 0.0, v.carousel.Progress())
}

func TestCarouselView_TuningChangeResetsCarousel(t *testing.T) {
	v, _, _ := newTestView(t)
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	require.Equal(t, 1, v.Index())

	wrap := engine.DefaultTuning()
	wrap.GesturePolicy = engine.PolicyWrap
	v.SetPhotos(testPhotos, wrap)

	assert.Equal(t, 0, v.Index())
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyLeft})
	assert.Equal(t, 2, v.Index(), "Wrap policy moves from the first photo to the last")
}

func TestCarouselView_NoPhotosYet(t *testing.T) {
	test.NewApp()
	v := newCarouselView(clockwork.NewFakeClockAt(now), nil)

	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	v.DragEnd()
	v.frame()

	assert.Equal(t, -1, v.Index())
}

func TestCarouselView_TapSelectsAndOpens(t *testing.T) {
	v, _, seen := newTestView(t)
	var opened []int
	v.onOpen = func(i int) { opened = append(opened, i) }

	// The centre photo spans x 80..720; its right neighbour 640..1000.
	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(680, 300)})
	assert.Equal(t, 0, v.Index(), "Overlaps resolve to the photo nearest the centre")
	assert.Equal(t, []int{0}, opened)
	assert.Empty(t, *seen)

	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(760, 300)})
	assert.Equal(t, 1, v.Index())
	assert.Equal(t, []int{0, 1}, opened)
	assert.Equal(t, []int{1}, *seen)

	settle(t, v)
	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(400, 5)})
	assert.Len(t, opened, 2, "Tapping above the photos opens nothing")
}

func TestCarouselView_SuspendedIgnoresInput(t *testing.T) {
	v, fc, seen := newTestView(t)
	suspended := true
	v.suspended = func() bool { return suspended }

	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	v.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: -200}})
	v.DragEnd()
	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(400, 300)})
	assert.Equal(t, 0, v.Index())
	assert.Empty(t, *seen)

	suspended = false
	fc.Advance(engine.DefaultTuning().GestureCooldown)
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	assert.Equal(t, 1, v.Index())
}
