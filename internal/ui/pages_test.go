package ui

import (
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

// setupLoadedApp returns an app whose window is built and whose catalog is loaded.
func setupLoadedApp(t *testing.T) (*MicrositeApp, *clockwork.FakeClock, *engine.Site) {
	t.Helper()
	app, _, fc := setupTestApp(t)
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()

	site, err := engine.DecodeSite(strings.NewReader(siteYAML))
	require.NoError(t, err)

	app.buildMainWindow()
	app.installSite(site)
	app.applySite(site)
	return app, fc, site
}

// typeOut advances the fake clock until the typist has revealed want.
func typeOut(t *testing.T, fc *clockwork.FakeClock, typist *engine.Typist, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		fc.Advance(50 * time.Millisecond)
		r := typist.Snapshot()
		return r.Complete() && r.Text == want
	}, 2*time.Second, time.Millisecond)
}

func TestMainWindow_StartsOnTeaser(t *testing.T) {
	app, _, _ := setupLoadedApp(t)

	require.Len(t, app.pages, 4)
	assert.Equal(t, config.PageTeaser, app.active.id())
	assert.Equal(t, "Teaser", app.tabs.Items[0].Text)
	assert.Equal(t, "Index", app.tabs.Items[2].Text)
	assert.Equal(t, "About", app.tabs.Items[3].Text)
}

func TestTeaser_TypesHeadline(t *testing.T) {
	app, fc, site := setupLoadedApp(t)
	teaser := app.pages[0].(*teaserPage)

	assert.True(t, teaser.subscribed())
	assert.Equal(t, "Light on Paper", teaser.title.Text)
	typeOut(t, fc, teaser.typist, site.Headline)
}

func TestTeaser_Render(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	teaser := app.pages[0].(*teaserPage)

	teaser.render(engine.Snapshot{Days: 3, Hours: 4, Minutes: 5, Seconds: 6})
	assert.Equal(t, "03:04:05:06", teaser.clock.Text)
	assert.True(t, teaser.units.Visible())

	teaser.render(engine.Snapshot{Expired: true})
	assert.Equal(t, "The exhibition is open", teaser.clock.Text)
	assert.False(t, teaser.units.Visible())
}

func TestNavigation_ReleasesHiddenPages(t *testing.T) {
	app, fc, site := setupLoadedApp(t)
	teaser := app.pages[0].(*teaserPage)
	about := app.pages[3].(*aboutPage)

	app.tabs.SelectIndex(3)

	assert.Equal(t, config.PageAbout, app.active.id())
	assert.False(t, teaser.subscribed(), "Leaving the teaser drops its countdown subscription")

	frozen := teaser.typist.Snapshot()
	typeOut(t, fc, about.typist, site.Artist.Bio)
	assert.Equal(t, frozen, teaser.typist.Snapshot(), "Hidden pages do not type")

	app.tabs.SelectIndex(0)
	assert.True(t, teaser.subscribed())
}

func TestNavigation_SamePageIsNoop(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	teaser := app.pages[0].(*teaserPage)

	app.navigate(0)
	app.navigate(7)

	assert.Same(t, teaser, app.active)
	assert.True(t, teaser.subscribed())
}

func TestExhibition_CaptionFollowsIndex(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	exhibition := app.pages[1].(*exhibitionPage)

	assert.Equal(t, "1 / 3", exhibition.caption.Text)
	assert.Equal(t, "Dawn", exhibition.title.Text)
	assert.False(t, exhibition.empty.Visible())

	app.tabs.SelectIndex(1)
	app.MainWindow.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyRight})

	assert.Equal(t, "2 / 3", exhibition.caption.Text)
	assert.Equal(t, "Fjord", exhibition.title.Text)
}

func TestKeys_IgnoredOutsideExhibition(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	exhibition := app.pages[1].(*exhibitionPage)

	app.MainWindow.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyRight})

	assert.Equal(t, 0, exhibition.view.Index())
}

func TestApplySite_ReloadKeepsExhibitionIndex(t *testing.T) {
	app, fc, site := setupLoadedApp(t)
	exhibition := app.pages[1].(*exhibitionPage)
	app.tabs.SelectIndex(1)

	exhibition.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	fc.Advance(site.Tuning.GestureCooldown)
	exhibition.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	require.Equal(t, 2, exhibition.view.Index())

	smaller := *site
	smaller.Photos = site.Photos[:2]
	app.installSite(&smaller)
	app.applySite(&smaller)

	assert.Equal(t, 1, exhibition.view.Index(), "Index is clamped to the new photo count")
	assert.Equal(t, "2 / 2", exhibition.caption.Text)
}

func TestAbout_ShowsArtist(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	about := app.pages[3].(*aboutPage)

	assert.Equal(t, "Ada Marchetti", about.name.Text)
	assert.Equal(t, "Photographer", about.role.Text)
	assert.True(t, about.site.Visible())
	assert.Equal(t, "https://ada.example.org", about.site.URL.String())
	assert.Equal(t, "/artist.vcf", about.card.URL.Path)
}

func TestExhibition_ViewerFollowsAndSuspendsCarousel(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	exhibition := app.pages[1].(*exhibitionPage)
	app.tabs.SelectIndex(1)
	press := app.MainWindow.Canvas().OnTypedKey()

	exhibition.openViewer(0)
	require.True(t, app.viewer.IsOpen())

	// Wheel input is suspended while the viewer is open.
	exhibition.view.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	assert.Equal(t, 0, exhibition.view.Index())

	// Keys go to the viewer, and the strip follows it.
	press(&fyne.KeyEvent{Name: fyne.KeyLeft})
	assert.Equal(t, 2, app.viewer.Index(), "Prev from the first photo wraps to the last")
	assert.Equal(t, 2, exhibition.view.Index())
	assert.Equal(t, "3 / 3", exhibition.caption.Text)

	press(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.False(t, app.viewer.IsOpen())

	exhibition.view.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 10}})
	assert.Equal(t, 1, exhibition.view.Index(), "Wheel input resumes once the viewer is closed")
}

func TestExhibition_EmptyLabelFollowsPhotos(t *testing.T) {
	app, _, site := setupLoadedApp(t)
	exhibition := app.pages[1].(*exhibitionPage)
	require.False(t, exhibition.empty.Visible())

	exhibition.apply(&engine.Site{Tuning: site.Tuning})
	assert.True(t, exhibition.empty.Visible())
	assert.Empty(t, exhibition.caption.Text)

	exhibition.apply(site)
	assert.False(t, exhibition.empty.Visible())
}

func TestGallery_ListsPhotosAndOpensViewer(t *testing.T) {
	app, _, _ := setupLoadedApp(t)
	gallery := app.pages[2].(*galleryPage)

	require.Len(t, gallery.thumbs, 3)
	assert.Equal(t, "fjord", gallery.thumbs[1].label.Text)
	assert.False(t, gallery.empty.Visible())

	app.tabs.SelectIndex(2)
	assert.Equal(t, config.PageGallery, app.active.id())

	gallery.thumbs[1].Tapped(&fyne.PointEvent{})
	require.True(t, app.viewer.IsOpen())
	assert.Equal(t, 1, app.viewer.Index())

	app.MainWindow.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Equal(t, 2, app.viewer.Index())

	// Leaving the page closes the viewer.
	app.tabs.SelectIndex(0)
	assert.False(t, app.viewer.IsOpen())
}
