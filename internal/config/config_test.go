package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"VCardVersion", config.VCardVersion},
		{"UIDSalt", config.UIDSalt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, config.DisabledInterval)
	assert.LessOrEqual(t, config.DefaultRefreshMin, config.MaxRefreshMin)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestAnimationDefaults keeps the easing and gesture constants consistent.
func TestAnimationDefaults(t *testing.T) {
	assert.Greater(t, config.DefaultScrollMinFactor, 0.0)
	assert.Less(t, config.DefaultScrollMinFactor, config.DefaultScrollMaxFactor)
	assert.LessOrEqual(t, config.DefaultScrollMaxFactor, 1.0, "A factor above 1 overshoots the target")
	assert.Greater(t, config.DefaultScrollDistance, 0.0)
	assert.Greater(t, config.DefaultScrollEpsilon, 0.0)
	assert.Greater(t, config.DefaultEntranceOvershoot, config.DefaultScrollEpsilon)
	assert.Less(t, config.DefaultEntranceOvershoot, config.DefaultItemSpacing/2, "The entrance must rest nearer its own photo than the previous one")

	// Neighbours stay visible, photos two slots away are faded out.
	assert.Greater(t, config.DefaultFadeDistance, config.DefaultItemSpacing)
	assert.LessOrEqual(t, config.DefaultFadeDistance, 2*config.DefaultItemSpacing)

	assert.Greater(t, config.DefaultGestureCooldown, time.Duration(0))
	assert.Greater(t, config.DefaultTypeSpeed, time.Duration(0))
	assert.Equal(t, time.Second, config.DefaultCountdownInterval)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Vernissage/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.LessOrEqual(t, config.MaxHTTPResponseSize, 64*1024*1024, "A catalog is text; keep the cap small")

	assert.Less(t, config.WSPingInterval, config.WSPongTimeout, "Pings must arrive before the read deadline")
	assert.Greater(t, config.WSSendQueue, 0)
}

// TestRoutes ensures every published route is absolute and unique.
func TestRoutes(t *testing.T) {
	routes := []string{config.RouteLaunch, config.RouteArtist, config.RouteCountdown, config.RouteCountdownWS}
	seen := make(map[string]bool)
	for _, r := range routes {
		assert.True(t, strings.HasPrefix(r, "/"), r)
		assert.False(t, seen[r], "duplicate route %s", r)
		seen[r] = true
	}
}
