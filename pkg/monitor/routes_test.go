package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoutesFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadRoutes(t *testing.T) {
	path := writeRoutesFile(t, `
routes:
  - departure: Alkmaar
    destination: Amsterdam Centraal
    time: "08:15"
  - departure: Amsterdam Centraal
    destination: Alkmaar
    via: Zaandam
    time: "17:30"
    keyword: Uitgeest
`)

	routes, err := LoadRoutes(path)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "Alkmaar", routes[0].Departure)
	assert.Equal(t, "08:15", routes[0].Time)
	assert.Equal(t, "Zaandam", routes[1].Via)
	assert.Equal(t, "Uitgeest", routes[1].Keyword)
}

func TestLoadRoutesMissingFields(t *testing.T) {
	path := writeRoutesFile(t, `
routes:
  - departure: Alkmaar
    time: "08:15"
`)

	_, err := LoadRoutes(path)
	assert.Error(t, err)
}

func TestLoadRoutesMissingFile(t *testing.T) {
	_, err := LoadRoutes(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRouteWithinWindow(t *testing.T) {
	now := time.Date(2022, time.February, 20, 8, 0, 0, 0, time.UTC)

	assert.True(t, Route{Time: "08:15"}.WithinWindow(now))
	assert.True(t, Route{Time: "07:35"}.WithinWindow(now))
	assert.True(t, Route{Time: "09:00"}.WithinWindow(now))

	// Too long ago
	assert.False(t, Route{Time: "07:25"}.WithinWindow(now))
	// Too far ahead
	assert.False(t, Route{Time: "09:05"}.WithinWindow(now))
	// Unparseable time never matches
	assert.False(t, Route{Time: "morning"}.WithinWindow(now))
}
