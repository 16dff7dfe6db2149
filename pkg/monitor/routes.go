package monitor

import (
	"fmt"
	"os"
	"time"

	"github.com/treinwacht/treinwacht/pkg/util"
	"gopkg.in/yaml.v3"
)

// Only evaluate routes that are at most half an hour in the past or an
// hour in the future
const (
	maxTimePast   = 30 * time.Minute
	maxTimeFuture = time.Hour
)

// Route is one user-configured journey of interest: we watch its
// departure board and planned trip for delays.
type Route struct {
	Departure   string `yaml:"departure"`
	Destination string `yaml:"destination"`
	Via         string `yaml:"via"`
	Time        string `yaml:"time"`
	Keyword     string `yaml:"keyword"`
}

type routesFile struct {
	Routes []Route `yaml:"routes"`
}

func LoadRoutes(path string) ([]Route, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file routesFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, err
	}

	for index, route := range file.Routes {
		if route.Departure == "" || route.Destination == "" || route.Time == "" {
			return nil, fmt.Errorf("route %d is missing departure, destination or time", index)
		}
	}

	return file.Routes, nil
}

// WithinWindow reports whether the route's planned time is close enough
// to now to be worth checking.
func (r Route) WithinWindow(now time.Time) bool {
	clockTime, err := time.Parse("15:04", r.Time)
	if err != nil {
		return false
	}

	routeTime := util.AddTimeToDate(now, clockTime)
	delta := now.Sub(routeTime)

	if delta > maxTimePast {
		// the route was too long ago, skip it
		return false
	}
	if delta < -maxTimeFuture {
		// the route is too far in the future, skip it
		return false
	}

	return true
}
