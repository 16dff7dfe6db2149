package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/treinwacht/treinwacht/pkg/notify"
	"github.com/treinwacht/treinwacht/pkg/nsapi"
	"github.com/treinwacht/treinwacht/pkg/util"
)

// Watcher periodically evaluates the configured routes of interest and
// queues a push notification for every delay or disruption not seen
// before.
type Watcher struct {
	Client      *nsapi.Client
	Store       *StateStore
	Routes      []Route
	RefreshRate time.Duration

	Queue rmq.Queue
}

type routeFindings struct {
	records []nsapi.Record
	lines   []string
}

func (w *Watcher) Run() {
	log.Info().
		Int("routes", len(w.Routes)).
		Dur("refresh", w.RefreshRate).
		Msg("Starting route watcher")

	for {
		startTime := time.Now()

		w.Check(context.Background())

		endTime := time.Now()
		executionDuration := endTime.Sub(startTime)
		waitTime := w.RefreshRate - executionDuration

		if waitTime.Seconds() > 0 {
			time.Sleep(waitTime)
		}
	}
}

// Check runs a single polling cycle.
func (w *Watcher) Check(ctx context.Context) {
	if !w.Store.NotificationsEnabled(ctx) {
		log.Debug().Msg("Notifications disabled, skipping check")
		return
	}

	now := time.Now()

	p := pool.NewWithResults[routeFindings]().WithMaxGoroutines(4)
	for _, route := range w.Routes {
		if !route.WithinWindow(now) {
			continue
		}

		p.Go(func() routeFindings {
			return w.checkRoute(route)
		})
	}

	var delayRecords []nsapi.Record
	var delayLines []string
	for _, findings := range p.Wait() {
		delayRecords = append(delayRecords, findings.records...)
		delayLines = append(delayLines, findings.lines...)
	}

	w.notifyNew(ctx, DelaySnapshotKey, "NS vertraging", delayRecords, delayLines)

	w.checkDisruptions(ctx)
}

func (w *Watcher) checkRoute(route Route) routeFindings {
	var findings routeFindings

	departures, err := w.Client.GetDepartures(route.Departure, 25)
	if err != nil {
		log.Error().Err(err).Str("station", route.Departure).Msg("Failed to fetch departures")
	}

	for _, departure := range departures {
		if !departure.HasDelay() && !departure.Cancelled {
			continue
		}
		if !routeMatchesDeparture(route, departure) {
			continue
		}

		findings.records = append(findings.records, departure)
		findings.lines = append(findings.lines, formatDepartureLine(route, departure))
	}

	trips, err := w.Client.GetTrips(route.Time, route.Departure, route.Via, route.Destination, true, 1, 1)
	if err != nil {
		log.Error().Err(err).Str("from", route.Departure).Str("to", route.Destination).Msg("Failed to fetch trips")
	}

	if trip := nsapi.FindActualTrip(trips, route.Time); trip != nil && trip.HasDelay(true) {
		findings.records = append(findings.records, *trip)
		findings.lines = append(findings.lines, formatTripLine(route, *trip))
	}

	return findings
}

func (w *Watcher) checkDisruptions(ctx context.Context) {
	disruptions, err := w.Client.GetDisruptions("", true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch disruptions")
		return
	}

	var records []nsapi.Record
	var lines []string
	for _, disruption := range disruptions.Unplanned {
		records = append(records, disruption)
		lines = append(lines, formatDisruptionLine(disruption))
	}

	w.notifyNew(ctx, DisruptionSnapshotKey, "NS storing", records, lines)
}

// notifyNew diffs the freshly found records against the stored
// snapshot, queues a notification for the new ones and stores the
// merged set so the next cycle stays quiet about them.
func (w *Watcher) notifyNew(ctx context.Context, snapshotKey string, title string, records []nsapi.Record, lines []string) {
	previous := w.Store.Snapshot(ctx, snapshotKey)
	fresh := nsapi.Diff(previous, records)

	if len(fresh) > 0 {
		freshLines := util.RemoveDuplicateStrings(lines, nil)

		w.publish(notify.Notification{
			Title:   title,
			Message: strings.Join(freshLines, "\n\n"),
		})
	}

	if err := w.Store.StoreSnapshot(ctx, snapshotKey, nsapi.Merge(previous, records)); err != nil {
		log.Error().Err(err).Str("key", snapshotKey).Msg("Failed to store snapshot")
	}
}

func (w *Watcher) publish(notification notify.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode notification")
		return
	}

	if err := w.Queue.Publish(string(payload)); err != nil {
		log.Error().Err(err).Msg("Failed to queue notification")
		return
	}

	log.Info().Str("title", notification.Title).Msg("Queued notification")
}

func routeMatchesDeparture(route Route, departure nsapi.Departure) bool {
	if route.Keyword != "" {
		return strings.Contains(departure.RouteText, route.Keyword)
	}

	return departure.Destination == route.Destination ||
		strings.Contains(departure.RouteText, route.Destination)
}

func formatDepartureLine(route Route, departure nsapi.Departure) string {
	if departure.Cancelled {
		return fmt.Sprintf("%s:\n%s %s naar %s rijdt niet",
			route.Departure,
			nsapi.FormatShort(departure.DepartureTimePlanned),
			departure.TrainCategory,
			departure.Destination,
		)
	}

	line := fmt.Sprintf("%s:\n%s %s naar %s heeft %d minuten vertraging",
		route.Departure,
		nsapi.FormatShort(departure.DepartureTimePlanned),
		departure.TrainCategory,
		departure.Destination,
		departure.Delay,
	)

	if departure.PlatformChanged {
		line += fmt.Sprintf(", vertrekt van spoor %s", departure.PlatformActual)
	}

	return line
}

func formatTripLine(route Route, trip nsapi.Trip) string {
	line := fmt.Sprintf("Route %s - %s van %s", route.Departure, route.Destination, route.Time)

	if trip.Status != nsapi.TripStatusNormal {
		line += fmt.Sprintf("\nStatus: %s", trip.Status)
	}

	if trip.DepartureTimePlanned != nil && trip.DepartureTimeActual != nil &&
		trip.DepartureTimeActual.After(*trip.DepartureTimePlanned) {
		delay := trip.DepartureTimeActual.Sub(*trip.DepartureTimePlanned)
		line += fmt.Sprintf("\nVertrekvertraging: %s op spoor %s",
			nsapi.FormatShortDuration(delay), trip.DeparturePlatformActual)
	}

	if trip.ArrivalTimePlanned != nil && trip.ArrivalTimeActual != nil &&
		trip.ArrivalTimeActual.After(*trip.ArrivalTimePlanned) {
		delay := trip.ArrivalTimeActual.Sub(*trip.ArrivalTimePlanned)
		line += fmt.Sprintf("\nAankomstvertraging: %s op spoor %s",
			nsapi.FormatShortDuration(delay), trip.ArrivalPlatformActual)
	}

	return line
}

func formatDisruptionLine(disruption nsapi.Disruption) string {
	if disruption.Description == "" {
		return disruption.Line
	}

	return fmt.Sprintf("%s:\n%s", disruption.Line, disruption.Description)
}
