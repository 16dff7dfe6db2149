package nsapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// TripStatus is the upstream status tag of a suggested trip.
// Unrecognised values pass through as raw strings.
type TripStatus string

const (
	TripStatusNormal               TripStatus = "NORMAL"
	TripStatusCancelled            TripStatus = "CANCELLED"
	TripStatusDisruption           TripStatus = "DISRUPTION"
	TripStatusMaintenance          TripStatus = "MAINTENANCE"
	TripStatusUncertain            TripStatus = "UNCERTAIN"
	TripStatusReplacement          TripStatus = "REPLACEMENT"
	TripStatusAdditional           TripStatus = "ADDITIONAL"
	TripStatusSpecial              TripStatus = "SPECIAL"
	TripStatusChangeNotPossible    TripStatus = "CHANGE_NOT_POSSIBLE"
	TripStatusAlternativeTransport TripStatus = "ALTERNATIVE_TRANSPORT"
)

// Trip is one suggested journey for a departure/destination
// combination, potentially spanning multiple legs.
type Trip struct {
	Status                   TripStatus    `json:"status"`
	NrTransfers              int           `json:"nr_transfers"`
	TravelTimePlanned        *int          `json:"travel_time_planned"`
	TravelTimeActual         *int          `json:"travel_time_actual"`
	CrowdForecast            CrowdForecast `json:"crowd_forecast"`
	Going                    bool          `json:"going"`
	IsOptimal                bool          `json:"is_optimal"`
	RequestedTime            time.Time     `json:"requested_time"`
	DepartureTimePlanned     *time.Time    `json:"departure_time_planned"`
	DepartureTimeActual      *time.Time    `json:"departure_time_actual"`
	ArrivalTimePlanned       *time.Time    `json:"arrival_time_planned"`
	ArrivalTimeActual        *time.Time    `json:"arrival_time_actual"`
	DeparturePlatformPlanned string        `json:"departure_platform_planned"`
	DeparturePlatformActual  string        `json:"departure_platform_actual"`
	ArrivalPlatformPlanned   string        `json:"arrival_platform_planned"`
	ArrivalPlatformActual    string        `json:"arrival_platform_actual"`
	TripParts                []TripSubpart `json:"trip_parts"`
	TripRemarks              []TripRemark  `json:"trip_remarks"`
}

func (t Trip) RecordKind() RecordKind {
	return KindTrip
}

// Departure returns the name of the very first stop of the trip.
func (t Trip) Departure() string {
	if len(t.TripParts) == 0 {
		return ""
	}
	return t.TripParts[0].Departure()
}

// Destination returns the name of the very last stop of the trip.
func (t Trip) Destination() string {
	if len(t.TripParts) == 0 {
		return ""
	}
	return t.TripParts[len(t.TripParts)-1].Destination()
}

// HasDelay reports whether anything about the trip deviates from plan:
// a non-normal status, a departure that differs from the requested
// instant, or (with arrivalCheck) an arrival differing from plan.
func (t Trip) HasDelay(arrivalCheck bool) bool {
	if t.Status != TripStatusNormal {
		return true
	}

	departureTime := t.DepartureTimeActual
	if departureTime == nil {
		departureTime = t.DepartureTimePlanned
	}
	if departureTime != nil && !t.RequestedTime.Equal(*departureTime) {
		return true
	}

	if arrivalCheck && t.ArrivalTimePlanned != nil && t.ArrivalTimeActual != nil &&
		!t.ArrivalTimePlanned.Equal(*t.ArrivalTimeActual) {
		return true
	}

	return false
}

func (t Trip) String() string {
	return fmt.Sprintf("<Trip> plan: %v actual: %v transfers: %d",
		t.DepartureTimePlanned, t.DepartureTimeActual, t.NrTransfers)
}

// FindActualTrip returns the first trip whose planned departure,
// formatted as HH:MM, matches the given clock time.
func FindActualTrip(trips []Trip, tripTime string) *Trip {
	for i := range trips {
		if trips[i].DepartureTimePlanned != nil && FormatShort(*trips[i].DepartureTimePlanned) == tripTime {
			return &trips[i]
		}
	}
	return nil
}

// FindOptimalTrip returns the first trip the upstream flagged as the
// recommended option.
func FindOptimalTrip(trips []Trip) *Trip {
	for i := range trips {
		if trips[i].IsOptimal {
			return &trips[i]
		}
	}
	return nil
}

type tripPayload struct {
	Status                   string          `json:"status"`
	Transfers                int             `json:"transfers"`
	PlannedDurationInMinutes *int            `json:"plannedDurationInMinutes"`
	ActualDurationInMinutes  *int            `json:"actualDurationInMinutes"`
	CrowdForecast            string          `json:"crowdForecast"`
	Optimal                  bool            `json:"optimal"`
	Legs                     json.RawMessage `json:"legs"`
	Melding                  json.RawMessage `json:"Melding"`
}

type tripLegPayload struct {
	tripSubpartPayload
	Origin      legEndpointPayload `json:"origin"`
	Destination legEndpointPayload `json:"destination"`
}

type legEndpointPayload struct {
	PlannedDateTime string `json:"plannedDateTime"`
	ActualDateTime  string `json:"actualDateTime"`
	PlannedTrack    string `json:"plannedTrack"`
	ActualTrack     string `json:"actualTrack"`
}

func tripFromPayload(raw json.RawMessage, requestedTime time.Time) (Trip, error) {
	var payload tripPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Trip{}, err
	}

	trip := Trip{
		Status:           TripStatus(payload.Status),
		NrTransfers:      payload.Transfers,
		TravelTimeActual: payload.ActualDurationInMinutes,
		CrowdForecast:    CrowdForecastUnknown,
		Going:            true,
		IsOptimal:        payload.Optimal,
		RequestedTime:    requestedTime,
		TripParts:        []TripSubpart{},
		TripRemarks:      []TripRemark{},
	}

	if payload.CrowdForecast != "" {
		trip.CrowdForecast = CrowdForecast(payload.CrowdForecast)
	}

	// An absent planned duration means the train no longer runs
	if payload.PlannedDurationInMinutes != nil {
		trip.TravelTimePlanned = payload.PlannedDurationInMinutes
	} else {
		trip.Going = false
	}
	if trip.Status == TripStatusCancelled {
		trip.Going = false
	}

	rawLegs, err := collapseSingleton(payload.Legs)
	if err != nil {
		return Trip{}, err
	}

	var legs []tripLegPayload
	for _, rawLeg := range rawLegs {
		var leg tripLegPayload
		if err := json.Unmarshal(rawLeg, &leg); err != nil {
			return Trip{}, err
		}
		legs = append(legs, leg)

		part, err := tripSubpartFromPayload(leg.tripSubpartPayload)
		if err != nil {
			return Trip{}, err
		}
		trip.TripParts = append(trip.TripParts, part)
	}

	if len(legs) > 0 {
		origin := legs[0].Origin
		destination := legs[len(legs)-1].Destination

		if origin.PlannedDateTime != "" {
			plannedTime, err := ParseOffsetDateTime(origin.PlannedDateTime, DateTimeFormat)
			if err != nil {
				return Trip{}, err
			}
			trip.DepartureTimePlanned = &plannedTime
		}
		if origin.ActualDateTime != "" {
			actualTime, err := ParseOffsetDateTime(origin.ActualDateTime, DateTimeFormat)
			if err != nil {
				return Trip{}, err
			}
			trip.DepartureTimeActual = &actualTime
		}
		if destination.PlannedDateTime != "" {
			plannedTime, err := ParseOffsetDateTime(destination.PlannedDateTime, DateTimeFormat)
			if err != nil {
				return Trip{}, err
			}
			trip.ArrivalTimePlanned = &plannedTime
		}
		if destination.ActualDateTime != "" {
			actualTime, err := ParseOffsetDateTime(destination.ActualDateTime, DateTimeFormat)
			if err != nil {
				return Trip{}, err
			}
			trip.ArrivalTimeActual = &actualTime
		}

		trip.DeparturePlatformPlanned = origin.PlannedTrack
		trip.DeparturePlatformActual = origin.PlannedTrack
		if origin.ActualTrack != "" {
			trip.DeparturePlatformActual = origin.ActualTrack
		}

		trip.ArrivalPlatformPlanned = destination.PlannedTrack
		trip.ArrivalPlatformActual = destination.PlannedTrack
		if destination.ActualTrack != "" {
			trip.ArrivalPlatformActual = destination.ActualTrack
		}
	}

	if len(payload.Melding) > 0 {
		rawRemarks, err := collapseSingleton(payload.Melding)
		if err != nil {
			return Trip{}, err
		}

		for _, rawRemark := range rawRemarks {
			var remarkPayload tripRemarkPayload
			if err := json.Unmarshal(rawRemark, &remarkPayload); err != nil {
				return Trip{}, err
			}

			remark, err := tripRemarkFromPayload(remarkPayload)
			if err != nil {
				return Trip{}, err
			}
			trip.TripRemarks = append(trip.TripRemarks, remark)
		}
	}

	return trip, nil
}
