package nsapi

import (
	"fmt"
	"time"
)

// Departure is a single departing train on a station departure board.
type Departure struct {
	Key                  string    `json:"key"`
	TripNumber           string    `json:"trip_number"`
	DepartureTimePlanned time.Time `json:"departure_time_planned"`
	DepartureTimeActual  time.Time `json:"departure_time_actual"`
	DepartureStatus      string    `json:"departure_status"`
	Cancelled            bool      `json:"cancelled"`
	Delay                int       `json:"delay"`
	PlatformPlanned      string    `json:"departure_platform"`
	PlatformActual       string    `json:"departure_platform_actual"`
	PlatformChanged      bool      `json:"has_platform_changed"`
	Destination          string    `json:"destination"`
	RouteText            string    `json:"route_text"`
	TrainCategory        string    `json:"train_type"`
	Carrier              string    `json:"carrier"`
}

func (d Departure) RecordKind() RecordKind {
	return KindDeparture
}

// HasDelay reports whether the train is known to depart later than
// planned.
func (d Departure) HasDelay() bool {
	return d.Delay > 0
}

func (d Departure) String() string {
	return fmt.Sprintf("<Departure> trip_number: %s %s %s", d.TripNumber, d.Destination, d.DepartureTimePlanned)
}

type departurePayload struct {
	Product         productPayload `json:"product"`
	PlannedDateTime string         `json:"plannedDateTime"`
	ActualDateTime  string         `json:"actualDateTime"`
	DepartureStatus string         `json:"departureStatus"`
	Cancelled       bool           `json:"cancelled"`
	PlannedTrack    string         `json:"plannedTrack"`
	ActualTrack     string         `json:"actualTrack"`
	Direction       string         `json:"direction"`
	RouteTekst      string         `json:"RouteTekst"`
	TrainCategory   string         `json:"trainCategory"`
}

type productPayload struct {
	Number       string `json:"number"`
	CategoryCode string `json:"categoryCode"`
	OperatorName string `json:"operatorName"`
}

func departureFromPayload(payload departurePayload) (Departure, error) {
	if payload.Product.Number == "" {
		return Departure{}, fmt.Errorf("departure entry is missing its trip number")
	}

	plannedTime, err := ParseOffsetDateTime(payload.PlannedDateTime, DateTimeFormat)
	if err != nil {
		return Departure{}, err
	}

	departure := Departure{
		Key:                  payload.Product.Number + "_" + payload.PlannedDateTime,
		TripNumber:           payload.Product.Number,
		DepartureTimePlanned: plannedTime,
		DepartureTimeActual:  plannedTime,
		DepartureStatus:      payload.DepartureStatus,
		Cancelled:            payload.Cancelled,
		PlatformPlanned:      payload.PlannedTrack,
		PlatformActual:       payload.PlannedTrack,
		Destination:          payload.Direction,
		RouteText:            payload.RouteTekst,
		TrainCategory:        payload.TrainCategory,
		Carrier:              payload.Product.OperatorName,
	}

	if payload.ActualDateTime != "" {
		actualTime, err := ParseOffsetDateTime(payload.ActualDateTime, DateTimeFormat)
		if err != nil {
			return Departure{}, err
		}

		departure.DepartureTimeActual = actualTime

		if delay := actualTime.Sub(plannedTime); delay > 0 {
			departure.Delay = int(delay.Minutes())
		}
	}

	if payload.ActualTrack != "" {
		departure.PlatformActual = payload.ActualTrack
		departure.PlatformChanged = payload.ActualTrack != payload.PlannedTrack
	}

	return departure, nil
}
