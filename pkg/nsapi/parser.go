package nsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Disruptions holds one API call's worth of disruptions, classified by
// their upstream type tag.
type Disruptions struct {
	Unplanned []Disruption
	Planned   []Disruption
}

// collapseSingleton normalises the upstream quirk where a one-element
// sequence collapses to a bare object.
func collapseSingleton(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		return []json.RawMessage{trimmed}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ParseDisruptions maps a disruptions endpoint payload onto Disruption
// records, split into unplanned incidents and planned maintenance.
func ParseDisruptions(data []byte) (*Disruptions, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDataReceived
	}

	var response struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode disruptions response: %w", err)
	}

	disruptions := &Disruptions{
		Unplanned: []Disruption{},
		Planned:   []Disruption{},
	}

	entries, err := collapseSingleton(response.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode disruptions payload: %w", err)
	}

	for _, entry := range entries {
		var payload disruptionPayload
		if err := json.Unmarshal(entry, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode disruption entry: %w", err)
		}

		switch payload.Type {
		case "storing", "verstoring":
			disruption, err := disruptionFromPayload(payload, DisruptionTypeUnplanned)
			if err != nil {
				return nil, err
			}
			disruptions.Unplanned = append(disruptions.Unplanned, disruption)
		case "werkzaamheid":
			disruption, err := disruptionFromPayload(payload, DisruptionTypePlanned)
			if err != nil {
				return nil, err
			}
			disruptions.Planned = append(disruptions.Planned, disruption)
		default:
			log.Debug().Str("type", payload.Type).Msg("Skipping disruption of unknown type")
		}
	}

	return disruptions, nil
}

// ParseDepartures maps a departures endpoint payload onto Departure
// records, preserving source order.
func ParseDepartures(data []byte) ([]Departure, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDataReceived
	}

	var response struct {
		Payload struct {
			Departures []departurePayload `json:"departures"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode departures response: %w", err)
	}

	departures := []Departure{}
	for _, payload := range response.Payload.Departures {
		departure, err := departureFromPayload(payload)
		if err != nil {
			return nil, err
		}
		departures = append(departures, departure)
	}

	return departures, nil
}

// ParseTrips maps a trip-planning endpoint payload onto Trip records.
// An upstream-reported planning failure, or an absent trips list,
// yields a nil result without an error; callers must treat nil as
// distinct from an empty list.
func ParseTrips(data []byte, requestedTime time.Time) ([]Trip, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDataReceived
	}

	var response struct {
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
		Trips json.RawMessage `json:"trips"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode trips response: %w", err)
	}

	if response.Error != nil {
		log.Info().Str("message", response.Error.Message).Msg("NS API reported a trip planning error")
		return nil, nil
	}

	rawTrips := bytes.TrimSpace(response.Trips)
	if len(rawTrips) == 0 || bytes.Equal(rawTrips, []byte("null")) {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawTrips, &entries); err != nil {
		log.Info().Err(err).Msg("Trips payload is not a list, no trip options found")
		return nil, nil
	}

	trips := []Trip{}
	for _, entry := range entries {
		trip, err := tripFromPayload(entry, requestedTime)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// ParseStations maps a stations endpoint payload onto Station records.
// A payload without the expected wrapper field means the upstream
// rejected the request parameters rather than returning zero rows.
func ParseStations(data []byte) ([]Station, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDataReceived
	}

	var response map[string]json.RawMessage
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to decode stations response: %w", err)
	}

	rawPayload, found := response["payload"]
	if !found {
		return nil, ErrRequestRejected
	}

	var entries []stationPayload
	if err := json.Unmarshal(rawPayload, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode stations payload: %w", err)
	}

	stations := []Station{}
	for _, payload := range entries {
		station, err := stationFromPayload(payload)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, nil
}
