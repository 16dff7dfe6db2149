package nsapi

import (
	"fmt"
	"time"
)

// CrowdForecast is the upstream categorical estimate of passenger
// occupancy. Unrecognised values are stored verbatim so newer API
// vocabulary survives a round trip.
type CrowdForecast string

const (
	CrowdForecastUnknown CrowdForecast = "UNKNOWN"
	CrowdForecastLow     CrowdForecast = "LOW"
	CrowdForecastMedium  CrowdForecast = "MEDIUM"
	CrowdForecastHigh    CrowdForecast = "HIGH"
)

// TripSubpart is one uninterrupted vehicle segment of a trip; each
// subsequent part means a transfer.
type TripSubpart struct {
	TripType      string        `json:"trip_type"`
	Transporter   string        `json:"transporter"`
	TransportType string        `json:"transport_type"`
	JourneyID     string        `json:"journey_id"`
	Going         bool          `json:"going"`
	HasDelay      bool          `json:"has_delay"`
	CrowdForecast CrowdForecast `json:"crowd_forecast"`
	Stops         []TripStop    `json:"stops"`
}

func (p TripSubpart) RecordKind() RecordKind {
	return KindTripSubpart
}

// Departure returns the name of the first stop of the leg.
func (p TripSubpart) Departure() string {
	if len(p.Stops) == 0 {
		return ""
	}
	return p.Stops[0].Name
}

// Destination returns the name of the last stop of the leg.
func (p TripSubpart) Destination() string {
	if len(p.Stops) == 0 {
		return ""
	}
	return p.Stops[len(p.Stops)-1].Name
}

func (p TripSubpart) DepartureTimePlanned() *time.Time {
	if len(p.Stops) == 0 {
		return nil
	}
	return p.Stops[0].PlannedTime
}

func (p TripSubpart) DepartureTimeActual() *time.Time {
	if len(p.Stops) == 0 {
		return nil
	}
	return p.Stops[0].ActualTime
}

func (p TripSubpart) ArrivalTimePlanned() *time.Time {
	if len(p.Stops) == 0 {
		return nil
	}
	return p.Stops[len(p.Stops)-1].PlannedTime
}

func (p TripSubpart) ArrivalTimeActual() *time.Time {
	if len(p.Stops) == 0 {
		return nil
	}
	return p.Stops[len(p.Stops)-1].ActualTime
}

// HasDepartureDelay reports whether the leg is running late. With
// arrivalCheck the leg's own delay flag is used; without it only the
// stops before the final one count, so a delay that exists purely at
// the destination is ignored.
func (p TripSubpart) HasDepartureDelay(arrivalCheck bool) bool {
	if !arrivalCheck && p.HasDelay {
		delayFound := false
		for i, stop := range p.Stops {
			if i == len(p.Stops)-1 {
				break
			}
			if stop.Delay != nil && *stop.Delay > 0 {
				delayFound = true
			}
		}
		return delayFound
	}
	return p.HasDelay
}

func (p TripSubpart) String() string {
	return fmt.Sprintf("<TripSubpart> [%t] %s %s %s", p.Going, p.JourneyID, p.TripType, p.TransportType)
}

type tripSubpartPayload struct {
	TravelType    string            `json:"travelType"`
	Product       *productPayload   `json:"product"`
	Cancelled     bool              `json:"cancelled"`
	CrowdForecast string            `json:"crowdForecast"`
	Stops         []tripStopPayload `json:"stops"`
}

func tripSubpartFromPayload(payload tripSubpartPayload) (TripSubpart, error) {
	part := TripSubpart{
		TripType:      payload.TravelType,
		TransportType: "-",
		JourneyID:     "0",
		Going:         !payload.Cancelled,
		CrowdForecast: CrowdForecastUnknown,
		Stops:         []TripStop{},
	}

	if payload.Product != nil {
		part.Transporter = payload.Product.OperatorName
		if payload.Product.CategoryCode != "" {
			part.TransportType = payload.Product.CategoryCode
		}
		if payload.Product.Number != "" {
			part.JourneyID = payload.Product.Number
		}
	}

	if payload.CrowdForecast != "" {
		part.CrowdForecast = CrowdForecast(payload.CrowdForecast)
	}

	for _, rawStop := range payload.Stops {
		stop, err := tripStopFromPayload(rawStop)
		if err != nil {
			return TripSubpart{}, err
		}

		if stop.Delay != nil && *stop.Delay > 0 {
			part.HasDelay = true
		}

		part.Stops = append(part.Stops, stop)
	}

	return part, nil
}
