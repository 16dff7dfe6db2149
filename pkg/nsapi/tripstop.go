package nsapi

import (
	"fmt"
	"time"
)

// TripStop is a single station visited by a trip leg. A stop flagged as
// passing in the source data is a non-commercial stop: only its name is
// recorded.
type TripStop struct {
	Name            string         `json:"name"`
	PlannedTime     *time.Time     `json:"planned_time"`
	ActualTime      *time.Time     `json:"actual_time"`
	PlannedPlatform string         `json:"planned_platform"`
	ActualPlatform  string         `json:"actual_platform"`
	PlatformChanged bool           `json:"platform_changed"`
	Delay           *time.Duration `json:"delay"`
}

func (s TripStop) RecordKind() RecordKind {
	return KindTripStop
}

func (s TripStop) String() string {
	return fmt.Sprintf("<TripStop> %s", s.Name)
}

type tripStopPayload struct {
	Name                     string `json:"name"`
	Passing                  bool   `json:"passing"`
	PlannedDepartureDateTime string `json:"plannedDepartureDateTime"`
	ActualDepartureDateTime  string `json:"actualDepartureDateTime"`
	PlannedDepartureTrack    string `json:"plannedDepartureTrack"`
	ActualDepartureTrack     string `json:"actualDepartureTrack"`
}

func tripStopFromPayload(payload tripStopPayload) (TripStop, error) {
	if payload.Name == "" {
		return TripStop{}, fmt.Errorf("trip stop entry is missing its station name")
	}

	stop := TripStop{Name: payload.Name}

	// Passing stops are not boarding or alighting points and carry no
	// usable times or platform
	if payload.Passing {
		return stop, nil
	}

	if payload.PlannedDepartureDateTime != "" {
		plannedTime, err := ParseOffsetDateTime(payload.PlannedDepartureDateTime, DateTimeFormat)
		if err != nil {
			return TripStop{}, err
		}
		stop.PlannedTime = &plannedTime
	}

	if payload.ActualDepartureDateTime != "" {
		actualTime, err := ParseOffsetDateTime(payload.ActualDepartureDateTime, DateTimeFormat)
		if err != nil {
			return TripStop{}, err
		}
		stop.ActualTime = &actualTime
	}

	stop.PlannedPlatform = payload.PlannedDepartureTrack
	stop.ActualPlatform = payload.PlannedDepartureTrack
	if payload.ActualDepartureTrack != "" {
		stop.ActualPlatform = payload.ActualDepartureTrack
		stop.PlatformChanged = payload.ActualDepartureTrack != payload.PlannedDepartureTrack
	}

	if stop.PlannedTime != nil && stop.ActualTime != nil {
		delay := stop.ActualTime.Sub(*stop.PlannedTime)
		stop.Delay = &delay
	}

	return stop, nil
}
