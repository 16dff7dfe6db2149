package nsapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePointer(value time.Time) *time.Time {
	return &value
}

func durationPointer(value time.Duration) *time.Duration {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func sampleTime(hour int, minute int) time.Time {
	return time.Date(2022, time.February, 20, hour, minute, 0, 0, time.FixedZone("+0100", 3600))
}

func sampleTripStop() TripStop {
	return TripStop{
		Name:            "Alkmaar",
		PlannedTime:     timePointer(sampleTime(22, 30)),
		ActualTime:      timePointer(sampleTime(22, 37)),
		PlannedPlatform: "4b",
		ActualPlatform:  "5",
		PlatformChanged: true,
		Delay:           durationPointer(7 * time.Minute),
	}
}

func sampleTripSubpart() TripSubpart {
	return TripSubpart{
		TripType:      "PUBLIC_TRANSIT",
		Transporter:   "NS",
		TransportType: "IC",
		JourneyID:     "2260",
		Going:         true,
		HasDelay:      true,
		CrowdForecast: CrowdForecastLow,
		Stops: []TripStop{
			sampleTripStop(),
			{Name: "Amsterdam Centraal"},
		},
	}
}

func roundTrip(t *testing.T, record Record) Record {
	t.Helper()

	encoded, err := ToJSON(record)
	require.NoError(t, err)

	decoded, err := FromJSON(encoded)
	require.NoError(t, err)

	return decoded
}

func TestRoundTripDeparture(t *testing.T) {
	departure := Departure{
		Key:                  "2260_2022-02-20T22:30:00+0100",
		TripNumber:           "2260",
		DepartureTimePlanned: sampleTime(22, 30),
		DepartureTimeActual:  sampleTime(22, 37),
		DepartureStatus:      "ON_STATION",
		Delay:                7,
		PlatformPlanned:      "7",
		PlatformActual:       "7",
		Destination:          "Amsterdam Centraal",
		RouteText:            "Castricum, Zaandam, Amsterdam Sloterdijk",
		TrainCategory:        "IC",
		Carrier:              "NS",
	}

	assert.Equal(t, departure, roundTrip(t, departure))
}

func TestRoundTripDisruption(t *testing.T) {
	disruption := Disruption{
		Key:         "prio-13345",
		Line:        "'s-Hertogenbosch - Nijmegen",
		Description: "Sein- en wisselstoring",
		Type:        DisruptionTypeUnplanned,
		Timestamp:   timePointer(sampleTime(22, 0)),
	}

	assert.Equal(t, disruption, roundTrip(t, disruption))
}

func TestRoundTripDisruptionWithoutTimestamp(t *testing.T) {
	disruption := Disruption{
		Key:  "2022-0217",
		Line: "Amsterdam - Utrecht",
		Type: DisruptionTypePlanned,
	}

	assert.Equal(t, disruption, roundTrip(t, disruption))
}

func TestRoundTripStation(t *testing.T) {
	station := Station{
		EVACode:     "8400561",
		Code:        "SHL",
		UICCode:     "8400561",
		StationType: "MEGA_STATION",
		Names: StationNames{
			Short:  "Schiphol",
			Middle: "Schiphol Airport",
			Long:   "Schiphol Airport",
		},
		Country:           "NL",
		Latitude:          52.30944,
		Longitude:         4.76194,
		Synonyms:          []string{"Schiphol", "Amsterdam Schiphol"},
		HasFacilities:     true,
		HasDepartureTimes: true,
	}

	assert.Equal(t, station, roundTrip(t, station))
}

func TestRoundTripTripRemark(t *testing.T) {
	remark := TripRemark{
		Key:     "R1",
		IsGrave: true,
		Message: "Vervangend vervoer ingezet",
	}

	assert.Equal(t, remark, roundTrip(t, remark))
}

func TestRoundTripTripStop(t *testing.T) {
	assert.Equal(t, Record(sampleTripStop()), roundTrip(t, sampleTripStop()))

	// A passing stop only has a name
	minimal := TripStop{Name: "Uitgeest"}
	assert.Equal(t, Record(minimal), roundTrip(t, minimal))
}

func TestRoundTripTripSubpart(t *testing.T) {
	assert.Equal(t, Record(sampleTripSubpart()), roundTrip(t, sampleTripSubpart()))
}

func TestRoundTripTrip(t *testing.T) {
	trip := Trip{
		Status:                   TripStatusNormal,
		NrTransfers:              1,
		TravelTimePlanned:        intPointer(38),
		TravelTimeActual:         intPointer(45),
		CrowdForecast:            CrowdForecastMedium,
		Going:                    true,
		IsOptimal:                true,
		RequestedTime:            sampleTime(22, 30),
		DepartureTimePlanned:     timePointer(sampleTime(22, 30)),
		DepartureTimeActual:      timePointer(sampleTime(22, 37)),
		ArrivalTimePlanned:       timePointer(sampleTime(23, 8)),
		ArrivalTimeActual:        timePointer(sampleTime(23, 15)),
		DeparturePlatformPlanned: "7",
		DeparturePlatformActual:  "7",
		ArrivalPlatformPlanned:   "11",
		ArrivalPlatformActual:    "11a",
		TripParts:                []TripSubpart{sampleTripSubpart()},
		TripRemarks:              []TripRemark{{Key: "R1", IsGrave: false, Message: "Drukke trein"}},
	}

	assert.Equal(t, Record(trip), roundTrip(t, trip))
}

func TestRoundTripMinimalTrip(t *testing.T) {
	trip := Trip{
		Status:        TripStatusCancelled,
		CrowdForecast: CrowdForecastUnknown,
		RequestedTime: sampleTime(22, 30),
		TripParts:     []TripSubpart{},
		TripRemarks:   []TripRemark{},
	}

	assert.Equal(t, Record(trip), roundTrip(t, trip))
}

func TestToJSONContainsClassName(t *testing.T) {
	encoded, err := ToJSON(TripRemark{Key: "R1"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))

	assert.Equal(t, "TripRemark", decoded["class_name"])
}

func TestFromJSONUnknownKind(t *testing.T) {
	_, err := FromJSON(`{"class_name": "Spaceship"}`)
	assert.ErrorIs(t, err, ErrUnrecognisedRecordKind)

	_, err = FromJSON(`{"key": "no-tag"}`)
	assert.ErrorIs(t, err, ErrUnrecognisedRecordKind)
}

func TestEncodeDecodeRecordList(t *testing.T) {
	records := []Record{
		TripRemark{Key: "R1", Message: "eerste"},
		TripRemark{Key: "R2", Message: "tweede"},
	}

	encoded, err := EncodeRecordList(records)
	require.NoError(t, err)
	require.Len(t, encoded, 2)

	decoded := DecodeRecordList(encoded)
	assert.Equal(t, records, decoded)
}

func TestDecodeRecordListSkipsBadEntries(t *testing.T) {
	first, err := ToJSON(TripRemark{Key: "R1"})
	require.NoError(t, err)
	second, err := ToJSON(TripRemark{Key: "R2"})
	require.NoError(t, err)

	decoded := DecodeRecordList([]string{
		first,
		"",
		"null",
		`{"class_name": "Spaceship"}`,
		second,
	})

	assert.Equal(t, []Record{
		TripRemark{Key: "R1"},
		TripRemark{Key: "R2"},
	}, decoded)
}
