package nsapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const departuresResponse = `{
	"payload": {
		"departures": [
			{
				"product": {
					"number": "2260",
					"categoryCode": "IC",
					"longCategoryName": "Intercity",
					"operatorName": "NS"
				},
				"plannedDateTime": "2022-02-20T22:30:00+0100",
				"actualDateTime": "2022-02-20T22:37:00+0100",
				"departureStatus": "ON_STATION",
				"cancelled": false,
				"plannedTrack": "7",
				"actualTrack": "7",
				"direction": "Amsterdam Centraal",
				"routeStations": [
					{"uicCode": "8400561", "mediumName": "Schiphol Airport"}
				],
				"messages": []
			},
			{
				"product": {
					"number": "5778",
					"categoryCode": "SPR",
					"longCategoryName": "Sprinter",
					"operatorName": "NS"
				},
				"plannedDateTime": "2022-02-20T22:45:00+0100",
				"actualDateTime": "2022-02-20T22:45:00+0100",
				"departureStatus": "INCOMING",
				"cancelled": true,
				"plannedTrack": "4b",
				"actualTrack": "5",
				"direction": "Hoorn",
				"messages": []
			}
		]
	}
}`

func TestParseDepartures(t *testing.T) {
	departures, err := ParseDepartures([]byte(departuresResponse))
	require.NoError(t, err)
	require.Len(t, departures, 2)

	first := departures[0]
	assert.Equal(t, "2260", first.TripNumber)
	assert.Equal(t, "2260_2022-02-20T22:30:00+0100", first.Key)
	assert.Equal(t, 7, first.Delay)
	assert.True(t, first.HasDelay())
	assert.False(t, first.Cancelled)
	assert.Equal(t, "7", first.PlatformPlanned)
	assert.Equal(t, "7", first.PlatformActual)
	assert.False(t, first.PlatformChanged)
	assert.Equal(t, "Amsterdam Centraal", first.Destination)

	second := departures[1]
	assert.True(t, second.Cancelled)
	assert.Equal(t, 0, second.Delay)
	assert.False(t, second.HasDelay())
	assert.Equal(t, "5", second.PlatformActual)
	assert.True(t, second.PlatformChanged)
}

func TestParseDeparturesEmptyInput(t *testing.T) {
	_, err := ParseDepartures(nil)
	assert.ErrorIs(t, err, ErrNoDataReceived)

	_, err = ParseDepartures([]byte("  "))
	assert.ErrorIs(t, err, ErrNoDataReceived)
}

const disruptionEntry = `{
	"id": "prio-13345",
	"titel": "'s-Hertogenbosch - Nijmegen",
	"verstoring": "Door een sein- en wisselstoring is er minder treinverkeer mogelijk",
	"type": "storing",
	"datum": "2022-02-20T22:00:00+0100"
}`

func TestParseDisruptions(t *testing.T) {
	response := `{"payload": [` + disruptionEntry + `, {
		"id": "2022-0217",
		"titel": "Amsterdam - Utrecht",
		"verstoring": "Werkzaamheden",
		"type": "werkzaamheid"
	}, {
		"id": "mystery-1",
		"titel": "???",
		"type": "evenement"
	}]}`

	disruptions, err := ParseDisruptions([]byte(response))
	require.NoError(t, err)

	require.Len(t, disruptions.Unplanned, 1)
	require.Len(t, disruptions.Planned, 1)

	unplanned := disruptions.Unplanned[0]
	assert.Equal(t, "prio-13345", unplanned.Key)
	assert.Equal(t, "'s-Hertogenbosch - Nijmegen", unplanned.Line)
	assert.Equal(t, DisruptionTypeUnplanned, unplanned.Type)
	require.NotNil(t, unplanned.Timestamp)
	assert.Equal(t, 22, unplanned.Timestamp.Hour())

	planned := disruptions.Planned[0]
	assert.Equal(t, DisruptionTypePlanned, planned.Type)
	assert.Nil(t, planned.Timestamp)
}

func TestParseDisruptionsSingletonPayload(t *testing.T) {
	asObject, err := ParseDisruptions([]byte(`{"payload": ` + disruptionEntry + `}`))
	require.NoError(t, err)

	asList, err := ParseDisruptions([]byte(`{"payload": [` + disruptionEntry + `]}`))
	require.NoError(t, err)

	assert.Equal(t, asList, asObject)
}

func TestParseDisruptionsEmptyPayload(t *testing.T) {
	disruptions, err := ParseDisruptions([]byte(`{"payload": []}`))
	require.NoError(t, err)

	assert.Empty(t, disruptions.Unplanned)
	assert.Empty(t, disruptions.Planned)
}

const cancelledTripResponse = `{
	"trips": [
		{
			"status": "CANCELLED",
			"transfers": 0,
			"actualDurationInMinutes": 38,
			"optimal": true,
			"legs": {
				"travelType": "PUBLIC_TRANSIT",
				"cancelled": true,
				"product": {
					"number": "2260",
					"categoryCode": "IC",
					"operatorName": "NS"
				},
				"origin": {
					"plannedDateTime": "2022-02-20T22:30:00+0100",
					"plannedTrack": "7"
				},
				"destination": {
					"plannedDateTime": "2022-02-20T23:08:00+0100",
					"plannedTrack": "11"
				},
				"stops": [
					{
						"name": "Alkmaar",
						"plannedDepartureDateTime": "2022-02-20T22:30:00+0100",
						"plannedDepartureTrack": "7"
					},
					{
						"name": "Amsterdam Centraal"
					}
				]
			}
		}
	]
}`

func TestParseTripsCancelled(t *testing.T) {
	requestedTime := time.Date(2022, time.February, 20, 22, 30, 0, 0, time.FixedZone("+0100", 3600))

	trips, err := ParseTrips([]byte(cancelledTripResponse), requestedTime)
	require.NoError(t, err)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, TripStatusCancelled, trip.Status)
	assert.False(t, trip.Going)
	assert.Nil(t, trip.TravelTimePlanned)
	require.NotNil(t, trip.TravelTimeActual)
	assert.Equal(t, 38, *trip.TravelTimeActual)
	assert.True(t, trip.HasDelay(false))

	require.Len(t, trip.TripParts, 1)
	part := trip.TripParts[0]
	assert.False(t, part.Going)
	assert.Equal(t, "IC", part.TransportType)
	assert.Equal(t, "2260", part.JourneyID)
	assert.Equal(t, "Alkmaar", part.Departure())
	assert.Equal(t, "Amsterdam Centraal", part.Destination())

	assert.Equal(t, "Alkmaar", trip.Departure())
	assert.Equal(t, "Amsterdam Centraal", trip.Destination())
}

func TestParseTripsErrorPayload(t *testing.T) {
	response := `{"error": {"type": "OUT_OF_PLANNING_PERIOD", "message": "Date is outside planning period"}}`

	trips, err := ParseTrips([]byte(response), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, trips)
}

func TestParseTripsAbsentList(t *testing.T) {
	trips, err := ParseTrips([]byte(`{"trips": null}`), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, trips)

	trips, err = ParseTrips([]byte(`{"source": "HARP"}`), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, trips)
}

func TestParseTripsEmptyInput(t *testing.T) {
	_, err := ParseTrips(nil, time.Now())
	assert.ErrorIs(t, err, ErrNoDataReceived)
}

const stationsResponse = `{
	"payload": [
		{
			"EVACode": "8400561",
			"code": "SHL",
			"UICCode": "8400561",
			"stationType": "MEGA_STATION",
			"namen": {
				"kort": "Schiphol",
				"middel": "Schiphol Airport",
				"lang": "Schiphol Airport"
			},
			"land": "NL",
			"lat": 52.30944,
			"lng": 4.76194,
			"synoniemen": ["Schiphol", "Amsterdam Schiphol"],
			"heeftFaciliteiten": true,
			"heeftReisassistentie": true,
			"heeftVertrektijden": true
		},
		{
			"EVACode": "8400058",
			"code": "AMR",
			"UICCode": "8400058",
			"stationType": "KNOOPPUNT_INTERCITY_STATION",
			"namen": {
				"kort": "Alkmaar",
				"middel": "Alkmaar",
				"lang": "Alkmaar"
			},
			"land": "NL",
			"lat": 52.637779,
			"lng": 4.739722,
			"synoniemen": "Alckmaer",
			"heeftFaciliteiten": true,
			"heeftReisassistentie": false,
			"heeftVertrektijden": true
		}
	]
}`

func TestParseStations(t *testing.T) {
	stations, err := ParseStations([]byte(stationsResponse))
	require.NoError(t, err)
	require.Len(t, stations, 2)

	schiphol := stations[0]
	assert.Equal(t, "SHL", schiphol.Code)
	assert.Equal(t, "Schiphol Airport", schiphol.Names.Long)
	assert.Equal(t, []string{"Schiphol", "Amsterdam Schiphol"}, schiphol.Synonyms)

	// A single synonym arrives as a bare string
	alkmaar := stations[1]
	assert.Equal(t, []string{"Alckmaer"}, alkmaar.Synonyms)
	assert.False(t, alkmaar.HasTravelAssistance)
}

func TestParseStationsRejectedRequest(t *testing.T) {
	_, err := ParseStations([]byte(`{}`))
	assert.ErrorIs(t, err, ErrRequestRejected)

	_, err = ParseStations([]byte(`{"message": "invalid subscription key"}`))
	assert.ErrorIs(t, err, ErrRequestRejected)
}

func TestParseStationsEmptyPayload(t *testing.T) {
	stations, err := ParseStations([]byte(`{"payload": []}`))
	require.NoError(t, err)

	assert.NotNil(t, stations)
	assert.Empty(t, stations)
}
