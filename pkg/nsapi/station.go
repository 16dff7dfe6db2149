package nsapi

import (
	"encoding/json"
	"fmt"
)

// StationNames is the trilingual name set the stations endpoint carries
// for every station.
type StationNames struct {
	Short  string `json:"short"`
	Middle string `json:"middle"`
	Long   string `json:"long"`
}

// Station is a single entry of the station-list endpoint.
type Station struct {
	EVACode             string       `json:"eva_code"`
	Code                string       `json:"code"`
	UICCode             string       `json:"uic_code"`
	StationType         string       `json:"stationtype"`
	Names               StationNames `json:"names"`
	Country             string       `json:"country"`
	Latitude            float64      `json:"lat"`
	Longitude           float64      `json:"lon"`
	Synonyms            []string     `json:"synonyms"`
	HasFacilities       bool         `json:"has_facilities"`
	HasTravelAssistance bool         `json:"has_travel_assistance"`
	HasDepartureTimes   bool         `json:"has_departure_times"`
}

func (s Station) RecordKind() RecordKind {
	return KindStation
}

func (s Station) String() string {
	return fmt.Sprintf("<Station> %s %s", s.Code, s.Names.Long)
}

type stationPayload struct {
	EVACode              string          `json:"EVACode"`
	Code                 string          `json:"code"`
	UICCode              string          `json:"UICCode"`
	StationType          string          `json:"stationType"`
	Namen                stationNamen    `json:"namen"`
	Land                 string          `json:"land"`
	Lat                  float64         `json:"lat"`
	Lng                  float64         `json:"lng"`
	Synoniemen           json.RawMessage `json:"synoniemen"`
	HeeftFaciliteiten    bool            `json:"heeftFaciliteiten"`
	HeeftReisassistentie bool            `json:"heeftReisassistentie"`
	HeeftVertrektijden   bool            `json:"heeftVertrektijden"`
}

type stationNamen struct {
	Kort   string `json:"kort"`
	Middel string `json:"middel"`
	Lang   string `json:"lang"`
}

func stationFromPayload(payload stationPayload) (Station, error) {
	if payload.Code == "" {
		return Station{}, fmt.Errorf("station entry is missing its code")
	}

	station := Station{
		EVACode:     payload.EVACode,
		Code:        payload.Code,
		UICCode:     payload.UICCode,
		StationType: payload.StationType,
		Names: StationNames{
			Short:  payload.Namen.Kort,
			Middle: payload.Namen.Middel,
			Long:   payload.Namen.Lang,
		},
		Country:             payload.Land,
		Latitude:            payload.Lat,
		Longitude:           payload.Lng,
		Synonyms:            []string{},
		HasFacilities:       payload.HeeftFaciliteiten,
		HasTravelAssistance: payload.HeeftReisassistentie,
		HasDepartureTimes:   payload.HeeftVertrektijden,
	}

	// A single synonym collapses to a bare string upstream
	if len(payload.Synoniemen) > 0 {
		var single string
		var multiple []string

		if err := json.Unmarshal(payload.Synoniemen, &multiple); err == nil {
			station.Synonyms = multiple
		} else if err := json.Unmarshal(payload.Synoniemen, &single); err == nil {
			station.Synonyms = []string{single}
		}
	}

	return station, nil
}
