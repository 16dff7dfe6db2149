package nsapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// RecordKind is the discriminator tag stored alongside a serialized
// record so heterogeneous lists can be reconstructed.
type RecordKind string

const (
	KindDeparture   RecordKind = "Departure"
	KindDisruption  RecordKind = "Disruption"
	KindStation     RecordKind = "Station"
	KindTrip        RecordKind = "Trip"
	KindTripRemark  RecordKind = "TripRemark"
	KindTripStop    RecordKind = "TripStop"
	KindTripSubpart RecordKind = "TripSubpart"
)

// Record is any of the domain record types this library produces.
type Record interface {
	RecordKind() RecordKind
}

// The serialized shape keeps the field names and the class_name tag of
// earlier generations of the library, so caches written by those can
// still be read back. Instants are rendered as ISO-8601 strings with a
// numeric offset; nested records are encoded to their own JSON strings
// and embedded as string fields.

type stationEnvelope struct {
	ClassName RecordKind `json:"class_name"`
	Station
}

type disruptionEnvelope struct {
	ClassName   RecordKind     `json:"class_name"`
	Key         string         `json:"key"`
	Line        string         `json:"line"`
	Description string         `json:"disruption"`
	Type        DisruptionType `json:"type"`
	Timestamp   *string        `json:"timestamp"`
}

type departureEnvelope struct {
	ClassName            RecordKind `json:"class_name"`
	Key                  string     `json:"key"`
	TripNumber           string     `json:"trip_number"`
	DepartureTimePlanned string     `json:"departure_time_planned"`
	DepartureTimeActual  string     `json:"departure_time_actual"`
	DepartureStatus      string     `json:"departure_status"`
	Cancelled            bool       `json:"cancelled"`
	Delay                int        `json:"delay"`
	PlatformPlanned      string     `json:"departure_platform"`
	PlatformActual       string     `json:"departure_platform_actual"`
	PlatformChanged      bool       `json:"has_platform_changed"`
	Destination          string     `json:"destination"`
	RouteText            string     `json:"route_text"`
	TrainCategory        string     `json:"train_type"`
	Carrier              string     `json:"carrier"`
}

type tripRemarkEnvelope struct {
	ClassName RecordKind `json:"class_name"`
	TripRemark
}

type tripStopEnvelope struct {
	ClassName       RecordKind     `json:"class_name"`
	Name            string         `json:"name"`
	PlannedTime     *string        `json:"planned_time"`
	ActualTime      *string        `json:"actual_time"`
	PlannedPlatform string         `json:"planned_platform"`
	ActualPlatform  string         `json:"actual_platform"`
	PlatformChanged bool           `json:"platform_changed"`
	Delay           *time.Duration `json:"delay"`
}

type tripSubpartEnvelope struct {
	ClassName     RecordKind    `json:"class_name"`
	TripType      string        `json:"trip_type"`
	Transporter   string        `json:"transporter"`
	TransportType string        `json:"transport_type"`
	JourneyID     string        `json:"journey_id"`
	Going         bool          `json:"going"`
	HasDelay      bool          `json:"has_delay"`
	CrowdForecast CrowdForecast `json:"crowd_forecast"`
	Stops         []string      `json:"stops"`
}

type tripEnvelope struct {
	ClassName                RecordKind    `json:"class_name"`
	Status                   TripStatus    `json:"status"`
	NrTransfers              int           `json:"nr_transfers"`
	TravelTimePlanned        *int          `json:"travel_time_planned"`
	TravelTimeActual         *int          `json:"travel_time_actual"`
	CrowdForecast            CrowdForecast `json:"crowd_forecast"`
	Going                    bool          `json:"going"`
	IsOptimal                bool          `json:"is_optimal"`
	RequestedTime            string        `json:"requested_time"`
	DepartureTimePlanned     *string       `json:"departure_time_planned"`
	DepartureTimeActual      *string       `json:"departure_time_actual"`
	ArrivalTimePlanned       *string       `json:"arrival_time_planned"`
	ArrivalTimeActual        *string       `json:"arrival_time_actual"`
	DeparturePlatformPlanned string        `json:"departure_platform_planned"`
	DeparturePlatformActual  string        `json:"departure_platform_actual"`
	ArrivalPlatformPlanned   string        `json:"arrival_platform_planned"`
	ArrivalPlatformActual    string        `json:"arrival_platform_actual"`
	TripParts                []string      `json:"trip_parts"`
	TripRemarks              []string      `json:"trip_remarks"`
}

func encodeTimePointer(value *time.Time) *string {
	if value == nil {
		return nil
	}
	encoded := value.Format(DateTimeFormat)
	return &encoded
}

func decodeTimePointer(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	decoded, err := ParseOffsetDateTime(*value, DateTimeFormat)
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}

// ToJSON serializes a record, injecting the discriminator tag naming
// its concrete kind.
func ToJSON(record Record) (string, error) {
	var envelope any

	switch value := record.(type) {
	case Station:
		envelope = stationEnvelope{ClassName: KindStation, Station: value}
	case Disruption:
		envelope = disruptionEnvelope{
			ClassName:   KindDisruption,
			Key:         value.Key,
			Line:        value.Line,
			Description: value.Description,
			Type:        value.Type,
			Timestamp:   encodeTimePointer(value.Timestamp),
		}
	case Departure:
		envelope = departureEnvelope{
			ClassName:            KindDeparture,
			Key:                  value.Key,
			TripNumber:           value.TripNumber,
			DepartureTimePlanned: value.DepartureTimePlanned.Format(DateTimeFormat),
			DepartureTimeActual:  value.DepartureTimeActual.Format(DateTimeFormat),
			DepartureStatus:      value.DepartureStatus,
			Cancelled:            value.Cancelled,
			Delay:                value.Delay,
			PlatformPlanned:      value.PlatformPlanned,
			PlatformActual:       value.PlatformActual,
			PlatformChanged:      value.PlatformChanged,
			Destination:          value.Destination,
			RouteText:            value.RouteText,
			TrainCategory:        value.TrainCategory,
			Carrier:              value.Carrier,
		}
	case TripRemark:
		envelope = tripRemarkEnvelope{ClassName: KindTripRemark, TripRemark: value}
	case TripStop:
		envelope = tripStopEnvelope{
			ClassName:       KindTripStop,
			Name:            value.Name,
			PlannedTime:     encodeTimePointer(value.PlannedTime),
			ActualTime:      encodeTimePointer(value.ActualTime),
			PlannedPlatform: value.PlannedPlatform,
			ActualPlatform:  value.ActualPlatform,
			PlatformChanged: value.PlatformChanged,
			Delay:           value.Delay,
		}
	case TripSubpart:
		stops, err := encodeNestedRecords(value.Stops)
		if err != nil {
			return "", err
		}

		envelope = tripSubpartEnvelope{
			ClassName:     KindTripSubpart,
			TripType:      value.TripType,
			Transporter:   value.Transporter,
			TransportType: value.TransportType,
			JourneyID:     value.JourneyID,
			Going:         value.Going,
			HasDelay:      value.HasDelay,
			CrowdForecast: value.CrowdForecast,
			Stops:         stops,
		}
	case Trip:
		parts, err := encodeNestedRecords(value.TripParts)
		if err != nil {
			return "", err
		}
		remarks, err := encodeNestedRecords(value.TripRemarks)
		if err != nil {
			return "", err
		}

		envelope = tripEnvelope{
			ClassName:                KindTrip,
			Status:                   value.Status,
			NrTransfers:              value.NrTransfers,
			TravelTimePlanned:        value.TravelTimePlanned,
			TravelTimeActual:         value.TravelTimeActual,
			CrowdForecast:            value.CrowdForecast,
			Going:                    value.Going,
			IsOptimal:                value.IsOptimal,
			RequestedTime:            value.RequestedTime.Format(DateTimeFormat),
			DepartureTimePlanned:     encodeTimePointer(value.DepartureTimePlanned),
			DepartureTimeActual:      encodeTimePointer(value.DepartureTimeActual),
			ArrivalTimePlanned:       encodeTimePointer(value.ArrivalTimePlanned),
			ArrivalTimeActual:        encodeTimePointer(value.ArrivalTimeActual),
			DeparturePlatformPlanned: value.DeparturePlatformPlanned,
			DeparturePlatformActual:  value.DeparturePlatformActual,
			ArrivalPlatformPlanned:   value.ArrivalPlatformPlanned,
			ArrivalPlatformActual:    value.ArrivalPlatformActual,
			TripParts:                parts,
			TripRemarks:              remarks,
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognisedRecordKind, record.RecordKind())
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func encodeNestedRecords[T Record](records []T) ([]string, error) {
	if records == nil {
		return nil, nil
	}

	encoded := []string{}
	for _, record := range records {
		item, err := ToJSON(record)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, item)
	}
	return encoded, nil
}

// FromJSON reconstructs the record of the concrete kind named by the
// discriminator tag.
func FromJSON(jsonText string) (Record, error) {
	var probe struct {
		ClassName *RecordKind `json:"class_name"`
	}
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		return nil, err
	}
	if probe.ClassName == nil {
		return nil, fmt.Errorf("%w: no class_name present", ErrUnrecognisedRecordKind)
	}

	switch *probe.ClassName {
	case KindStation:
		var envelope stationEnvelope
		if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
			return nil, err
		}
		return envelope.Station, nil
	case KindDisruption:
		return disruptionFromEnvelope(jsonText)
	case KindDeparture:
		return departureFromEnvelope(jsonText)
	case KindTripRemark:
		var envelope tripRemarkEnvelope
		if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
			return nil, err
		}
		return envelope.TripRemark, nil
	case KindTripStop:
		return tripStopFromEnvelope(jsonText)
	case KindTripSubpart:
		return tripSubpartFromEnvelope(jsonText)
	case KindTrip:
		return tripFromEnvelope(jsonText)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognisedRecordKind, *probe.ClassName)
	}
}

func disruptionFromEnvelope(jsonText string) (Disruption, error) {
	var envelope disruptionEnvelope
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return Disruption{}, err
	}

	timestamp, err := decodeTimePointer(envelope.Timestamp)
	if err != nil {
		return Disruption{}, err
	}

	return Disruption{
		Key:         envelope.Key,
		Line:        envelope.Line,
		Description: envelope.Description,
		Type:        envelope.Type,
		Timestamp:   timestamp,
	}, nil
}

func departureFromEnvelope(jsonText string) (Departure, error) {
	var envelope departureEnvelope
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return Departure{}, err
	}

	plannedTime, err := ParseOffsetDateTime(envelope.DepartureTimePlanned, DateTimeFormat)
	if err != nil {
		return Departure{}, err
	}
	actualTime, err := ParseOffsetDateTime(envelope.DepartureTimeActual, DateTimeFormat)
	if err != nil {
		return Departure{}, err
	}

	return Departure{
		Key:                  envelope.Key,
		TripNumber:           envelope.TripNumber,
		DepartureTimePlanned: plannedTime,
		DepartureTimeActual:  actualTime,
		DepartureStatus:      envelope.DepartureStatus,
		Cancelled:            envelope.Cancelled,
		Delay:                envelope.Delay,
		PlatformPlanned:      envelope.PlatformPlanned,
		PlatformActual:       envelope.PlatformActual,
		PlatformChanged:      envelope.PlatformChanged,
		Destination:          envelope.Destination,
		RouteText:            envelope.RouteText,
		TrainCategory:        envelope.TrainCategory,
		Carrier:              envelope.Carrier,
	}, nil
}

func tripStopFromEnvelope(jsonText string) (TripStop, error) {
	var envelope tripStopEnvelope
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return TripStop{}, err
	}

	plannedTime, err := decodeTimePointer(envelope.PlannedTime)
	if err != nil {
		return TripStop{}, err
	}
	actualTime, err := decodeTimePointer(envelope.ActualTime)
	if err != nil {
		return TripStop{}, err
	}

	return TripStop{
		Name:            envelope.Name,
		PlannedTime:     plannedTime,
		ActualTime:      actualTime,
		PlannedPlatform: envelope.PlannedPlatform,
		ActualPlatform:  envelope.ActualPlatform,
		PlatformChanged: envelope.PlatformChanged,
		Delay:           envelope.Delay,
	}, nil
}

func tripSubpartFromEnvelope(jsonText string) (TripSubpart, error) {
	var envelope tripSubpartEnvelope
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return TripSubpart{}, err
	}

	part := TripSubpart{
		TripType:      envelope.TripType,
		Transporter:   envelope.Transporter,
		TransportType: envelope.TransportType,
		JourneyID:     envelope.JourneyID,
		Going:         envelope.Going,
		HasDelay:      envelope.HasDelay,
		CrowdForecast: envelope.CrowdForecast,
	}

	if envelope.Stops != nil {
		part.Stops = []TripStop{}
		for _, encodedStop := range envelope.Stops {
			stop, err := tripStopFromEnvelope(encodedStop)
			if err != nil {
				return TripSubpart{}, err
			}
			part.Stops = append(part.Stops, stop)
		}
	}

	return part, nil
}

func tripFromEnvelope(jsonText string) (Trip, error) {
	var envelope tripEnvelope
	if err := json.Unmarshal([]byte(jsonText), &envelope); err != nil {
		return Trip{}, err
	}

	requestedTime, err := ParseOffsetDateTime(envelope.RequestedTime, DateTimeFormat)
	if err != nil {
		return Trip{}, err
	}

	trip := Trip{
		Status:                   envelope.Status,
		NrTransfers:              envelope.NrTransfers,
		TravelTimePlanned:        envelope.TravelTimePlanned,
		TravelTimeActual:         envelope.TravelTimeActual,
		CrowdForecast:            envelope.CrowdForecast,
		Going:                    envelope.Going,
		IsOptimal:                envelope.IsOptimal,
		RequestedTime:            requestedTime,
		DeparturePlatformPlanned: envelope.DeparturePlatformPlanned,
		DeparturePlatformActual:  envelope.DeparturePlatformActual,
		ArrivalPlatformPlanned:   envelope.ArrivalPlatformPlanned,
		ArrivalPlatformActual:    envelope.ArrivalPlatformActual,
	}

	if trip.DepartureTimePlanned, err = decodeTimePointer(envelope.DepartureTimePlanned); err != nil {
		return Trip{}, err
	}
	if trip.DepartureTimeActual, err = decodeTimePointer(envelope.DepartureTimeActual); err != nil {
		return Trip{}, err
	}
	if trip.ArrivalTimePlanned, err = decodeTimePointer(envelope.ArrivalTimePlanned); err != nil {
		return Trip{}, err
	}
	if trip.ArrivalTimeActual, err = decodeTimePointer(envelope.ArrivalTimeActual); err != nil {
		return Trip{}, err
	}

	if envelope.TripParts != nil {
		trip.TripParts = []TripSubpart{}
		for _, encodedPart := range envelope.TripParts {
			part, err := tripSubpartFromEnvelope(encodedPart)
			if err != nil {
				return Trip{}, err
			}
			trip.TripParts = append(trip.TripParts, part)
		}
	}

	if envelope.TripRemarks != nil {
		trip.TripRemarks = []TripRemark{}
		for _, encodedRemark := range envelope.TripRemarks {
			var remarkEnvelope tripRemarkEnvelope
			if err := json.Unmarshal([]byte(encodedRemark), &remarkEnvelope); err != nil {
				return Trip{}, err
			}
			trip.TripRemarks = append(trip.TripRemarks, remarkEnvelope.TripRemark)
		}
	}

	return trip, nil
}

// EncodeRecordList serializes every record in the list to its own JSON
// string.
func EncodeRecordList[T Record](records []T) ([]string, error) {
	encoded := []string{}
	for _, record := range records {
		item, err := ToJSON(record)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, item)
	}
	return encoded, nil
}

// DecodeRecordList decodes a sequence of independently encoded record
// JSON strings. Empty entries and entries of an unrecognised kind are
// skipped with a diagnostic rather than failing the whole batch, since
// persisted caches commonly span multiple schema generations.
func DecodeRecordList(jsonTextList []string) []Record {
	records := []Record{}
	for _, jsonText := range jsonTextList {
		if jsonText == "" || jsonText == "null" {
			log.Error().Msg("Skipping empty record entry")
			continue
		}

		record, err := FromJSON(jsonText)
		if err != nil {
			log.Error().Err(err).Msg("Skipping undecodable record entry")
			continue
		}
		records = append(records, record)
	}
	return records
}
