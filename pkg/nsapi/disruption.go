package nsapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// DisruptionType classifies a disruption as an unplanned incident or
// planned maintenance work.
type DisruptionType string

const (
	DisruptionTypeUnplanned DisruptionType = "unplanned"
	DisruptionTypePlanned   DisruptionType = "planned"
)

// Disruption is a planned or unplanned interruption of rail traffic on
// one or more lines.
type Disruption struct {
	Key         string         `json:"key"`
	Line        string         `json:"line"`
	Description string         `json:"disruption"`
	Type        DisruptionType `json:"type"`
	Timestamp   *time.Time     `json:"timestamp"`
}

func (d Disruption) RecordKind() RecordKind {
	return KindDisruption
}

func (d Disruption) String() string {
	return fmt.Sprintf("<Disruption> %s", d.Line)
}

type disruptionPayload struct {
	ID         string          `json:"id"`
	Titel      string          `json:"titel"`
	Verstoring json.RawMessage `json:"verstoring"`
	Type       string          `json:"type"`
	Datum      string          `json:"datum"`
}

func disruptionFromPayload(payload disruptionPayload, disruptionType DisruptionType) (Disruption, error) {
	if payload.ID == "" {
		return Disruption{}, fmt.Errorf("disruption entry is missing its id")
	}

	disruption := Disruption{
		Key:  payload.ID,
		Line: payload.Titel,
		Type: disruptionType,
	}

	// The verstoring block is free text in some schema generations and a
	// nested object in others; keep whatever text representation we got
	if len(payload.Verstoring) > 0 {
		var text string
		if err := json.Unmarshal(payload.Verstoring, &text); err == nil {
			disruption.Description = text
		} else {
			disruption.Description = string(payload.Verstoring)
		}
	}

	if payload.Datum != "" {
		if timestamp, err := ParseOffsetDateTime(payload.Datum, DateTimeFormat); err == nil {
			disruption.Timestamp = &timestamp
		}
	}

	return disruption, nil
}
