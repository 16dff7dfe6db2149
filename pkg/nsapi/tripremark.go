package nsapi

import "fmt"

// TripRemark is a free-text note attached to a trip, generally about a
// disruption affecting it. Only some schema generations carry them.
type TripRemark struct {
	Key     string `json:"key"`
	IsGrave bool   `json:"is_grave"`
	Message string `json:"message"`
}

func (r TripRemark) RecordKind() RecordKind {
	return KindTripRemark
}

func (r TripRemark) String() string {
	return fmt.Sprintf("<TripRemark> %t %s", r.IsGrave, r.Message)
}

type tripRemarkPayload struct {
	ID      string `json:"Id"`
	Ernstig string `json:"Ernstig"`
	Text    string `json:"Text"`
}

func tripRemarkFromPayload(payload tripRemarkPayload) (TripRemark, error) {
	if payload.ID == "" {
		return TripRemark{}, fmt.Errorf("trip remark entry is missing its id")
	}

	return TripRemark{
		Key:     payload.ID,
		IsGrave: payload.Ernstig != "false",
		Message: payload.Text,
	}, nil
}
