package nsapi

import "errors"

var (
	// ErrNoDataReceived is returned by the top level parsers when the
	// upstream call produced an empty body.
	ErrNoDataReceived = errors.New("no data received from NS API")

	// ErrRequestRejected is returned when the upstream responded but the
	// payload shape indicates it rejected the request parameters, as
	// opposed to returning zero rows.
	ErrRequestRejected = errors.New("request could not be handled by NS API")

	// ErrUnrecognisedRecordKind is returned when decoding a persisted
	// record whose discriminator does not name a known record kind.
	ErrUnrecognisedRecordKind = errors.New("unrecognised record kind")

	// ErrMalformedTimestamp is returned when a timestamp string does not
	// match its expected format.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)
