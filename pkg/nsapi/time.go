package nsapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeFormat is the timestamp layout used throughout the NS
// reisinformatie API: ISO-8601 with a numeric UTC offset and no colon
// between the offset hours and minutes.
const DateTimeFormat = "2006-01-02T15:04:05-0700"

const offsetToken = "-0700"

// ParseOffsetDateTime parses a timestamp whose layout ends in a numeric
// UTC offset token. The trailing offset (for example "+0200", with an
// optional colon as emitted by isoformat-style encoders) is split off
// and attached as a fixed zone; the remainder is parsed against the
// naive part of the layout.
func ParseOffsetDateTime(value string, layout string) (time.Time, error) {
	if !strings.HasSuffix(layout, offsetToken) {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrMalformedTimestamp, value, layout)
		}
		return parsed, nil
	}

	// Strip the colon from a HH:MM offset if present
	if len(value) >= 6 && value[len(value)-3] == ':' &&
		(value[len(value)-6] == '+' || value[len(value)-6] == '-') {
		value = value[:len(value)-3] + value[len(value)-2:]
	}

	if len(value) < 6 {
		return time.Time{}, fmt.Errorf("%w: %q is too short for layout %q", ErrMalformedTimestamp, value, layout)
	}

	offset := value[len(value)-5:]
	naive := value[:len(value)-5]
	naiveLayout := strings.TrimSuffix(layout, offsetToken)

	location, err := parseOffsetZone(offset)
	if err != nil {
		return time.Time{}, err
	}

	parsed, err := time.Parse(naiveLayout, naive)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrMalformedTimestamp, naive, naiveLayout)
	}

	return time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
		location,
	), nil
}

func parseOffsetZone(offset string) (*time.Location, error) {
	if len(offset) != 5 || (offset[0] != '+' && offset[0] != '-') {
		return nil, fmt.Errorf("%w: invalid UTC offset %q", ErrMalformedTimestamp, offset)
	}

	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UTC offset %q", ErrMalformedTimestamp, offset)
	}
	minutes, err := strconv.Atoi(offset[3:5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UTC offset %q", ErrMalformedTimestamp, offset)
	}

	seconds := hours*3600 + minutes*60
	if offset[0] == '-' {
		seconds = -seconds
	}

	return time.FixedZone(offset, seconds), nil
}

// IsDaylightSavingActive reports whether the named timezone observes
// daylight saving time at the given moment.
func IsDaylightSavingActive(zoneName string, at time.Time) (bool, error) {
	location, err := time.LoadLocation(zoneName)
	if err != nil {
		return false, err
	}

	localised := at.In(location)
	_, currentOffset := localised.Zone()

	// The standard offset is the smaller of the midwinter and midsummer
	// offsets, which also holds in the southern hemisphere
	_, januaryOffset := time.Date(localised.Year(), time.January, 1, 0, 0, 0, 0, location).Zone()
	_, julyOffset := time.Date(localised.Year(), time.July, 1, 0, 0, 0, 0, location).Zone()

	standardOffset := januaryOffset
	if julyOffset < standardOffset {
		standardOffset = julyOffset
	}

	return currentOffset != standardOffset, nil
}

// FormatShort renders an instant as HH:MM for display and dedup keys.
func FormatShort(value time.Time) string {
	return value.Format("15:04")
}

// FormatShortDuration renders a duration as H:MM.
func FormatShortDuration(value time.Duration) string {
	totalMinutes := int(value.Minutes())
	return fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}
