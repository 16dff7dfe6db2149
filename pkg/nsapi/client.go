package nsapi

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://gateway.apiportal.ns.nl"

// Client queries the NS reisinformatie API gateway. The subscription
// key comes from the NS API portal.
type Client struct {
	SubscriptionKey string
	BaseURL         string
	HTTPClient      *http.Client
}

func NewClient(subscriptionKey string) *Client {
	return &Client{
		SubscriptionKey: subscriptionKey,
		BaseURL:         defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) request(path string) ([]byte, error) {
	var body []byte

	operation := func() error {
		request, err := http.NewRequest("GET", c.BaseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		request.Header.Set("Ocp-Apim-Subscription-Key", c.SubscriptionKey)

		response, err := c.HTTPClient.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if response.StatusCode >= 500 {
			return fmt.Errorf("NS API returned status %d", response.StatusCode)
		}
		if response.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("%w: status %d", ErrRequestRejected, response.StatusCode))
		}

		body, err = io.ReadAll(response.Body)
		return err
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		return nil, err
	}

	return body, nil
}

// GetDepartures fetches the current departure board for a station.
func (c *Client) GetDepartures(station string, maxJourneys int) ([]Departure, error) {
	params := url.Values{}
	params.Set("station", station)
	params.Set("maxJourneys", strconv.Itoa(maxJourneys))
	params.Set("lang", "nl")

	body, err := c.request("/reisinformatie-api/api/v2/departures?" + params.Encode())
	if err != nil {
		return nil, err
	}

	return ParseDepartures(body)
}

// GetDisruptions fetches the current disruptions, optionally scoped to
// a single station.
func (c *Client) GetDisruptions(station string, actual bool) (*Disruptions, error) {
	params := url.Values{}
	params.Set("actual", strconv.FormatBool(actual))
	params.Set("lang", "nl")

	path := "/reisinformatie-api/api/v2/disruptions?" + params.Encode()
	if station != "" {
		path = "/reisinformatie-api/api/v2/disruptions/station/" + url.PathEscape(station) + "?" + params.Encode()
	}

	body, err := c.request(path)
	if err != nil {
		return nil, err
	}

	return ParseDisruptions(body)
}

// GetTrips fetches trip possibilities. The timestamp is either a bare
// HH:MM clock time, taken to be today, or a full "dd-mm-yyyy HH:MM".
func (c *Client) GetTrips(timestamp string, fromStation string, viaStation string, toStation string, departure bool, previousAdvices int, nextAdvices int) ([]Trip, error) {
	requestTimestamp, requestedTime, err := resolveRequestTime(timestamp, time.Now())
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("dateTime", requestTimestamp)
	params.Set("fromStation", fromStation)
	params.Set("toStation", toStation)
	if viaStation != "" {
		params.Set("viaStation", viaStation)
	}
	params.Set("departure", strconv.FormatBool(departure))
	params.Set("searchForArrival", strconv.FormatBool(!departure))
	params.Set("previousAdvices", strconv.Itoa(previousAdvices))
	params.Set("nextAdvices", strconv.Itoa(nextAdvices))
	params.Set("passing", "false")

	body, err := c.request("/reisinformatie-api/api/v3/trips?" + params.Encode())
	if err != nil {
		return nil, err
	}

	return ParseTrips(body, requestedTime)
}

// GetStations fetches the full station list.
func (c *Client) GetStations() ([]Station, error) {
	body, err := c.request("/reisinformatie-api/api/v2/stations")
	if err != nil {
		return nil, err
	}

	return ParseStations(body)
}

// resolveRequestTime turns a user supplied timestamp into the dateTime
// request parameter and the timezone-aware instant the answer will be
// evaluated against. A bare clock time needs a date and a UTC offset
// before it can be parsed, and the offset depends on whether
// Europe/Amsterdam is on summer time right now.
func resolveRequestTime(timestamp string, now time.Time) (string, time.Time, error) {
	offset := "+0100"
	dst, err := IsDaylightSavingActive("Europe/Amsterdam", now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to determine DST, assuming standard time")
	} else if dst {
		offset = "+0200"
	}

	if len(timestamp) == 5 {
		// Format of HH:MM - api needs yyyy-mm-ddThh:mm
		requestTimestamp := now.Format("2006-01-02") + "T" + timestamp
		requestedTime, err := ParseOffsetDateTime(requestTimestamp+offset, "2006-01-02T15:04-0700")
		if err != nil {
			return "", time.Time{}, err
		}
		return requestTimestamp, requestedTime, nil
	}

	requestedTime, err := ParseOffsetDateTime(timestamp+offset, "02-01-2006 15:04-0700")
	if err != nil {
		return "", time.Time{}, err
	}

	parsed, err := time.Parse("02-01-2006 15:04", timestamp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, timestamp)
	}

	return parsed.Format("2006-01-02T15:04"), requestedTime, nil
}
