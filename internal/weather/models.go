package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sentinel is the value the upstream service uses for "no data".
const Sentinel = "9999"

// DateLayout is the date format used by the forecast series.
const DateLayout = "2006/01/02"

// Reading is a loosely-typed scalar from the upstream payload. The service
// sends the same field as a JSON string or a JSON number depending on the
// station, and uses Sentinel to mark missing data.
type Reading struct {
	raw     string
	present bool
}

// NewReading wraps a raw upstream text value. Only the exact text
// Sentinel marks missing data.
func NewReading(raw string) Reading {
	return Reading{raw: raw, present: raw != Sentinel}
}

// Present reports whether the reading carries data.
func (r Reading) Present() bool {
	return r.present
}

// String returns the raw upstream text, sentinel included.
func (r Reading) String() string {
	return r.raw
}

// Value returns the text and whether it is present.
func (r Reading) Value() (string, bool) {
	return r.raw, r.present
}

// UnmarshalJSON accepts strings, numbers and null. A JSON number is missing
// data when its value equals the sentinel, whatever its spelling.
func (r *Reading) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Reading{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = NewReading(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("reading: expected string or number, got %s", b)
	}
	f, err := n.Float64()
	*r = Reading{raw: n.String(), present: err != nil || f != sentinelValue}
	return nil
}

const sentinelValue = 9999

// Province is an entry of the upstream province list.
type Province struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// City is an entry of a province's city list. Code is the station id.
type City struct {
	Name string `json:"city"`
	Code string `json:"code"`
}

// Warning is the alert record attached to a current observation.
type Warning struct {
	Alert Reading
}

// Observation is the current conditions at a station.
type Observation struct {
	City        string
	Temperature Reading
	Humidity    Reading
	WindDirect  Reading
	WindPower   Reading
	AirQuality  string
	Rain        Reading
	FeelsLike   Reading

	// Warning is nil when the payload carries no warning record.
	Warning *Warning
}

// ForecastDay is one entry of the forecast series. Date is zero when the
// upstream date does not parse, so the entry never anchors a window.
type ForecastDay struct {
	Date      time.Time
	MaxTemp   Reading
	MinTemp   Reading
	DayText   Reading
	NightText Reading
}

// Weather is the parsed current observation plus forecast series.
// The series is neither sorted nor gap-free.
type Weather struct {
	Observation Observation
	Forecast    []ForecastDay
}

// FetchResult pairs the parsed payload with the unmodified response body.
type FetchResult struct {
	Raw     []byte
	Weather Weather
}

// Report is one rendered cycle output.
type Report struct {
	ID           string    `json:"id"`
	StationID    string    `json:"stationId"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Lines        []string  `json:"lines"`
	ForecastDays int       `json:"forecastDays"`
	WindowFound  bool      `json:"windowFound"`
}
