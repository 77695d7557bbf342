package weather

import (
	"errors"
	"fmt"
)

var (
	ErrProvinceNotFound = errors.New("province not found")
	ErrCityNotFound     = errors.New("city not found")
	ErrUpstreamStatus   = errors.New("unexpected upstream status")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrWindowNotFound   = errors.New("today is not in the forecast series")
)

// Resolution stages.
const (
	StageProvince = "province"
	StageCity     = "city"
)

// ResolutionError is a failed province/city to station id lookup.
// It is fatal for setup.
type ResolutionError struct {
	Stage string
	Name  string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s %q: %v", e.Stage, e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FetchError is a failed weather fetch. Body holds the raw response when the
// payload could not be parsed.
type FetchError struct {
	StationID string
	Status    int
	Body      []byte
	Err       error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch weather for station %s: status %d: %v", e.StationID, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch weather for station %s: %v", e.StationID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
