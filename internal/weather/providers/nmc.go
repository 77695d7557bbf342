package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/nmc-weather/internal/weather"
)

// NMCProvider talks to the National Meteorological Center REST API. It
// implements weather.StationDirectory and weather.Fetcher.
type NMCProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNMCProvider(client *http.Client, baseURL string) *NMCProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nmc",
		MaxRequests: 1,
		Interval:    1 * time.Hour,
		Timeout:     5 * time.Minute,
	})

	return &NMCProvider{
		name:    "nmc",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
		},
		circuit: cb,
	}
}

func (p *NMCProvider) Name() string {
	return p.name
}

// Provinces returns the full province list.
func (p *NMCProvider) Provinces(ctx context.Context) ([]weather.Province, error) {
	body, err := getBody(ctx, p.httpCfg, p.circuit, p.baseURL+"/rest/province")
	if err != nil {
		return nil, fmt.Errorf("province list: %w", err)
	}

	var provinces []weather.Province
	if err := json.Unmarshal(body, &provinces); err != nil {
		return nil, fmt.Errorf("province list: %w: %v", weather.ErrMalformedPayload, err)
	}
	return provinces, nil
}

// Cities returns the cities of a province; each city code is a station id.
func (p *NMCProvider) Cities(ctx context.Context, provinceCode string) ([]weather.City, error) {
	u := fmt.Sprintf("%s/rest/province/%s", p.baseURL, url.PathEscape(provinceCode))
	body, err := getBody(ctx, p.httpCfg, p.circuit, u)
	if err != nil {
		return nil, fmt.Errorf("city list for %s: %w", provinceCode, err)
	}

	var cities []weather.City
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("city list for %s: %w: %v", provinceCode, weather.ErrMalformedPayload, err)
	}
	return cities, nil
}

// FetchWeather retrieves the current observation and forecast for a station.
// Errors are *weather.FetchError; Body is set when the payload was unreadable.
func (p *NMCProvider) FetchWeather(ctx context.Context, stationID string) (weather.FetchResult, error) {
	values := url.Values{}
	values.Set("stationid", stationID)
	u := fmt.Sprintf("%s/rest/weather?%s", p.baseURL, values.Encode())

	body, err := getBody(ctx, p.httpCfg, p.circuit, u)
	if err != nil {
		fe := &weather.FetchError{StationID: stationID, Err: err}
		var se *StatusError
		if errors.As(err, &se) {
			fe.Status = se.Code
		}
		return weather.FetchResult{}, fe
	}

	w, err := parseWeather(body)
	if err != nil {
		return weather.FetchResult{}, &weather.FetchError{
			StationID: stationID,
			Body:      body,
			Err:       fmt.Errorf("%w: %v", weather.ErrMalformedPayload, err),
		}
	}

	return weather.FetchResult{Raw: body, Weather: w}, nil
}

type nmcPayload struct {
	Data *struct {
		Real struct {
			Station struct {
				City string `json:"city"`
			} `json:"station"`
			Weather struct {
				Temperature weather.Reading `json:"temperature"`
				Humidity    weather.Reading `json:"humidity"`
				Rain        weather.Reading `json:"rain"`
				FeelsLike   weather.Reading `json:"feelst"`
			} `json:"weather"`
			Wind struct {
				Direct weather.Reading `json:"direct"`
				Power  weather.Reading `json:"power"`
			} `json:"wind"`
			Warn *struct {
				Alert weather.Reading `json:"alert"`
			} `json:"warn"`
		} `json:"real"`
		Air struct {
			Text weather.Reading `json:"text"`
		} `json:"air"`
		TempChart []struct {
			Time      string          `json:"time"`
			MaxTemp   weather.Reading `json:"max_temp"`
			MinTemp   weather.Reading `json:"min_temp"`
			DayText   weather.Reading `json:"day_text"`
			NightText weather.Reading `json:"night_text"`
		} `json:"tempchart"`
	} `json:"data"`
}

func parseWeather(body []byte) (weather.Weather, error) {
	var payload nmcPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Weather{}, err
	}
	if payload.Data == nil {
		return weather.Weather{}, errors.New("missing data object")
	}

	current := payload.Data.Real
	obs := weather.Observation{
		City:        current.Station.City,
		Temperature: current.Weather.Temperature,
		Humidity:    current.Weather.Humidity,
		WindDirect:  current.Wind.Direct,
		WindPower:   current.Wind.Power,
		AirQuality:  payload.Data.Air.Text.String(),
		Rain:        current.Weather.Rain,
		FeelsLike:   current.Weather.FeelsLike,
	}
	if current.Warn != nil {
		obs.Warning = &weather.Warning{Alert: current.Warn.Alert}
	}

	forecast := make([]weather.ForecastDay, 0, len(payload.Data.TempChart))
	for _, d := range payload.Data.TempChart {
		// An unparseable date keeps its slot in the series but never anchors.
		date, _ := time.Parse(weather.DateLayout, d.Time)
		forecast = append(forecast, weather.ForecastDay{
			Date:      date,
			MaxTemp:   d.MaxTemp,
			MinTemp:   d.MinTemp,
			DayText:   d.DayText,
			NightText: d.NightText,
		})
	}

	return weather.Weather{Observation: obs, Forecast: forecast}, nil
}
