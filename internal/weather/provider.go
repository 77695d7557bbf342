package weather

import (
	"context"
	"time"
)

// StationDirectory lists provinces and the cities of a province.
type StationDirectory interface {
	Provinces(ctx context.Context) ([]Province, error)
	Cities(ctx context.Context, provinceCode string) ([]City, error)
}

// Fetcher retrieves the current observation and forecast for a station.
type Fetcher interface {
	FetchWeather(ctx context.Context, stationID string) (FetchResult, error)
}

// Archive persists raw payloads. Save returns where the payload was written.
type Archive interface {
	Save(stationID string, at time.Time, raw []byte) (string, error)
}

// Store is the contract the in-memory report store must satisfy.
type Store interface {
	SaveReport(report Report)
	GetLatest(stationID string) (Report, error)
	GetRange(stationID string, from, to time.Time) ([]Report, error)
}
