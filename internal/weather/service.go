package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/nmc-weather/internal/observability"
)

// Service runs one update cycle: fetch, archive, window, render, print.
// It holds no scheduling state; callers decide when to run a cycle.
type Service struct {
	fetcher Fetcher
	archive Archive
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics

	out      io.Writer
	clock    clockwork.Clock
	location *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithOutput sets where reports are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// WithClock sets the time source used for "today".
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLocation sets the time zone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService creates a new Service. archive may be nil.
func NewService(fetcher Fetcher, archive Archive, store Store, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		archive:  archive,
		store:    store,
		logger:   logger,
		metrics:  metrics,
		out:      os.Stdout,
		clock:    clockwork.NewRealClock(),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunCycle fetches the station's payload and prints the rendered report.
// Failures are logged here; the returned error is informational and the
// next cycle proceeds normally.
func (s *Service) RunCycle(ctx context.Context, stationID string) (Report, error) {
	cycleID := uuid.NewString()
	logger := s.logger.With("cycle", cycleID, "station", stationID)

	start := s.clock.Now()
	res, err := s.fetcher.FetchWeather(ctx, stationID)
	s.metrics.FetchDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.Cycles.WithLabelValues(observability.OutcomeFetchFailed).Inc()
		var fe *FetchError
		if errors.As(err, &fe) && len(fe.Body) > 0 {
			logger.Error("failed to decode weather payload", "error", err, "body", string(fe.Body))
		} else {
			logger.Error("failed to fetch weather data", "error", err)
		}
		return Report{}, err
	}

	now := s.clock.Now().In(s.location)
	s.archiveRaw(logger, stationID, now, res.Raw)

	window, err := SelectWindow(res.Weather.Forecast, now)
	if errors.Is(err, ErrWindowNotFound) {
		s.metrics.WindowNotFound.Inc()
		logger.Warn("today is missing from forecast series",
			"today", now.Format(DateLayout), "entries", len(res.Weather.Forecast))
	}

	lines := Render(res.Weather.Observation, window)
	for _, line := range lines {
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			logger.Error("failed to write report", "error", err)
			break
		}
	}

	report := Report{
		ID:           cycleID,
		StationID:    stationID,
		GeneratedAt:  now.UTC(),
		Lines:        lines,
		ForecastDays: len(window.Days),
		WindowFound:  window.Found(),
	}
	s.store.SaveReport(report)

	s.metrics.Cycles.WithLabelValues(observability.OutcomeRendered).Inc()
	s.metrics.ForecastDays.Set(float64(report.ForecastDays))
	s.metrics.LastSuccessUnix.Set(float64(now.Unix()))
	logger.Debug("report rendered", "lines", len(lines), "forecastDays", report.ForecastDays)

	return report, nil
}

// archiveRaw writes the unmodified payload. A failed write never stops rendering.
func (s *Service) archiveRaw(logger *slog.Logger, stationID string, at time.Time, raw []byte) {
	if s.archive == nil {
		return
	}
	path, err := s.archive.Save(stationID, at, raw)
	if err != nil {
		s.metrics.ArchiveErrors.Inc()
		logger.Error("failed to archive weather payload", "error", err)
		return
	}
	logger.Debug("archived weather payload", "path", path)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(stationID string) (Report, error) {
	return s.store.GetLatest(stationID)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(stationID string, from, to time.Time) ([]Report, error) {
	return s.store.GetRange(stationID, from, to)
}
