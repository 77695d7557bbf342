package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/i474232898/nmc-weather/internal/config"
	"github.com/i474232898/nmc-weather/internal/weather"
)

// loadStation returns the saved station, running interactive setup when
// there is none or when force is set. Prompts are read from in and written
// to out. Any resolution failure is returned and is fatal for the process.
func loadStation(ctx context.Context, cfg *config.AppConfig, force bool, dir weather.StationDirectory,
	in io.Reader, out io.Writer, logger *slog.Logger) (config.StationConfig, error) {
	if !force {
		station, err := config.LoadStation(cfg.StationConfigPath)
		if err == nil {
			return station, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return config.StationConfig{}, err
		}
		logger.Info("no station config found, starting setup", "path", cfg.StationConfigPath)
	}

	province, city, err := config.PromptStation(in, out)
	if err != nil {
		return config.StationConfig{}, err
	}

	resolver := weather.NewResolver(dir)
	lookup := resolver.LookupProvince(ctx, province)
	if lookup.Err != nil {
		return config.StationConfig{}, lookup.Err
	}
	logger.Info("province resolved", "province", province, "code", lookup.Province.Code)

	stationID, err := lookup.LookupCity(ctx, city).StationID()
	if err != nil {
		return config.StationConfig{}, err
	}
	logger.Info("city resolved", "city", city, "station", stationID)

	station := config.StationConfig{Province: province, City: city, StationID: stationID}
	if err := config.SaveStation(cfg.StationConfigPath, station); err != nil {
		return config.StationConfig{}, fmt.Errorf("save station config: %w", err)
	}
	fmt.Fprintln(out, "配置已保存。")
	return station, nil
}
