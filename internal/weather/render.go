package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/nmc-weather/internal/common"
)

const (
	TodayLabel         = "今天"
	NoPrevailingWind   = "无持续风向"
	MissingForecastRow = "Err°C/Err°C Err/Err"

	signalMarker = "信号"
)

var weekdayLabels = [...]string{
	time.Sunday:    "周日",
	time.Monday:    "周一",
	time.Tuesday:   "周二",
	time.Wednesday: "周三",
	time.Thursday:  "周四",
	time.Friday:    "周五",
	time.Saturday:  "周六",
}

// WeekdayLabel returns the short weekday name for t.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[t.Weekday()]
}

// Render produces the report lines for one cycle: the observation block
// followed by one line per window day, or MaxWindowDays placeholder lines
// when the window was not found.
func Render(obs Observation, window Window) []string {
	lines := RenderObservation(obs)
	return append(lines, RenderForecast(window)...)
}

// RenderObservation renders the current conditions and the optional warning.
func RenderObservation(obs Observation) []string {
	windDirect := NoPrevailingWind
	if v, ok := obs.WindDirect.Value(); ok {
		windDirect = v
	}

	lines := []string{
		fmt.Sprintf("%s %s°C 湿度: %s%% 风速风向: %s %s",
			obs.City, obs.Temperature, obs.Humidity, windDirect, obs.WindPower),
		fmt.Sprintf("空气质量: %s 降水量: %smm 体感温度: %s°C",
			obs.AirQuality, obs.Rain, obs.FeelsLike),
	}

	if obs.Warning != nil {
		if alert, ok := obs.Warning.Alert.Value(); ok {
			lines = append(lines, common.CutThrough(alert, signalMarker))
		}
	}
	return lines
}

// RenderForecast renders the forecast block.
func RenderForecast(window Window) []string {
	if !window.Found() {
		lines := make([]string, 0, MaxWindowDays)
		for i := 0; i < MaxWindowDays; i++ {
			day := window.Today.AddDate(0, 0, i)
			lines = append(lines, WeekdayLabel(day)+" "+MissingForecastRow)
		}
		return lines
	}

	lines := make([]string, 0, len(window.Days))
	for i, day := range window.Days {
		label := TodayLabel
		switch {
		case i == 0:
		case day.Date.IsZero():
			label = WeekdayLabel(window.Today.AddDate(0, 0, i))
		default:
			label = WeekdayLabel(day.Date)
		}
		lines = append(lines, renderDay(label, day))
	}
	return lines
}

func renderDay(label string, day ForecastDay) string {
	var b strings.Builder
	if v, ok := day.MaxTemp.Value(); ok {
		b.WriteString(v + "°C/")
	}
	if v, ok := day.MinTemp.Value(); ok {
		b.WriteString(v + "°C ")
	}
	if v, ok := day.DayText.Value(); ok {
		b.WriteString(v + "/")
	}
	if v, ok := day.NightText.Value(); ok {
		b.WriteString(v)
	}

	if b.Len() == 0 {
		return label
	}
	return label + " " + b.String()
}
