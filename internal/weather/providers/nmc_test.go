package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/nmc-weather/internal/weather"
)

const weatherBody = `{
  "msg": "success",
  "code": 0,
  "data": {
    "real": {
      "station": {"code": "56294", "province": "四川省", "city": "成都"},
      "publish_time": "2024-05-20 08:25",
      "weather": {"temperature": 22.5, "humidity": 81.0, "rain": 0.0, "feelst": 24.1, "info": "多云"},
      "wind": {"direct": "9999", "power": "微风", "speed": 1.2},
      "warn": {"alert": "暴雨预警信号解除", "issuecontent": "9999"}
    },
    "air": {"aqi": 62, "text": "良"},
    "tempchart": [
      {"time": "2024/05/19", "max_temp": 27.0, "min_temp": 17.0, "day_text": "阴", "night_text": "小雨"},
      {"time": "2024/05/20", "max_temp": 26.0, "min_temp": 18.0, "day_text": "多云", "night_text": "9999"},
      {"time": "2024/05/21", "max_temp": 9999.0, "min_temp": 9999.0, "day_text": "9999", "night_text": "9999"}
    ]
  }
}`

type fakeNMC struct {
	weatherStatus int
	weatherBody   string

	mu       sync.Mutex
	requests []string
}

func (f *fakeNMC) record(r string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
}

func (f *fakeNMC) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeNMC) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/province", func(w http.ResponseWriter, r *http.Request) {
		f.record(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"code":"ABJ","name":"北京市","url":"/publish/forecast/ABJ.html"},{"code":"01","name":"X"}]`))
	})
	mux.HandleFunc("/rest/province/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/province/01":
			_, _ = w.Write([]byte(`[{"code":"510200","province":"X","city":"Z"},{"code":"510100","province":"X","city":"Y"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("/rest/weather", func(w http.ResponseWriter, r *http.Request) {
		f.record(r.URL.Path + "?" + r.URL.RawQuery)
		if f.weatherStatus != 0 {
			w.WriteHeader(f.weatherStatus)
		}
		_, _ = w.Write([]byte(f.weatherBody))
	})
	return mux
}

func newTestProvider(t *testing.T, f *fakeNMC) *NMCProvider {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewNMCProvider(&http.Client{Timeout: 5 * time.Second}, srv.URL)
}

func TestNMCProvider_Provinces(t *testing.T) {
	p := newTestProvider(t, &fakeNMC{})

	provinces, err := p.Provinces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []weather.Province{{Name: "北京市", Code: "ABJ"}, {Name: "X", Code: "01"}}, provinces)
}

func TestNMCProvider_Cities(t *testing.T) {
	p := newTestProvider(t, &fakeNMC{})

	cities, err := p.Cities(context.Background(), "01")
	require.NoError(t, err)
	assert.Equal(t, []weather.City{{Name: "Z", Code: "510200"}, {Name: "Y", Code: "510100"}}, cities)
}

func TestNMCProvider_ResolveEndToEnd(t *testing.T) {
	f := &fakeNMC{}
	p := newTestProvider(t, f)

	id, err := weather.NewResolver(p).Resolve(context.Background(), "X", "Y")
	require.NoError(t, err)
	assert.Equal(t, "510100", id)

	_, err = weather.NewResolver(p).Resolve(context.Background(), "X", "W")
	require.ErrorIs(t, err, weather.ErrCityNotFound)

	for _, r := range f.seen() {
		assert.NotContains(t, r, "/rest/weather", "resolution must not fetch weather")
	}
}

func TestNMCProvider_FetchWeather(t *testing.T) {
	f := &fakeNMC{weatherBody: weatherBody}
	p := newTestProvider(t, f)

	res, err := p.FetchWeather(context.Background(), "56294")
	require.NoError(t, err)

	assert.Equal(t, []byte(weatherBody), res.Raw, "raw payload is exposed unmodified")
	assert.Contains(t, f.seen(), "/rest/weather?stationid=56294")

	obs := res.Weather.Observation
	assert.Equal(t, "成都", obs.City)
	assert.Equal(t, "22.5", obs.Temperature.String())
	assert.Equal(t, "81.0", obs.Humidity.String())
	assert.False(t, obs.WindDirect.Present())
	assert.Equal(t, "微风", obs.WindPower.String())
	assert.Equal(t, "良", obs.AirQuality)
	assert.Equal(t, "24.1", obs.FeelsLike.String())
	require.NotNil(t, obs.Warning)
	assert.Equal(t, "暴雨预警信号解除", obs.Warning.Alert.String())

	require.Len(t, res.Weather.Forecast, 3)
	today := res.Weather.Forecast[1]
	assert.Equal(t, "2024/05/20", today.Date.Format(weather.DateLayout))
	assert.Equal(t, "26.0", today.MaxTemp.String())
	assert.True(t, today.DayText.Present())
	assert.False(t, today.NightText.Present())

	last := res.Weather.Forecast[2]
	assert.False(t, last.MaxTemp.Present())
	assert.False(t, last.MinTemp.Present())
}

func TestNMCProvider_FetchWeather_NoWarning(t *testing.T) {
	body := `{"data":{"real":{"station":{"city":"北京"},"weather":{},"wind":{}},"air":{},"tempchart":[]}}`
	p := newTestProvider(t, &fakeNMC{weatherBody: body})

	res, err := p.FetchWeather(context.Background(), "54511")
	require.NoError(t, err)
	assert.Nil(t, res.Weather.Observation.Warning)
	assert.Empty(t, res.Weather.Forecast)
}

func TestNMCProvider_FetchWeather_ServerError(t *testing.T) {
	p := newTestProvider(t, &fakeNMC{weatherStatus: http.StatusInternalServerError, weatherBody: "oops"})

	_, err := p.FetchWeather(context.Background(), "56294")
	require.Error(t, err)
	require.ErrorIs(t, err, weather.ErrUpstreamStatus)

	var fe *weather.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Equal(t, "56294", fe.StationID)
}

func TestNMCProvider_FetchWeather_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>maintenance</html>"},
		{"missing data", `{"msg":"success"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, &fakeNMC{weatherBody: tt.body})

			_, err := p.FetchWeather(context.Background(), "56294")
			require.ErrorIs(t, err, weather.ErrMalformedPayload)

			var fe *weather.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, []byte(tt.body), fe.Body)
			assert.Zero(t, fe.Status)
		})
	}
}

func TestNMCProvider_FetchWeather_BadDateKeepsReport(t *testing.T) {
	body := `{"data":{
	  "real":{"station":{"city":"成都"},
	    "weather":{"temperature":22.5,"humidity":81,"rain":0.0,"feelst":24.1},
	    "wind":{"direct":"东北风","power":"微风"}},
	  "air":{"text":"良"},
	  "tempchart":[
	    {"time":"2024/05/20","max_temp":26.0,"min_temp":18.0,"day_text":"多云","night_text":"小雨"},
	    {"time":"","max_temp":25.0,"min_temp":17.0,"day_text":"晴","night_text":"晴"},
	    {"time":"2024/05/22","max_temp":24.0,"min_temp":16.0,"day_text":"阴","night_text":"阴"}
	  ]}}`
	p := newTestProvider(t, &fakeNMC{weatherBody: body})

	res, err := p.FetchWeather(context.Background(), "56294")
	require.NoError(t, err)
	require.Len(t, res.Weather.Forecast, 3)
	assert.True(t, res.Weather.Forecast[1].Date.IsZero())

	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	w, err := weather.SelectWindow(res.Weather.Forecast, today)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"成都 22.5°C 湿度: 81% 风速风向: 东北风 微风",
		"空气质量: 良 降水量: 0.0mm 体感温度: 24.1°C",
		"今天 26.0°C/18.0°C 多云/小雨",
		"周二 25.0°C/17.0°C 晴/晴",
		"周三 24.0°C/16.0°C 阴/阴",
	}, weather.Render(res.Weather.Observation, w))
}

func TestNMCProvider_FetchWeather_BadDateNeverAnchors(t *testing.T) {
	body := `{"data":{"real":{"station":{"city":"成都"}},"tempchart":[{"time":"20-05-2024","max_temp":26.0}]}}`
	p := newTestProvider(t, &fakeNMC{weatherBody: body})

	res, err := p.FetchWeather(context.Background(), "56294")
	require.NoError(t, err)

	_, err = weather.SelectWindow(res.Weather.Forecast, time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, weather.ErrWindowNotFound)
}

func TestGetBody_NoClient(t *testing.T) {
	p := NewNMCProvider(nil, "http://127.0.0.1:0")
	_, err := p.Provinces(context.Background())
	assert.True(t, errors.Is(err, errNoHTTPClient))
}
