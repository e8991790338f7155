// Package ambient derives the environmental signals (time of day, season,
// weather, city) folded into generation requests. Detection is best-effort:
// every failure degrades to a neutral bucket, never an error.
package ambient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"fable/pkg/schema"
)

const defaultBaseURL = "https://api.openweathermap.org"

type Detector struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewDetector(apiKey string) *Detector {
	return &Detector{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

// ChangeBaseURL points the detector at a different weather endpoint.
func (d *Detector) ChangeBaseURL(baseURL string) {
	d.baseURL = strings.TrimRight(baseURL, "/")
}

// Detect assembles a context snapshot. Coordinates are optional; without them
// (or without an API key) weather stays unknown and city stays empty.
func (d *Detector) Detect(ctx context.Context, lat, lon float64, hasCoords bool) schema.Context {
	now := d.now()
	out := schema.Context{
		TimeOfDay: TimeOfDay(now),
		Weather:   schema.WeatherUnknown,
		Season:    Season(now),
	}
	if d.apiKey == "" || !hasCoords {
		return out
	}
	if w, err := d.weather(ctx, lat, lon); err != nil {
		log.Debug("weather lookup failed", "error", err)
	} else {
		out.Weather = w
	}
	if city, err := d.city(ctx, lat, lon); err != nil {
		log.Debug("reverse geocode failed", "error", err)
	} else {
		out.City = city
	}
	return out
}

// TimeOfDay buckets the clock: 05-12 morning, 12-17 afternoon, 17-21 evening,
// everything else night.
func TimeOfDay(t time.Time) schema.TimeOfDay {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return schema.TimeMorning
	case hour >= 12 && hour < 17:
		return schema.TimeAfternoon
	case hour >= 17 && hour < 21:
		return schema.TimeEvening
	default:
		return schema.TimeNight
	}
}

// Season buckets the month: Mar-May spring, Jun-Aug summer, Sep-Nov autumn,
// Dec-Feb winter.
func Season(t time.Time) schema.Season {
	switch month := t.Month(); {
	case month >= time.March && month <= time.May:
		return schema.SeasonSpring
	case month >= time.June && month <= time.August:
		return schema.SeasonSummer
	case month >= time.September && month <= time.November:
		return schema.SeasonAutumn
	default:
		return schema.SeasonWinter
	}
}

func (d *Detector) weather(ctx context.Context, lat, lon float64) (schema.Weather, error) {
	url := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric", d.baseURL, lat, lon, d.apiKey)
	var body struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := d.getJSON(ctx, url, &body); err != nil {
		return schema.WeatherUnknown, err
	}
	if len(body.Weather) == 0 {
		return schema.WeatherUnknown, nil
	}
	return BucketWeather(body.Weather[0].Main), nil
}

// BucketWeather maps a provider condition string onto the fixed weather set.
func BucketWeather(main string) schema.Weather {
	main = strings.ToLower(main)
	switch {
	case strings.Contains(main, "clear"):
		return schema.WeatherSunny
	case strings.Contains(main, "cloud"):
		return schema.WeatherCloudy
	case strings.Contains(main, "rain"):
		return schema.WeatherRainy
	case strings.Contains(main, "snow"):
		return schema.WeatherSnowy
	case strings.Contains(main, "thunder"):
		return schema.WeatherStormy
	default:
		return schema.WeatherUnknown
	}
}

func (d *Detector) city(ctx context.Context, lat, lon float64) (string, error) {
	url := fmt.Sprintf("%s/geo/1.0/reverse?lat=%f&lon=%f&limit=1&appid=%s", d.baseURL, lat, lon, d.apiKey)
	var body []struct {
		Name string `json:"name"`
	}
	if err := d.getJSON(ctx, url, &body); err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", nil
	}
	return body[0].Name, nil
}

func (d *Detector) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
