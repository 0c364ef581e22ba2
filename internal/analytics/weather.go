package analytics

import (
	"context"
	"time"
)

// Weather is the current conditions snapshot for a farm.
type Weather struct {
	FarmID        string    `json:"farmId"`
	Temperature   float64   `json:"temperature"` // celsius
	Humidity      float64   `json:"humidity"`    // percent
	WindSpeed     float64   `json:"windSpeed"`   // km/h
	Precipitation float64   `json:"precipitation"` // mm expected today
	Condition     string    `json:"condition"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var conditions = []string{"sunny", "partly_cloudy", "cloudy", "light_rain"}

// WeatherProvider returns current weather for a farm.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, farmID string) (*Weather, error)
}

// MockWeather generates deterministic weather from the farm ID and the
// current hour. Stands in for a real forecast service.
type MockWeather struct {
	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewMockWeather creates the mock provider.
func NewMockWeather() *MockWeather {
	return &MockWeather{now: time.Now}
}

// CurrentWeather returns the farm's simulated conditions. Values follow
// a diurnal curve: warmest mid-afternoon, most humid before dawn.
func (m *MockWeather) CurrentWeather(_ context.Context, farmID string) (*Weather, error) {
	now := m.now().UTC()
	hour := now.Hour()
	base := seed(farmID)

	// Peak at 15:00, trough at 03:00.
	diurnal := 1.0 - float64(abs(hour-15))/15.0

	w := &Weather{
		FarmID:        farmID,
		Temperature:   12 + 14*diurnal + float64(base%5),
		Humidity:      85 - 40*diurnal,
		WindSpeed:     5 + float64((base/7)%20),
		Condition:     conditions[(base/13+uint32(now.YearDay()))%uint32(len(conditions))],
		UpdatedAt:     now,
	}
	if w.Condition == "light_rain" {
		w.Precipitation = 1 + float64(base%8)
	}
	return w, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
