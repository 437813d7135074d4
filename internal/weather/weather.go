package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const cacheTTL = 30 * time.Minute

// Config holds weather service configuration from environment variables.
type Config struct {
	Latitude  string
	Longitude string
}

// Data holds the conditions that drive watering advice. Temperatures are
// celsius.
type Data struct {
	Humidity       float64 `json:"humidity"`
	Temperature    float64 `json:"temperature"`
	RainedRecently bool    `json:"rained_recently"`
	Available      bool    `json:"available"`
	Configured     bool    `json:"configured"`
}

// Service fetches and caches local weather. Lookups are always optional
// decoration: when unconfigured or the upstream is down, callers get
// placeholder conditions, never an error.
type Service struct {
	config    Config
	client    *http.Client
	baseURL   string
	mu        sync.RWMutex
	cached    Data
	lastFetch time.Time
}

// NewService creates a new weather service with the given configuration.
func NewService(cfg Config) *Service {
	configured := cfg.Latitude != "" && cfg.Longitude != ""
	return &Service{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.open-meteo.com/v1/forecast",
		cached:  fallbackData(configured),
	}
}

// fallbackData is what callers see when no real observation is available:
// mild, dry conditions that produce the "water as scheduled" advice.
func fallbackData(configured bool) Data {
	return Data{
		Humidity:    55,
		Temperature: 21,
		Configured:  configured,
	}
}

// GetWeather returns current conditions, fetching from the API if the cache
// is stale.
func (s *Service) GetWeather() Data {
	if !s.cached.Configured {
		return s.cached
	}

	s.mu.RLock()
	if time.Since(s.lastFetch) < cacheTTL && s.cached.Available {
		data := s.cached
		s.mu.RUnlock()
		return data
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if time.Since(s.lastFetch) < cacheTTL && s.cached.Available {
		return s.cached
	}

	data, err := s.fetch()
	if err != nil {
		// Return stale data on error rather than clearing it.
		return s.cached
	}

	s.cached = data
	s.lastFetch = time.Now()
	return s.cached
}

type apiResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
	} `json:"current"`
	Daily struct {
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (s *Service) fetch() (Data, error) {
	url := fmt.Sprintf(
		"%s?latitude=%s&longitude=%s&current=temperature_2m,relative_humidity_2m&daily=precipitation_sum&past_days=5&forecast_days=1&timezone=auto",
		s.baseURL, s.config.Latitude, s.config.Longitude,
	)

	resp, err := s.client.Get(url)
	if err != nil {
		return Data{}, fmt.Errorf("weather API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Data{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Data{}, fmt.Errorf("decode weather response: %w", err)
	}

	rained := false
	for _, sum := range apiResp.Daily.PrecipitationSum {
		if sum > 0 {
			rained = true
			break
		}
	}

	return Data{
		Humidity:       apiResp.Current.Humidity,
		Temperature:    apiResp.Current.Temperature,
		RainedRecently: rained,
		Available:      true,
		Configured:     true,
	}, nil
}
