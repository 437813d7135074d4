package handler

import (
	"net/http"

	"github.com/leafkeep/leafkeep/internal/weather"
)

type WeatherHandler struct {
	weather *weather.Service
}

func NewWeatherHandler(ws *weather.Service) *WeatherHandler {
	return &WeatherHandler{weather: ws}
}

// Get returns current conditions plus general watering recommendations.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	data := h.weather.GetWeather()
	writeJSON(w, http.StatusOK, map[string]any{
		"weather":         data,
		"recommendations": weather.Recommendations(data),
	})
}

// Recommendations returns only the care recommendations for current conditions.
func (h *WeatherHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	data := h.weather.GetWeather()
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations": weather.Recommendations(data),
	})
}
