package weather

import "fmt"

// Recommendation is a piece of watering advice derived from conditions.
type Recommendation struct {
	Type    string `json:"type"` // "warning", "info", "success"
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// Recommendations derives watering advice from the given conditions.
func Recommendations(d Data) []Recommendation {
	var recs []Recommendation

	if d.Humidity > 70 {
		recs = append(recs, Recommendation{
			Type:    "warning",
			Message: "High humidity detected. Consider reducing watering frequency.",
			Icon:    "☁️",
		})
	}
	if d.RainedRecently {
		recs = append(recs, Recommendation{
			Type:    "info",
			Message: "Recent rainfall detected. Your outdoor plants might need less water.",
			Icon:    "🌧️",
		})
	}
	if d.Temperature > 30 {
		recs = append(recs, Recommendation{
			Type:    "warning",
			Message: "High temperature. Plants may need extra water and shade.",
			Icon:    "☀️",
		})
	}
	if d.Temperature < 15 {
		recs = append(recs, Recommendation{
			Type:    "info",
			Message: "Cool weather. Plants typically need less frequent watering.",
			Icon:    "❄️",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Type:    "success",
			Message: "Perfect weather conditions for your plants!",
			Icon:    "🌱",
		})
	}
	return recs
}

// Tip is a per-plant watering hint.
type Tip struct {
	Condition string `json:"condition"`
	Message   string `json:"message"`
}

// TipForPlant turns current conditions into a short watering tip mentioning
// the plant by name. Condition precedence: rain beats humidity beats heat.
func TipForPlant(d Data, plantName string) Tip {
	switch {
	case d.RainedRecently:
		return Tip{
			Condition: "rainy",
			Message:   fmt.Sprintf("🌧️ It's been rainy — your %s might need less water", plantName),
		}
	case d.Humidity > 70:
		return Tip{
			Condition: "high_humidity",
			Message:   fmt.Sprintf("☁️ High humidity today — consider skipping watering for %s", plantName),
		}
	case d.Temperature > 30:
		return Tip{
			Condition: "dry",
			Message:   fmt.Sprintf("☀️ Dry weather — your %s might need extra attention", plantName),
		}
	default:
		return Tip{
			Condition: "normal",
			Message:   fmt.Sprintf("🌱 Perfect weather for %s — water as scheduled", plantName),
		}
	}
}
