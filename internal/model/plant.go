package model

import "time"

type Plant struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	RoomID             *int64     `json:"room_id"`
	Name               string     `json:"name"`
	Species            string     `json:"species"`
	PhotoURL           string     `json:"photo_url,omitempty"`
	WaterFrequencyDays int        `json:"water_frequency_days"`
	LastWateredAt      *time.Time `json:"last_watered_at"`
	NextWaterDueAt     *time.Time `json:"next_water_due_at"`
	CareNotes          string     `json:"care_notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PlantWithRoom joins the optional room record onto a plant for list views.
type PlantWithRoom struct {
	Plant
	Room *Room `json:"room,omitempty"`
}
