package model

import "time"

// CareType is the closed set of care actions tracked per plant.
type CareType string

const (
	CareWatering    CareType = "watering"
	CareFertilising CareType = "fertilising"
	CareRepotting   CareType = "repotting"
)

// Valid reports whether t is one of the known care types.
func (t CareType) Valid() bool {
	switch t {
	case CareWatering, CareFertilising, CareRepotting:
		return true
	}
	return false
}

// Icon returns the emoji used for calendar titles.
func (t CareType) Icon() string {
	switch t {
	case CareWatering:
		return "💧"
	case CareFertilising:
		return "🌿"
	case CareRepotting:
		return "🪴"
	default:
		return "🌱"
	}
}

type CareEvent struct {
	ID        int64     `json:"id"`
	PlantID   int64     `json:"plant_id"`
	UserID    int64     `json:"user_id"`
	Type      CareType  `json:"type"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CareEventWithPlant carries the plant name/species alongside an event for
// list and calendar views.
type CareEventWithPlant struct {
	CareEvent
	PlantName    string `json:"plant_name"`
	PlantSpecies string `json:"plant_species"`
}

// CalendarEntry is the shape the calendar view renders: an event expanded to
// a titled block with a one-hour duration.
type CalendarEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PlantID   int64     `json:"plant_id"`
	PlantName string    `json:"plant_name"`
	Type      CareType  `json:"type"`
	Completed bool      `json:"completed"`
}
