package model

import "time"

type Room struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomWithPlants is the room list/detail shape: the room plus its plants
// sorted by name and a convenience count.
type RoomWithPlants struct {
	Room
	PlantCount int     `json:"plant_count"`
	Plants     []Plant `json:"plants"`
}
