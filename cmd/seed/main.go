// Command seed populates a database with a demo user, rooms, and plants.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/leafkeep/leafkeep/internal/database"
	"github.com/leafkeep/leafkeep/internal/ledger"
	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/store"
)

type seedPlant struct {
	name           string
	species        string
	photoURL       string
	waterFrequency int
	daysSinceWater int
	careNotes      string
	room           string
}

var seedPlants = []seedPlant{
	{
		name:           "Fiddle Leaf Fig",
		species:        "Ficus lyrata",
		photoURL:       "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400",
		waterFrequency: 7,
		daysSinceWater: 5,
		careNotes:      "Loves bright, indirect light. Water when top inch of soil is dry.",
		room:           "Living Room",
	},
	{
		name:           "Snake Plant",
		species:        "Sansevieria trifasciata",
		photoURL:       "https://images.unsplash.com/photo-1593691509543-c55fb32d8de5?w=400",
		waterFrequency: 14,
		daysSinceWater: 10,
		careNotes:      "Very low maintenance. Can tolerate low light and infrequent watering.",
		room:           "Bedroom",
	},
	{
		name:           "Pothos",
		species:        "Epipremnum aureum",
		photoURL:       "https://images.unsplash.com/photo-1572688484438-313a6e50c333?w=400",
		waterFrequency: 5,
		daysSinceWater: 3,
		careNotes:      "Easy-going plant. Water when soil feels dry. Great for beginners.",
		room:           "Kitchen",
	},
	{
		name:           "Monstera Deliciosa",
		species:        "Monstera deliciosa",
		photoURL:       "https://images.unsplash.com/photo-1545239705-1564e58b1789?w=400",
		waterFrequency: 7,
		daysSinceWater: 6,
		careNotes:      "Likes bright, indirect light. Provide support for climbing.",
		room:           "Living Room",
	},
	{
		name:           "Rubber Plant",
		species:        "Ficus elastica",
		photoURL:       "https://images.unsplash.com/photo-1542052459-4d6c7d3b97ac?w=400",
		waterFrequency: 10,
		daysSinceWater: 8,
		careNotes:      "Glossy leaves that need regular cleaning. Water moderately.",
		room:           "Bedroom",
	},
	{
		name:           "Peace Lily",
		species:        "Spathiphyllum",
		photoURL:       "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400",
		waterFrequency: 5,
		daysSinceWater: 2,
		careNotes:      "Droops when thirsty - a great indicator plant! Loves humidity.",
		room:           "Kitchen",
	},
}

func main() {
	dbPath := os.Getenv("LEAFKEEP_DB_PATH")
	if dbPath == "" {
		dbPath = "leafkeep.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("🌱 Starting seed data...")

	userStore := store.NewUserStore(db)
	roomStore := store.NewRoomStore(db)
	eventStore := store.NewCareEventStore(db)
	careLedger := ledger.New(db, eventStore)

	user, err := userStore.GetByEmail("demo@leafkeep.app")
	if err != nil {
		log.Fatalf("look up demo user: %v", err)
	}
	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash demo password: %v", err)
		}
		user, err = userStore.Create("demo@leafkeep.app", "Demo User", string(hash))
		if err != nil {
			log.Fatalf("create demo user: %v", err)
		}
	}
	fmt.Println("👤 Created user:", user.Email)

	rooms := make(map[string]int64)
	for _, name := range []string{"Living Room", "Bedroom", "Kitchen"} {
		room, err := roomStore.Create(user.ID, name)
		if err != nil {
			log.Fatalf("create room %q: %v", name, err)
		}
		rooms[name] = room.ID
	}
	fmt.Println("🏠 Created rooms")

	now := time.Now()
	for _, sp := range seedPlants {
		roomID := rooms[sp.room]
		lastWatered := now.AddDate(0, 0, -sp.daysSinceWater)

		// Create the plant one cadence before its last watering, then record
		// that watering so the schedule and event history line up.
		plant, _, err := careLedger.CreatePlant(user.ID, ledger.PlantFields{
			RoomID:             &roomID,
			Name:               sp.name,
			Species:            sp.species,
			PhotoURL:           sp.photoURL,
			WaterFrequencyDays: sp.waterFrequency,
			CareNotes:          sp.careNotes,
		}, lastWatered.AddDate(0, 0, -sp.waterFrequency))
		if err != nil {
			log.Fatalf("create plant %q: %v", sp.name, err)
		}

		if _, _, err := careLedger.RecordWatering(plant.ID, user.ID, lastWatered); err != nil {
			log.Fatalf("record watering for %q: %v", sp.name, err)
		}

		// Backfill one earlier completed watering for history.
		earlier := lastWatered.AddDate(0, 0, -sp.waterFrequency)
		event, err := eventStore.Create(plant.ID, user.ID, model.CareWatering, earlier)
		if err != nil {
			log.Fatalf("create event for %q: %v", sp.name, err)
		}
		if _, err := careLedger.CompleteEvent(event.ID, user.ID); err != nil {
			log.Fatalf("complete event for %q: %v", sp.name, err)
		}

		// An upcoming fertilising event within the next month or so.
		fertiliseAt := now.AddDate(0, 0, rand.Intn(30)+7)
		if _, err := careLedger.ScheduleCare(plant.ID, user.ID, model.CareFertilising, fertiliseAt); err != nil {
			log.Fatalf("schedule fertilising for %q: %v", sp.name, err)
		}
	}

	fmt.Println("🌿 Created plants and care events")
	fmt.Println("✅ Seed data complete!")
}
