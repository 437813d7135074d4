package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/leafkeep/leafkeep/internal/database"
	"github.com/leafkeep/leafkeep/internal/model"
)

func setupEventTestDB(t *testing.T) (*sql.DB, *CareEventStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := NewUserStore(db).Create("events@example.com", "Event Tester", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	plantID := insertPlantRow(t, db, user.ID, nil, "Monstera", "Monstera deliciosa", 7, nil)
	return db, NewCareEventStore(db), user.ID, plantID
}

func TestCareEventCreateAndGet(t *testing.T) {
	_, es, userID, plantID := setupEventTestDB(t)

	date := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	event, err := es.Create(plantID, userID, model.CareFertilising, date)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.Type != model.CareFertilising || event.Completed {
		t.Errorf("event = %+v", event)
	}
	if !event.Date.Equal(date) {
		t.Errorf("date = %v, want %v", event.Date, date)
	}

	got, err := es.GetByID(event.ID, userID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got == nil || got.PlantID != plantID {
		t.Errorf("got = %+v", got)
	}

	missing, err := es.GetByID(9999, userID)
	if err != nil {
		t.Fatalf("get missing event: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestCareEventListByUserFiltersCompleted(t *testing.T) {
	db, es, userID, plantID := setupEventTestDB(t)

	now := time.Now().UTC()
	pending, err := es.Create(plantID, userID, model.CareWatering, now)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	done, err := es.Create(plantID, userID, model.CareRepotting, now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := db.Exec(`UPDATE care_events SET completed = 1 WHERE id = ?`, done.ID); err != nil {
		t.Fatalf("complete event: %v", err)
	}

	open, err := es.ListByUser(userID, false)
	if err != nil {
		t.Fatalf("list open events: %v", err)
	}
	if len(open) != 1 || open[0].ID != pending.ID {
		t.Errorf("open events = %+v", open)
	}
	if open[0].PlantName != "Monstera" {
		t.Errorf("plant name = %q", open[0].PlantName)
	}

	completed, err := es.ListByUser(userID, true)
	if err != nil {
		t.Fatalf("list completed events: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Errorf("completed events = %+v", completed)
	}
}

func TestCareEventListByPlantLimit(t *testing.T) {
	_, es, userID, plantID := setupEventTestDB(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := es.Create(plantID, userID, model.CareWatering, base.AddDate(0, 0, i)); err != nil {
			t.Fatalf("create event %d: %v", i, err)
		}
	}

	events, err := es.ListByPlant(plantID, userID, 3)
	if err != nil {
		t.Fatalf("list by plant: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first.
	if !events[0].Date.After(events[1].Date) || !events[1].Date.After(events[2].Date) {
		t.Errorf("events not newest-first: %v, %v, %v", events[0].Date, events[1].Date, events[2].Date)
	}
}

func TestCareEventListRange(t *testing.T) {
	_, es, userID, plantID := setupEventTestDB(t)

	inside := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	before := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	after := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{inside, before, after} {
		if _, err := es.Create(plantID, userID, model.CareWatering, d); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	events, err := es.ListRange(userID,
		time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(events) != 1 || !events[0].Date.Equal(inside) {
		t.Errorf("range events = %+v", events)
	}
}

func TestCareEventListUpcomingHorizon(t *testing.T) {
	_, es, userID, plantID := setupEventTestDB(t)

	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 2)
	far := now.AddDate(0, 0, 20)
	past := now.AddDate(0, 0, -1)

	for _, d := range []time.Time{soon, far, past} {
		if _, err := es.Create(plantID, userID, model.CareWatering, d); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	events, err := es.ListUpcoming(userID, now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(events) != 1 || !events[0].Date.Equal(soon) {
		t.Errorf("upcoming events = %+v", events)
	}
}

func TestCareEventDueWatering(t *testing.T) {
	db, es, userID, plantID := setupEventTestDB(t)

	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -3)
	today := now.Add(2 * time.Hour)
	future := now.AddDate(0, 0, 5)

	if _, err := es.Create(plantID, userID, model.CareWatering, overdue); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := es.Create(plantID, userID, model.CareWatering, today); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := es.Create(plantID, userID, model.CareWatering, future); err != nil {
		t.Fatalf("create event: %v", err)
	}
	// Non-watering events never count as due waterings.
	if _, err := es.Create(plantID, userID, model.CareFertilising, overdue); err != nil {
		t.Fatalf("create event: %v", err)
	}
	// Completed waterings do not either.
	doneEvent, err := es.Create(plantID, userID, model.CareWatering, overdue)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := db.Exec(`UPDATE care_events SET completed = 1 WHERE id = ?`, doneEvent.ID); err != nil {
		t.Fatalf("complete event: %v", err)
	}

	endOfDay := time.Date(2026, 7, 1, 23, 59, 59, 0, time.UTC)
	due, err := es.DueWatering(userID, endOfDay)
	if err != nil {
		t.Fatalf("due watering: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("got %d due events, want 2", len(due))
	}
	if !due[0].Date.Equal(overdue) || !due[1].Date.Equal(today) {
		t.Errorf("due order = %v, %v", due[0].Date, due[1].Date)
	}
}

func TestCareEventPendingWatering(t *testing.T) {
	_, es, userID, plantID := setupEventTestDB(t)

	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	if _, err := es.Create(plantID, userID, model.CareWatering, now.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := es.Create(plantID, userID, model.CareWatering, now.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("create event: %v", err)
	}

	pending, err := es.PendingWatering(plantID, now)
	if err != nil {
		t.Fatalf("pending watering: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1", len(pending))
	}
}
