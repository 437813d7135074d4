// Package ledger owns every mutation of a plant's watering schedule and the
// care events tied to it. Creating a plant seeds its first pending watering
// event, and recording a watering closes out stale pending events and
// materializes the next one — each as a single transaction, so readers never
// see a plant whose schedule advanced without its matching event.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/schedule"
	"github.com/leafkeep/leafkeep/internal/store"
)

var (
	ErrPlantNotFound    = errors.New("plant not found")
	ErrEventNotFound    = errors.New("care event not found")
	ErrInvalidFrequency = errors.New("water frequency must be at least one day")
	ErrInvalidType      = errors.New("unknown care event type")
)

type Ledger struct {
	db     *sql.DB
	events *store.CareEventStore
}

func New(db *sql.DB, events *store.CareEventStore) *Ledger {
	return &Ledger{db: db, events: events}
}

// PlantFields holds the caller-supplied attributes of a new plant. Schedule
// fields are computed here, never supplied.
type PlantFields struct {
	RoomID             *int64
	Name               string
	Species            string
	PhotoURL           string
	WaterFrequencyDays int
	CareNotes          string
}

// CreatePlant inserts a plant with its first due date set to
// createdAt + cadence and seeds exactly one pending watering event at that
// instant. Both rows commit together or not at all.
func (l *Ledger) CreatePlant(userID int64, fields PlantFields, createdAt time.Time) (*model.Plant, *model.CareEvent, error) {
	if fields.WaterFrequencyDays <= 0 {
		return nil, nil, ErrInvalidFrequency
	}

	nextDue := schedule.NextDueDate(createdAt, fields.WaterFrequencyDays)

	tx, err := l.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var roomID sql.NullInt64
	if fields.RoomID != nil {
		roomID = sql.NullInt64{Int64: *fields.RoomID, Valid: true}
	}

	result, err := tx.Exec(
		`INSERT INTO plants (user_id, room_id, name, species, photo_url, water_frequency_days, next_water_due_at, care_notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, roomID, fields.Name, fields.Species, fields.PhotoURL,
		fields.WaterFrequencyDays, nextDue.UTC(), fields.CareNotes,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert plant: %w", err)
	}
	plantID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	event, err := insertPendingWatering(tx, plantID, userID, nextDue)
	if err != nil {
		return nil, nil, err
	}

	plant, err := getPlantTx(tx, plantID, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return plant, event, nil
}

// RecordWatering marks the plant watered at wateredAt and rolls the schedule
// forward: last watered and next due advance, every pending watering event
// dated at or before wateredAt is completed (there may be several after
// missed waterings), and one new pending event is created at the new due
// date. The whole transition is one transaction keyed to the plant row, so
// concurrent waterings of the same plant serialize rather than losing an
// update.
func (l *Ledger) RecordWatering(plantID, userID int64, wateredAt time.Time) (*model.Plant, *model.CareEvent, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	plant, err := getPlantTx(tx, plantID, userID)
	if err != nil {
		return nil, nil, err
	}
	if plant == nil {
		return nil, nil, ErrPlantNotFound
	}

	newDue := schedule.NextDueDate(wateredAt, plant.WaterFrequencyDays)

	_, err = tx.Exec(
		`UPDATE plants SET last_watered_at = ?, next_water_due_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		wateredAt.UTC(), newDue.UTC(), plantID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update plant schedule: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE care_events SET completed = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE plant_id = ? AND type = ? AND completed = 0 AND date <= ?`,
		plantID, model.CareWatering, wateredAt.UTC(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("complete stale watering events: %w", err)
	}

	event, err := insertPendingWatering(tx, plantID, userID, newDue)
	if err != nil {
		return nil, nil, err
	}

	updated, err := getPlantTx(tx, plantID, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return updated, event, nil
}

// CompleteEvent marks a single event of any type completed. Completing an
// already-completed event is a no-op success. This never advances the
// plant's watering schedule — only RecordWatering does that.
func (l *Ledger) CompleteEvent(eventID, userID int64) (*model.CareEvent, error) {
	event, err := l.events.GetByID(eventID, userID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Completed {
		return event, nil
	}

	_, err = l.db.Exec(
		`UPDATE care_events SET completed = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete care event: %w", err)
	}
	return l.events.GetByID(eventID, userID)
}

// ScheduleCare records a planned, non-schedule-driving care event.
func (l *Ledger) ScheduleCare(plantID, userID int64, careType model.CareType, date time.Time) (*model.CareEvent, error) {
	if !careType.Valid() {
		return nil, ErrInvalidType
	}

	plant, err := getPlantTx(l.db, plantID, userID)
	if err != nil {
		return nil, err
	}
	if plant == nil {
		return nil, ErrPlantNotFound
	}

	return l.events.Create(plantID, userID, careType, date)
}

// ListUpcoming returns the user's incomplete events due within horizonDays.
func (l *Ledger) ListUpcoming(userID int64, now time.Time, horizonDays int) ([]model.CareEventWithPlant, error) {
	return l.events.ListUpcoming(userID, now, time.Duration(horizonDays)*24*time.Hour)
}

func insertPendingWatering(tx *sql.Tx, plantID, userID int64, due time.Time) (*model.CareEvent, error) {
	result, err := tx.Exec(
		`INSERT INTO care_events (plant_id, user_id, type, date, completed) VALUES (?, ?, ?, ?, 0)`,
		plantID, userID, model.CareWatering, due.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert watering event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var e model.CareEvent
	err = tx.QueryRow(
		`SELECT id, plant_id, user_id, type, date, completed, created_at, updated_at FROM care_events WHERE id = ?`, id,
	).Scan(&e.ID, &e.PlantID, &e.UserID, &e.Type, &e.Date, &e.Completed, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get watering event: %w", err)
	}
	return &e, nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getPlantTx(q querier, plantID, userID int64) (*model.Plant, error) {
	var p model.Plant
	var roomID sql.NullInt64
	var lastWatered, nextDue sql.NullTime

	err := q.QueryRow(
		`SELECT id, user_id, room_id, name, species, photo_url, water_frequency_days, last_watered_at, next_water_due_at, care_notes, created_at, updated_at
		 FROM plants WHERE id = ? AND user_id = ?`,
		plantID, userID,
	).Scan(
		&p.ID, &p.UserID, &roomID, &p.Name, &p.Species, &p.PhotoURL,
		&p.WaterFrequencyDays, &lastWatered, &nextDue, &p.CareNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}

	if roomID.Valid {
		p.RoomID = &roomID.Int64
	}
	if lastWatered.Valid {
		t := lastWatered.Time
		p.LastWateredAt = &t
	}
	if nextDue.Valid {
		t := nextDue.Time
		p.NextWaterDueAt = &t
	}
	return &p, nil
}
