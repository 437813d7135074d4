package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/leafkeep/leafkeep/internal/model"
)

type CareEventStore struct {
	db *sql.DB
}

func NewCareEventStore(db *sql.DB) *CareEventStore {
	return &CareEventStore{db: db}
}

func scanCareEvent(scanner interface{ Scan(...any) error }) (*model.CareEvent, error) {
	var e model.CareEvent
	err := scanner.Scan(&e.ID, &e.PlantID, &e.UserID, &e.Type, &e.Date, &e.Completed, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const careEventCols = `id, plant_id, user_id, type, date, completed, created_at, updated_at`

// Create inserts a care event. Watering events that drive the plant
// schedule come from the ledger; this is for ad hoc planned care
// (fertilising, repotting, extra waterings).
func (s *CareEventStore) Create(plantID, userID int64, careType model.CareType, date time.Time) (*model.CareEvent, error) {
	result, err := s.db.Exec(
		`INSERT INTO care_events (plant_id, user_id, type, date, completed) VALUES (?, ?, ?, ?, 0)`,
		plantID, userID, careType, date.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert care event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *CareEventStore) GetByID(id, userID int64) (*model.CareEvent, error) {
	row := s.db.QueryRow(`SELECT `+careEventCols+` FROM care_events WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanCareEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get care event: %w", err)
	}
	return e, nil
}

const careEventJoinCols = `e.id, e.plant_id, e.user_id, e.type, e.date, e.completed, e.created_at, e.updated_at, p.name, p.species`

func (s *CareEventStore) listJoined(query string, args ...any) ([]model.CareEventWithPlant, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CareEventWithPlant
	for rows.Next() {
		var e model.CareEventWithPlant
		err := rows.Scan(
			&e.ID, &e.PlantID, &e.UserID, &e.Type, &e.Date, &e.Completed,
			&e.CreatedAt, &e.UpdatedAt, &e.PlantName, &e.PlantSpecies,
		)
		if err != nil {
			return nil, fmt.Errorf("scan care event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListByUser returns the user's events filtered by completion state,
// ascending by date.
func (s *CareEventStore) ListByUser(userID int64, completed bool) ([]model.CareEventWithPlant, error) {
	events, err := s.listJoined(
		`SELECT `+careEventJoinCols+` FROM care_events e
		 JOIN plants p ON p.id = e.plant_id
		 WHERE e.user_id = ? AND e.completed = ?
		 ORDER BY e.date ASC`,
		userID, completed,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListByPlant returns a plant's most recent events, newest first.
func (s *CareEventStore) ListByPlant(plantID, userID int64, limit int) ([]model.CareEventWithPlant, error) {
	events, err := s.listJoined(
		`SELECT `+careEventJoinCols+` FROM care_events e
		 JOIN plants p ON p.id = e.plant_id
		 WHERE e.plant_id = ? AND e.user_id = ?
		 ORDER BY e.date DESC LIMIT ?`,
		plantID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list plant events: %w", err)
	}
	return events, nil
}

// ListRange returns all events (completed or not) in [start, end],
// ascending by date. Used by the calendar views.
func (s *CareEventStore) ListRange(userID int64, start, end time.Time) ([]model.CareEventWithPlant, error) {
	events, err := s.listJoined(
		`SELECT `+careEventJoinCols+` FROM care_events e
		 JOIN plants p ON p.id = e.plant_id
		 WHERE e.user_id = ? AND e.date >= ? AND e.date <= ?
		 ORDER BY e.date ASC`,
		userID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list events by range: %w", err)
	}
	return events, nil
}

// ListUpcoming returns incomplete events in [now, now + horizon], ascending
// by date.
func (s *CareEventStore) ListUpcoming(userID int64, now time.Time, horizon time.Duration) ([]model.CareEventWithPlant, error) {
	events, err := s.listJoined(
		`SELECT `+careEventJoinCols+` FROM care_events e
		 JOIN plants p ON p.id = e.plant_id
		 WHERE e.user_id = ? AND e.completed = 0 AND e.date >= ? AND e.date <= ?
		 ORDER BY e.date ASC`,
		userID, now.UTC(), now.Add(horizon).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// DueWatering returns the user's incomplete watering events dated at or
// before upTo, oldest first. Used by the notification scheduler.
func (s *CareEventStore) DueWatering(userID int64, upTo time.Time) ([]model.CareEventWithPlant, error) {
	events, err := s.listJoined(
		`SELECT `+careEventJoinCols+` FROM care_events e
		 JOIN plants p ON p.id = e.plant_id
		 WHERE e.user_id = ? AND e.type = ? AND e.completed = 0 AND e.date <= ?
		 ORDER BY e.date ASC`,
		userID, model.CareWatering, upTo.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due watering events: %w", err)
	}
	return events, nil
}

// PendingWatering returns the plant's incomplete watering events dated at or
// before upTo, oldest first.
func (s *CareEventStore) PendingWatering(plantID int64, upTo time.Time) ([]model.CareEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+careEventCols+` FROM care_events
		 WHERE plant_id = ? AND type = ? AND completed = 0 AND date <= ?
		 ORDER BY date ASC`,
		plantID, model.CareWatering, upTo.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending watering events: %w", err)
	}
	defer rows.Close()

	var events []model.CareEvent
	for rows.Next() {
		e, err := scanCareEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan care event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
