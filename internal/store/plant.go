package store

import (
	"database/sql"
	"fmt"

	"github.com/leafkeep/leafkeep/internal/model"
)

type PlantStore struct {
	db *sql.DB
}

func NewPlantStore(db *sql.DB) *PlantStore {
	return &PlantStore{db: db}
}

func scanPlant(scanner interface{ Scan(...any) error }) (*model.Plant, error) {
	var p model.Plant
	var roomID sql.NullInt64
	var lastWatered, nextDue sql.NullTime

	err := scanner.Scan(
		&p.ID, &p.UserID, &roomID, &p.Name, &p.Species, &p.PhotoURL,
		&p.WaterFrequencyDays, &lastWatered, &nextDue, &p.CareNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
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

const plantCols = `id, user_id, room_id, name, species, photo_url, water_frequency_days, last_watered_at, next_water_due_at, care_notes, created_at, updated_at`

func (s *PlantStore) GetByID(id, userID int64) (*model.Plant, error) {
	row := s.db.QueryRow(`SELECT `+plantCols+` FROM plants WHERE id = ? AND user_id = ?`, id, userID)
	p, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}
	return p, nil
}

// List returns all plants for the user with their room joined, ordered by name.
func (s *PlantStore) List(userID int64) ([]model.PlantWithRoom, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.user_id, p.room_id, p.name, p.species, p.photo_url,
		       p.water_frequency_days, p.last_watered_at, p.next_water_due_at, p.care_notes,
		       p.created_at, p.updated_at,
		       r.id, r.user_id, r.name, r.created_at, r.updated_at
		FROM plants p
		LEFT JOIN rooms r ON r.id = p.room_id
		WHERE p.user_id = ?
		ORDER BY p.name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []model.PlantWithRoom
	for rows.Next() {
		var p model.Plant
		var roomID sql.NullInt64
		var lastWatered, nextDue sql.NullTime
		var rID, rUserID sql.NullInt64
		var rName sql.NullString
		var rCreated, rUpdated sql.NullTime

		err := rows.Scan(
			&p.ID, &p.UserID, &roomID, &p.Name, &p.Species, &p.PhotoURL,
			&p.WaterFrequencyDays, &lastWatered, &nextDue, &p.CareNotes,
			&p.CreatedAt, &p.UpdatedAt,
			&rID, &rUserID, &rName, &rCreated, &rUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
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

		pw := model.PlantWithRoom{Plant: p}
		if rID.Valid {
			pw.Room = &model.Room{
				ID:        rID.Int64,
				UserID:    rUserID.Int64,
				Name:      rName.String,
				CreatedAt: rCreated.Time,
				UpdatedAt: rUpdated.Time,
			}
		}
		plants = append(plants, pw)
	}
	return plants, rows.Err()
}

// ListByRoom returns the plants in a room ordered by name.
func (s *PlantStore) ListByRoom(roomID, userID int64) ([]model.Plant, error) {
	rows, err := s.db.Query(
		`SELECT `+plantCols+` FROM plants WHERE room_id = ? AND user_id = ? ORDER BY name ASC`,
		roomID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list plants by room: %w", err)
	}
	defer rows.Close()

	var plants []model.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
		}
		plants = append(plants, *p)
	}
	return plants, rows.Err()
}

// Update edits the descriptive fields of a plant. Schedule fields
// (last_watered_at, next_water_due_at) are owned by the ledger and are
// never touched here.
func (s *PlantStore) Update(id, userID int64, name, species, photoURL string, waterFrequencyDays int, careNotes string, roomID *int64) (*model.Plant, error) {
	var rID sql.NullInt64
	if roomID != nil {
		rID = sql.NullInt64{Int64: *roomID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE plants SET name = ?, species = ?, photo_url = ?, water_frequency_days = ?, care_notes = ?, room_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		name, species, photoURL, waterFrequencyDays, careNotes, rID, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update plant: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *PlantStore) UpdatePhotoURL(id, userID int64, photoURL string) (*model.Plant, error) {
	_, err := s.db.Exec(
		`UPDATE plants SET photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		photoURL, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update plant photo: %w", err)
	}
	return s.GetByID(id, userID)
}

// Delete removes a plant; its care events cascade with it.
func (s *PlantStore) Delete(id, userID int64) error {
	_, err := s.db.Exec(`DELETE FROM plants WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}
	return nil
}
