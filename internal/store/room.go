package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/leafkeep/leafkeep/internal/model"
)

// ErrRoomNotEmpty is returned when deleting a room that still has plants.
var ErrRoomNotEmpty = errors.New("room still has plants")

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func scanRoom(scanner interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	err := scanner.Scan(&r.ID, &r.UserID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const roomCols = `id, user_id, name, created_at, updated_at`

func (s *RoomStore) Create(userID int64, name string) (*model.Room, error) {
	result, err := s.db.Exec(
		`INSERT INTO rooms (user_id, name) VALUES (?, ?)`,
		userID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, userID)
}

func (s *RoomStore) GetByID(id, userID int64) (*model.Room, error) {
	row := s.db.QueryRow(`SELECT `+roomCols+` FROM rooms WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return r, nil
}

func (s *RoomStore) List(userID int64) ([]model.Room, error) {
	rows, err := s.db.Query(`SELECT `+roomCols+` FROM rooms WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

func (s *RoomStore) Update(id, userID int64, name string) (*model.Room, error) {
	_, err := s.db.Exec(
		`UPDATE rooms SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		name, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	return s.GetByID(id, userID)
}

// Delete removes an empty room. Rooms that still contain plants are
// rejected with ErrRoomNotEmpty; plants must be reassigned or removed first.
func (s *RoomStore) Delete(id, userID int64) error {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM plants WHERE room_id = ?`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("count room plants: %w", err)
	}
	if count > 0 {
		return ErrRoomNotEmpty
	}

	_, err = s.db.Exec(`DELETE FROM rooms WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
