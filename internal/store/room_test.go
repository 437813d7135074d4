package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/leafkeep/leafkeep/internal/database"
)

func setupRoomTestDB(t *testing.T) (*sql.DB, *RoomStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := NewUserStore(db).Create("rooms@example.com", "Room Tester", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return db, NewRoomStore(db), user.ID
}

func TestRoomCRUD(t *testing.T) {
	_, rs, userID := setupRoomTestDB(t)

	room, err := rs.Create(userID, "Living Room")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if room.Name != "Living Room" || room.UserID != userID {
		t.Errorf("room = %+v", room)
	}

	got, err := rs.GetByID(room.ID, userID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if got == nil || got.Name != "Living Room" {
		t.Errorf("got = %+v", got)
	}

	updated, err := rs.Update(room.ID, userID, "Lounge")
	if err != nil {
		t.Fatalf("update room: %v", err)
	}
	if updated.Name != "Lounge" {
		t.Errorf("updated name = %q", updated.Name)
	}

	if err := rs.Delete(room.ID, userID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	got, err = rs.GetByID(room.ID, userID)
	if err != nil {
		t.Fatalf("get deleted room: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestRoomListOrdered(t *testing.T) {
	_, rs, userID := setupRoomTestDB(t)

	for _, name := range []string{"Kitchen", "Bedroom", "Attic"} {
		if _, err := rs.Create(userID, name); err != nil {
			t.Fatalf("create room %q: %v", name, err)
		}
	}

	rooms, err := rs.List(userID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("got %d rooms, want 3", len(rooms))
	}
	if rooms[0].Name != "Attic" || rooms[1].Name != "Bedroom" || rooms[2].Name != "Kitchen" {
		t.Errorf("order = %q, %q, %q", rooms[0].Name, rooms[1].Name, rooms[2].Name)
	}
}

func TestRoomDeleteRefusedWhilePlantsRemain(t *testing.T) {
	db, rs, userID := setupRoomTestDB(t)

	room, err := rs.Create(userID, "Conservatory")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	plantID := insertPlantRow(t, db, userID, &room.ID, "Fern", "Nephrolepis", 7, nil)

	err = rs.Delete(room.ID, userID)
	if !errors.Is(err, ErrRoomNotEmpty) {
		t.Fatalf("delete err = %v, want ErrRoomNotEmpty", err)
	}

	// Room must be unchanged after the refused delete.
	got, err := rs.GetByID(room.ID, userID)
	if err != nil || got == nil {
		t.Fatalf("room missing after refused delete: %v", err)
	}

	// Moving the plant out makes the delete succeed.
	if _, err := db.Exec(`UPDATE plants SET room_id = NULL WHERE id = ?`, plantID); err != nil {
		t.Fatalf("move plant: %v", err)
	}
	if err := rs.Delete(room.ID, userID); err != nil {
		t.Fatalf("delete empty room: %v", err)
	}
}

func TestRoomScopedToUser(t *testing.T) {
	db, rs, userID := setupRoomTestDB(t)

	other, err := NewUserStore(db).Create("other-rooms@example.com", "Other", "hash")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	room, err := rs.Create(other.ID, "Their Room")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	got, err := rs.GetByID(room.ID, userID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if got != nil {
		t.Error("must not see another user's room")
	}

	rooms, err := rs.List(userID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("got %d rooms, want 0", len(rooms))
	}
}
