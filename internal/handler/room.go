package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leafkeep/leafkeep/internal/auth"
	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/store"
	"github.com/leafkeep/leafkeep/internal/websocket"
)

type RoomHandler struct {
	roomStore  *store.RoomStore
	plantStore *store.PlantStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewRoomHandler(rs *store.RoomStore, ps *store.PlantStore, hub *websocket.Hub, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		roomStore:  rs,
		plantStore: ps,
		hub:        hub,
		logger:     logger.With("component", "rooms"),
	}
}

func (h *RoomHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(userID, msg)
	}
}

type roomRequest struct {
	Name string `json:"name"`
}

func (h *RoomHandler) withPlants(room model.Room) (model.RoomWithPlants, error) {
	plants, err := h.plantStore.ListByRoom(room.ID, room.UserID)
	if err != nil {
		return model.RoomWithPlants{}, err
	}
	if plants == nil {
		plants = []model.Plant{}
	}
	return model.RoomWithPlants{
		Room:       room,
		PlantCount: len(plants),
		Plants:     plants,
	}, nil
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	rooms, err := h.roomStore.List(userID)
	if err != nil {
		h.logger.Error("list rooms", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}

	result := make([]model.RoomWithPlants, 0, len(rooms))
	for _, room := range rooms {
		rwp, err := h.withPlants(room)
		if err != nil {
			h.logger.Error("list room plants", "error", err, "room_id", room.ID)
			writeError(w, http.StatusInternalServerError, "failed to list rooms")
			return
		}
		result = append(result, rwp)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	room, err := h.roomStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get room")
		return
	}
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	rwp, err := h.withPlants(*room)
	if err != nil {
		h.logger.Error("list room plants", "error", err, "room_id", id)
		writeError(w, http.StatusInternalServerError, "failed to get room")
		return
	}
	writeJSON(w, http.StatusOK, rwp)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	room, err := h.roomStore.Create(userID, req.Name)
	if err != nil {
		h.logger.Error("create room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	h.broadcast(userID, websocket.NewMessage("room", "created", room.ID, nil))

	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.roomStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get room")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	room, err := h.roomStore.Update(id, userID, req.Name)
	if err != nil {
		h.logger.Error("update room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update room")
		return
	}

	h.broadcast(userID, websocket.NewMessage("room", "updated", room.ID, nil))

	writeJSON(w, http.StatusOK, room)
}

// Delete removes an empty room. Rooms that still contain plants cannot be
// deleted; move or delete the plants first.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.roomStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get room")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	if err := h.roomStore.Delete(id, userID); err != nil {
		if errors.Is(err, store.ErrRoomNotEmpty) {
			writeError(w, http.StatusBadRequest, "room still has plants; move or delete them first")
			return
		}
		h.logger.Error("delete room", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}

	h.broadcast(userID, websocket.NewMessage("room", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
