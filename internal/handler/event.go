package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/leafkeep/leafkeep/internal/auth"
	"github.com/leafkeep/leafkeep/internal/ledger"
	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/store"
	"github.com/leafkeep/leafkeep/internal/websocket"
)

const defaultPlantHistoryLimit = 20

type EventHandler struct {
	eventStore *store.CareEventStore
	ledger     *ledger.Ledger
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewEventHandler(es *store.CareEventStore, l *ledger.Ledger, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		eventStore: es,
		ledger:     l,
		hub:        hub,
		logger:     logger.With("component", "events"),
	}
}

func (h *EventHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(userID, msg)
	}
}

type eventRequest struct {
	PlantID int64          `json:"plant_id"`
	Type    model.CareType `json:"type"`
	Date    *time.Time     `json:"date"`
}

// Create schedules an ad hoc care event, e.g. a one-off fertilising.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.PlantID == 0 {
		writeError(w, http.StatusBadRequest, "plant_id is required")
		return
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "type must be watering, fertilising, or repotting")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	event, err := h.ledger.ScheduleCare(req.PlantID, userID, req.Type, date)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrPlantNotFound):
			writeError(w, http.StatusNotFound, "plant not found")
		case errors.Is(err, ledger.ErrInvalidType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("create event", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create event")
		}
		return
	}

	h.broadcast(userID, websocket.NewMessage("event", "created", event.ID, nil))

	writeJSON(w, http.StatusCreated, event)
}

// List returns the user's events, filtered by ?completed=true|false.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	completed := false
	if v := r.URL.Query().Get("completed"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		completed = parsed
	}

	events, err := h.eventStore.ListByUser(userID, completed)
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.CareEventWithPlant{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListByPlant returns a plant's care history, newest first.
func (h *EventHandler) ListByPlant(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	limit := defaultPlantHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	events, err := h.eventStore.ListByPlant(id, userID, limit)
	if err != nil {
		h.logger.Error("list plant events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.CareEventWithPlant{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Complete marks an event done. Completing an already-completed event is a
// no-op, and completing a watering event here never advances the plant's
// schedule; use the water endpoint for that.
func (h *EventHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := h.ledger.CompleteEvent(id, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error("complete event", "error", err, "event_id", id)
		writeError(w, http.StatusInternalServerError, "failed to complete event")
		return
	}

	h.broadcast(userID, websocket.NewMessage("event", "completed", event.ID, nil))

	writeJSON(w, http.StatusOK, event)
}
