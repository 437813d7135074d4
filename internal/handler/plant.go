package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leafkeep/leafkeep/internal/auth"
	"github.com/leafkeep/leafkeep/internal/ledger"
	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/photo"
	"github.com/leafkeep/leafkeep/internal/schedule"
	"github.com/leafkeep/leafkeep/internal/store"
	"github.com/leafkeep/leafkeep/internal/weather"
	"github.com/leafkeep/leafkeep/internal/websocket"
)

// maxPhotoSize caps plant photo uploads at 10 MB.
const maxPhotoSize = 10 << 20

type PlantHandler struct {
	plantStore *store.PlantStore
	eventStore *store.CareEventStore
	ledger     *ledger.Ledger
	photos     *photo.Store
	weather    *weather.Service
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewPlantHandler(
	ps *store.PlantStore,
	es *store.CareEventStore,
	l *ledger.Ledger,
	photos *photo.Store,
	ws *weather.Service,
	hub *websocket.Hub,
	logger *slog.Logger,
) *PlantHandler {
	return &PlantHandler{
		plantStore: ps,
		eventStore: es,
		ledger:     l,
		photos:     photos,
		weather:    ws,
		hub:        hub,
		logger:     logger.With("component", "plants"),
	}
}

func (h *PlantHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(userID, msg)
	}
}

// plantView decorates a plant with its watering urgency for list and detail
// responses.
type plantView struct {
	model.PlantWithRoom
	Urgency schedule.Urgency `json:"urgency"`
}

func toViews(plants []model.PlantWithRoom, now time.Time) []plantView {
	views := make([]plantView, 0, len(plants))
	for _, p := range plants {
		views = append(views, plantView{
			PlantWithRoom: p,
			Urgency:       schedule.Classify(p.NextWaterDueAt, now),
		})
	}
	return views
}

type plantRequest struct {
	Name               string `json:"name"`
	Species            string `json:"species"`
	RoomID             *int64 `json:"room_id"`
	PhotoURL           string `json:"photo_url"`
	WaterFrequencyDays int    `json:"water_frequency_days"`
	CareNotes          string `json:"care_notes"`
}

func (r *plantRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Species = strings.TrimSpace(r.Species)
	if r.Name == "" {
		return "name is required"
	}
	if r.Species == "" {
		return "species is required"
	}
	if r.WaterFrequencyDays <= 0 {
		return "water_frequency_days must be a positive number of days"
	}
	return ""
}

// List returns the user's plants. With ?sort=watering they come back in
// watering priority order instead of alphabetical.
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plants, err := h.plantStore.List(userID)
	if err != nil {
		h.logger.Error("list plants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}

	now := time.Now()
	if r.URL.Query().Get("sort") == "watering" {
		plants = schedule.PriorityOrder(plants, now)
	}

	writeJSON(w, http.StatusOK, toViews(plants, now))
}

// ListSorted returns the user's plants in watering priority order.
func (h *PlantHandler) ListSorted(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plants, err := h.plantStore.List(userID)
	if err != nil {
		h.logger.Error("list plants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, toViews(schedule.PriorityOrder(plants, now), now))
}

// plantDetail is the single-plant response: the plant, its urgency, and its
// recent care history.
type plantDetail struct {
	plantView
	RecentEvents []model.CareEventWithPlant `json:"recent_events"`
}

func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	plants, err := h.plantStore.List(userID)
	if err != nil {
		h.logger.Error("get plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}

	var found *model.PlantWithRoom
	for i := range plants {
		if plants[i].ID == id {
			found = &plants[i]
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	events, err := h.eventStore.ListByPlant(id, userID, 10)
	if err != nil {
		h.logger.Error("list plant events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant history")
		return
	}
	if events == nil {
		events = []model.CareEventWithPlant{}
	}

	writeJSON(w, http.StatusOK, plantDetail{
		plantView: plantView{
			PlantWithRoom: *found,
			Urgency:       schedule.Classify(found.NextWaterDueAt, time.Now()),
		},
		RecentEvents: events,
	})
}

func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req plantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	plant, _, err := h.ledger.CreatePlant(userID, ledger.PlantFields{
		RoomID:             req.RoomID,
		Name:               req.Name,
		Species:            req.Species,
		PhotoURL:           req.PhotoURL,
		WaterFrequencyDays: req.WaterFrequencyDays,
		CareNotes:          req.CareNotes,
	}, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidFrequency) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create plant")
		return
	}

	h.broadcast(userID, websocket.NewMessage("plant", "created", plant.ID, nil))

	writeJSON(w, http.StatusCreated, plant)
}

func (h *PlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.plantStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	var req plantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	plant, err := h.plantStore.Update(id, userID, req.Name, req.Species, req.PhotoURL, req.WaterFrequencyDays, req.CareNotes, req.RoomID)
	if err != nil {
		h.logger.Error("update plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update plant")
		return
	}

	h.broadcast(userID, websocket.NewMessage("plant", "updated", plant.ID, nil))

	writeJSON(w, http.StatusOK, plant)
}

func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.plantStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	if err := h.plantStore.Delete(id, userID); err != nil {
		h.logger.Error("delete plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete plant")
		return
	}

	h.broadcast(userID, websocket.NewMessage("plant", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type waterRequest struct {
	WateredAt *time.Time `json:"watered_at"`
}

// Water records a watering: the schedule advances and the pending event
// completes in one step.
func (h *PlantHandler) Water(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req waterRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	wateredAt := time.Now()
	if req.WateredAt != nil {
		wateredAt = *req.WateredAt
	}

	plant, next, err := h.ledger.RecordWatering(id, userID, wateredAt)
	if err != nil {
		if errors.Is(err, ledger.ErrPlantNotFound) {
			writeError(w, http.StatusNotFound, "plant not found")
			return
		}
		h.logger.Error("record watering", "error", err, "plant_id", id)
		writeError(w, http.StatusInternalServerError, "failed to record watering")
		return
	}

	h.broadcast(userID, websocket.NewMessage("plant", "watered", plant.ID, nil))

	writeJSON(w, http.StatusOK, map[string]any{
		"plant":      plant,
		"next_event": next,
	})
}

// Tips returns a weather-aware watering tip for the plant.
func (h *PlantHandler) Tips(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	plant, err := h.plantStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if plant == nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	data := h.weather.GetWeather()
	writeJSON(w, http.StatusOK, map[string]any{
		"tip":     weather.TipForPlant(data, plant.Name),
		"weather": data,
	})
}

// UploadPhoto stores a photo for the plant and records its object key.
func (h *PlantHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.plantStore.GetByID(id, userID)
	if err != nil {
		h.logger.Error("get plant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get plant")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "plant not found")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxPhotoSize)
	key, err := h.photos.Upload(r.Context(), userID, id, r.Header.Get("Content-Type"), body)
	if err != nil {
		switch {
		case errors.Is(err, photo.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "photo storage not configured")
		case errors.Is(err, photo.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "unsupported image type")
		default:
			h.logger.Error("upload photo", "error", err, "plant_id", id)
			writeError(w, http.StatusInternalServerError, "failed to upload photo")
		}
		return
	}

	plant, err := h.plantStore.UpdatePhotoURL(id, userID, "/api/plants/photo/"+key)
	if err != nil {
		h.logger.Error("update photo url", "error", err, "plant_id", id)
		writeError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	h.broadcast(userID, websocket.NewMessage("plant", "updated", id, nil))

	writeJSON(w, http.StatusOK, plant)
}

// ServePhoto streams a stored plant photo.
func (h *PlantHandler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || strings.Contains(key, "..") {
		writeError(w, http.StatusBadRequest, "invalid photo key")
		return
	}

	body, contentType, err := h.photos.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, photo.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "photo storage not configured")
			return
		}
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, body)
}
