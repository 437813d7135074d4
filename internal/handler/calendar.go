package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/leafkeep/leafkeep/internal/auth"
	"github.com/leafkeep/leafkeep/internal/ledger"
	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/store"
)

const upcomingHorizonDays = 7

type CalendarHandler struct {
	eventStore *store.CareEventStore
	ledger     *ledger.Ledger
	logger     *slog.Logger
}

func NewCalendarHandler(es *store.CareEventStore, l *ledger.Ledger, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		eventStore: es,
		ledger:     l,
		logger:     logger.With("component", "calendar"),
	}
}

// toEntries shapes care events into one-hour calendar blocks titled with the
// care icon and plant name.
func toEntries(events []model.CareEventWithPlant) []model.CalendarEntry {
	entries := make([]model.CalendarEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, model.CalendarEntry{
			ID:        e.ID,
			Title:     fmt.Sprintf("%s %s", e.Type.Icon(), e.PlantName),
			Start:     e.Date,
			End:       e.Date.Add(time.Hour),
			PlantID:   e.PlantID,
			PlantName: e.PlantName,
			Type:      e.Type,
			Completed: e.Completed,
		})
	}
	return entries
}

// Range returns calendar entries between ?start and ?end (YYYY-MM-DD,
// inclusive).
func (h *CalendarHandler) Range(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be a date (YYYY-MM-DD)")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be a date (YYYY-MM-DD)")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	events, err := h.eventStore.ListRange(userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("list calendar range", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	writeJSON(w, http.StatusOK, toEntries(events))
}

// Date returns calendar entries for a single day.
func (h *CalendarHandler) Date(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	day, err := time.Parse("2006-01-02", r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	events, err := h.eventStore.ListRange(userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("list calendar date", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	writeJSON(w, http.StatusOK, toEntries(events))
}

// Upcoming returns pending entries for the next seven days.
func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	events, err := h.ledger.ListUpcoming(userID, time.Now(), upcomingHorizonDays)
	if err != nil {
		h.logger.Error("list upcoming", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load upcoming events")
		return
	}
	writeJSON(w, http.StatusOK, toEntries(events))
}
