// Package server wires the stores, services, and handlers into an HTTP
// router.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/leafkeep/leafkeep/internal/handler"
	"github.com/leafkeep/leafkeep/internal/ledger"
	"github.com/leafkeep/leafkeep/internal/middleware"
	"github.com/leafkeep/leafkeep/internal/photo"
	"github.com/leafkeep/leafkeep/internal/push"
	"github.com/leafkeep/leafkeep/internal/species"
	"github.com/leafkeep/leafkeep/internal/store"
	"github.com/leafkeep/leafkeep/internal/weather"
	ws "github.com/leafkeep/leafkeep/internal/websocket"
)

// Config holds the server's external service configuration.
type Config struct {
	SecureCookies   bool
	S3              photo.S3Config
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	plantH        *handler.PlantHandler
	roomH         *handler.RoomHandler
	eventH        *handler.EventHandler
	calendarH     *handler.CalendarHandler
	weatherH      *handler.WeatherHandler
	speciesH      *handler.SpeciesHandler
	authH         *handler.AuthHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, weatherSvc *weather.Service, speciesSvc *species.Service, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	roomStore := store.NewRoomStore(db)
	plantStore := store.NewPlantStore(db)
	eventStore := store.NewCareEventStore(db)
	pushStore := store.NewPushStore(db)

	careLedger := ledger.New(db, eventStore)
	photoStore := photo.NewStore(cfg.S3)

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	pushSched := push.NewScheduler(pushSvc, pushStore, eventStore, logger)

	return &Server{
		db:            db,
		hub:           hub,
		plantH:        handler.NewPlantHandler(plantStore, eventStore, careLedger, photoStore, weatherSvc, hub, logger),
		roomH:         handler.NewRoomHandler(roomStore, plantStore, hub, logger),
		eventH:        handler.NewEventHandler(eventStore, careLedger, hub, logger),
		calendarH:     handler.NewCalendarHandler(eventStore, careLedger, logger),
		weatherH:      handler.NewWeatherHandler(weatherSvc),
		speciesH:      handler.NewSpeciesHandler(speciesSvc),
		authH:         handler.NewAuthHandler(userStore, sessionStore, cfg.SecureCookies, logger),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger),
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// PushScheduler returns the watering reminder scheduler.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	requestLogger := middleware.RequestLogger(s.logger.With("component", "http"))

	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.Handle("POST /api/auth/register", requestLogger(s.rateLimitedHandler(s.authH.Register)))
	outerMux.Handle("POST /api/auth/login", requestLogger(s.rateLimitedHandler(s.authH.Login)))
	outerMux.Handle("GET /api/health", requestLogger(http.HandlerFunc(s.healthHandler)))

	// Protected routes. The request logger sits inside RequireAuth so access
	// logs carry the user id.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(requestLogger(protectedMux)))

	return outerMux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Plant API routes
	mux.HandleFunc("GET /api/plants", s.plantH.List)
	mux.HandleFunc("GET /api/plants/sorted/watering", s.plantH.ListSorted)
	mux.HandleFunc("POST /api/plants", s.plantH.Create)
	mux.HandleFunc("GET /api/plants/{id}", s.plantH.Get)
	mux.HandleFunc("PUT /api/plants/{id}", s.plantH.Update)
	mux.HandleFunc("DELETE /api/plants/{id}", s.plantH.Delete)
	mux.HandleFunc("POST /api/plants/{id}/water", s.plantH.Water)
	mux.HandleFunc("GET /api/plants/{id}/tips", s.plantH.Tips)
	mux.HandleFunc("POST /api/plants/{id}/photo", s.plantH.UploadPhoto)
	mux.HandleFunc("GET /api/plants/photo/{key...}", s.plantH.ServePhoto)
	mux.HandleFunc("GET /api/plants/{id}/events", s.eventH.ListByPlant)
	mux.HandleFunc("GET /api/events/plant/{id}", s.eventH.ListByPlant)

	// Room API routes
	mux.HandleFunc("GET /api/rooms", s.roomH.List)
	mux.HandleFunc("POST /api/rooms", s.roomH.Create)
	mux.HandleFunc("GET /api/rooms/{id}", s.roomH.Get)
	mux.HandleFunc("PUT /api/rooms/{id}", s.roomH.Update)
	mux.HandleFunc("DELETE /api/rooms/{id}", s.roomH.Delete)

	// Care event API routes
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("POST /api/events/{id}/complete", s.eventH.Complete)

	// Calendar API routes
	mux.HandleFunc("GET /api/calendar", s.calendarH.Range)
	mux.HandleFunc("GET /api/calendar/date/{date}", s.calendarH.Date)
	mux.HandleFunc("GET /api/calendar/upcoming", s.calendarH.Upcoming)

	// Weather and species lookups
	mux.HandleFunc("GET /api/weather", s.weatherH.Get)
	mux.HandleFunc("GET /api/weather/recommendations", s.weatherH.Recommendations)
	mux.HandleFunc("GET /api/species/search", s.speciesH.Search)

	// Push notification API routes
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// Live sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
