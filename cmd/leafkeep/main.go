package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leafkeep/leafkeep/internal/database"
	"github.com/leafkeep/leafkeep/internal/logging"
	"github.com/leafkeep/leafkeep/internal/photo"
	"github.com/leafkeep/leafkeep/internal/server"
	"github.com/leafkeep/leafkeep/internal/species"
	"github.com/leafkeep/leafkeep/internal/weather"
)

func main() {
	port := os.Getenv("LEAFKEEP_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("LEAFKEEP_DB_PATH")
	if dbPath == "" {
		dbPath = "leafkeep.db"
	}

	logger := logging.Setup(os.Getenv("LEAFKEEP_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	weatherSvc := weather.NewService(weather.Config{
		Latitude:  os.Getenv("LEAFKEEP_WEATHER_LAT"),
		Longitude: os.Getenv("LEAFKEEP_WEATHER_LON"),
	})

	speciesSvc := species.NewService(species.Config{
		APIKey: os.Getenv("LEAFKEEP_SPECIES_API_KEY"),
	})

	cfg := server.Config{
		SecureCookies: os.Getenv("LEAFKEEP_SECURE_COOKIES") == "true",
		S3: photo.S3Config{
			Endpoint:  os.Getenv("LEAFKEEP_S3_ENDPOINT"),
			Bucket:    os.Getenv("LEAFKEEP_S3_BUCKET"),
			Region:    os.Getenv("LEAFKEEP_S3_REGION"),
			AccessKey: os.Getenv("LEAFKEEP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("LEAFKEEP_S3_SECRET_KEY"),
		},
		VAPIDPublicKey:  os.Getenv("LEAFKEEP_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("LEAFKEEP_VAPID_PRIVATE_KEY"),
	}

	srv := server.New(db, weatherSvc, speciesSvc, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.PushScheduler().Start(ctx)
	defer srv.PushScheduler().Stop()

	// Periodic cleanup of expired sessions and stale rate limit buckets.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("expired sessions removed", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Leafkeep running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
