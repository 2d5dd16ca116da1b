package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/openkara/playtrack/config"
	"github.com/openkara/playtrack/database"
	"github.com/openkara/playtrack/handlers"
	"github.com/openkara/playtrack/importer"
	"github.com/openkara/playtrack/metrics"
	"github.com/openkara/playtrack/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	performerRepo := repository.NewPerformerRepository(db)
	playRepo := repository.NewPlayRepository(db, performerRepo)
	statsRepo := repository.NewStatsRepository(db)
	playLogImporter := importer.NewPlayLogImporter(performerRepo, playRepo, collector)

	if cfg.ImportOnStartup {
		log.Printf("Importing play log from %s", cfg.PlayLogPath)
		summary, err := playLogImporter.ImportFromLog(cfg.PlayLogPath)
		if err != nil {
			log.Printf("Warning: startup import failed: %v", err)
		} else {
			log.Printf("Startup import done: %d inserted, %d duplicates, %d skipped",
				summary.Inserted, summary.Duplicates, summary.Skipped)
		}
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Play log path: %s", cfg.PlayLogPath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	historyHandler := &handlers.HistoryHandler{Plays: playRepo, Stats: statsRepo, Performers: performerRepo}
	playHandler := &handlers.PlayHandler{Plays: playRepo, Metrics: collector}
	adminHandler := &handlers.AdminHistoryHandler{
		Plays:      playRepo,
		Performers: performerRepo,
		Importer:   playLogImporter,
		PlayLog:    cfg.PlayLogPath,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.GetHistory)
			r.Get("/top-songs", historyHandler.GetTopSongs)
			r.Get("/top-performers", historyHandler.GetTopPerformers)
		})

		r.Post("/plays", playHandler.RecordPlay)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/history", adminHandler.GetAdminHistory)
			r.Put("/plays/{play_id}", adminHandler.UpdatePlay)
			r.Route("/aliases", func(r chi.Router) {
				r.Get("/", adminHandler.ListAliases)
				r.Post("/", adminHandler.SetAlias)
				r.Delete("/{alias}", adminHandler.RemoveAlias)
			})
			r.Post("/import", adminHandler.ImportPlayLog)
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
