package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/handlers"
	"github.com/richardgms/guia-enem-2026-sub000/jobs"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("Guia ENEM study companion starting...")

	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using environment variables")
	}

	port := utils.GetEnvOrDefault("PORT", "8080")
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./guia_enem.db")
	redisURL := utils.GetEnvOrDefault("REDIS_URL", "localhost:6379")

	cfg := schedule.DefaultConfig()
	cfg.FirstSunday = utils.GetEnvDate("FIRST_SUNDAY", cfg.FirstSunday)
	cfg.TotalWeeks = utils.GetEnvInt("TOTAL_WEEKS", cfg.TotalWeeks)
	cfg.RequiredStudyDays = utils.GetEnvInt("REQUIRED_STUDY_DAYS", cfg.RequiredStudyDays)
	cfg.ExamDuration = time.Duration(utils.GetEnvInt("EXAM_DURATION_MINUTES", int(cfg.ExamDuration/time.Minute))) * time.Minute
	utils.LogStartup("Schedule: first Sunday %s, %d weeks, %d study days to unlock, %s exams",
		cfg.FirstSunday.Format("2006-01-02"), cfg.TotalWeeks, cfg.RequiredStudyDays, cfg.ExamDuration)

	utils.LogStartup("Initializing database at %s...", dbPath)
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	sessionStore := auth.NewSessionStore()

	jobManager := jobs.NewJobManager(redisURL)
	jobManager.RegisterHandlers(database, cfg)
	go func() {
		if err := jobManager.Start(); err != nil {
			log.Fatalf("[FATAL] Job queue failed to start: %v", err)
		}
	}()

	router := handlers.NewRouter(database, sessionStore, cfg, jobManager)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: drain HTTP first, then the worker, then the database.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		utils.LogShutdown("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			utils.LogError("HTTP server shutdown: %v", err)
		}

		jobManager.Stop()

		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		}
		utils.LogShutdown("Bye")
		os.Exit(0)
	}()

	utils.LogStartup("HTTP server listening on :%s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed: %v", err)
	}
}
