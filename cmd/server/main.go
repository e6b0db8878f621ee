package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gitea.jw6.us/james/daygrid/internal/auth"
	"gitea.jw6.us/james/daygrid/internal/calendar"
	"gitea.jw6.us/james/daygrid/internal/config"
	"gitea.jw6.us/james/daygrid/internal/grid"
	httpserver "gitea.jw6.us/james/daygrid/internal/http"
	"gitea.jw6.us/james/daygrid/internal/planner"
	"gitea.jw6.us/james/daygrid/internal/tasks"
)

func main() {
	log.Println("Starting DayGrid server...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authService, err := auth.NewService(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize auth service: %v", err)
	}

	window := grid.Window{StartHour: cfg.Grid.StartHour, EndHour: cfg.Grid.EndHour}
	if err := window.Validate(); err != nil {
		log.Fatalf("invalid grid window: %v", err)
	}

	creds := calendar.NewSessionTokenProvider(cfg.Provider.TokenURL, cfg.Session.CookieName)
	source := calendar.NewClient(cfg.Provider.BaseURL, cfg.Provider.CalendarID, creds)
	day := planner.New(source, window, nil)
	taskClient := tasks.NewClient(cfg.Tasks.BaseURL, cfg.Tasks.Token)

	r := httpserver.NewRouter(cfg, authService, day, taskClient)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
