package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epigenmx/noa/internal/bot"
	"github.com/epigenmx/noa/internal/config"
	"github.com/epigenmx/noa/internal/database"
	myopenai "github.com/epigenmx/noa/internal/openai"
	"github.com/epigenmx/noa/internal/scheduler"
	"github.com/epigenmx/noa/internal/store"
	"github.com/epigenmx/noa/internal/twilio"
)

func main() {
	logger := log.New(os.Stdout, "[noa] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database init failed: %v", err)
	}

	reminderStore := store.New(db)
	sched := scheduler.New(cfg.LocalTimezone, logger)

	openAIClient := myopenai.New(cfg.OpenAIAPIKey)
	if !openAIClient.Enabled() {
		logger.Println("OPENAI_API_KEY not set; conversational replies run in degraded mode")
	}
	twilioClient := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger)

	noa := bot.New(cfg, reminderStore, sched, openAIClient, twilioClient, logger)

	// The job registry only lives in memory; rebuild it from the store
	// before accepting any traffic.
	if _, err := noa.RescheduleOnBoot(); err != nil {
		logger.Fatalf("reschedule on boot: %v", err)
	}
	sched.Start()

	http.Handle("/twilio/webhook", noa.Handler())
	http.Handle("/health", noa.HealthHandler())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		logger.Printf("server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(server, sched, logger)
}

func waitForShutdown(server *http.Server, sched *scheduler.Scheduler, logger *log.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("server shutdown error: %v", err)
	}
	sched.Stop()
}
