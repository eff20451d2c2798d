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

	"github.com/dukerupert/choreboard/internal/config"
	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/engine"
	"github.com/dukerupert/choreboard/internal/ledger"
	"github.com/dukerupert/choreboard/internal/logging"
	"github.com/dukerupert/choreboard/internal/scheduler"
	"github.com/dukerupert/choreboard/internal/server"
	"github.com/dukerupert/choreboard/internal/store"
	ws "github.com/dukerupert/choreboard/internal/websocket"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var rewardLedger ledger.Ledger = ledger.Nop{}
	if cfg.LedgerURL != "" {
		rewardLedger = ledger.NewClient(ledger.Config{BaseURL: cfg.LedgerURL})
	} else {
		logger.Warn("no ledger URL configured, reward crediting disabled")
	}

	choreStore := store.NewChoreStore(store.NewKVStore(db), logger.With("component", "store"))
	eng := engine.New(choreStore, rewardLedger, logger.With("component", "engine"))

	srv := server.New(eng, logger)

	sched := scheduler.New(eng, cfg.ReconcileCron, cfg.ReconcileWindowDays, func() {
		srv.Hub().Broadcast(ws.NewMessage("instance", "generated", "", nil))
	}, logger.With("component", "scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Choreboard running at http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
