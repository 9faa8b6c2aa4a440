package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inspectflow/inspectflow/internal/config"
	"github.com/inspectflow/inspectflow/internal/database"
	"github.com/inspectflow/inspectflow/internal/handlers"
	"github.com/inspectflow/inspectflow/internal/models"
	"github.com/inspectflow/inspectflow/internal/services/connector"
	"github.com/inspectflow/inspectflow/internal/store"
	"github.com/inspectflow/inspectflow/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Inspection{},
		&models.CompanyProfile{},
		&models.ImportSession{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Progress-event hub for connected operator sessions
	hub := websocket.NewHub()
	go hub.Run()

	st := store.New(db)

	// 5. Set up HTTP router
	router := handlers.NewRouter(cfg, db, st, hub)

	// 6. Start back-office pull connector (background, optional)
	var pullSvc *connector.PullService
	if cfg.Connector.URL != "" && cfg.Connector.OperatorID != "" {
		pullSvc = connector.NewPullService(st, hub, cfg.Connector, cfg.Connector.OperatorID)
		pullSvc.Start()
	}

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the pull connector
	if pullSvc != nil {
		pullSvc.Stop()
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
