// FoodShare API Server
//
// Usage:
//
//	server                     Start the HTTP server
//	server -config file.hcl    Start with settings from an HCL file
//	server -migrate            Run audit database migrations and exit
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodshare/foodshare/internal/api"
	"github.com/foodshare/foodshare/internal/audit"
	"github.com/foodshare/foodshare/internal/config"
	"github.com/foodshare/foodshare/internal/db"
	"github.com/foodshare/foodshare/internal/store"
	"github.com/foodshare/foodshare/internal/store/memstore"
	"github.com/foodshare/foodshare/internal/store/mongostore"
)

func main() {
	configPath := flag.String("config", os.Getenv("FOODSHARE_CONFIG"), "Path to an HCL config file")
	migrateOnly := flag.Bool("migrate", false, "Run audit migrations and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Audit database (optional)
	var auditStore audit.Store
	if cfg.Audit.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to audit database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Audit migrations complete")
		auditStore = database
	} else {
		log.Println("AUDIT_DATABASE_URL not set, audit trail disabled")
	}

	if *migrateOnly {
		log.Println("Migration-only mode, exiting")
		return
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	log.Printf("Using %s store", cfg.StoreDriver)

	apiServer := api.NewServer(st, audit.NewLogger(auditStore), api.Options{
		HighestLimit: cfg.HighestLimit,
		PageSize:     cfg.PageSize,
		CORSOrigin:   cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      apiServer.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("FoodShare API server starting on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("Closing store: %v", err)
	}

	log.Println("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return memstore.New(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return mongostore.New(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
}
