// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/database"
	"github.com/gewnthar/covidash/handlers"
	"github.com/gewnthar/covidash/services"
	"github.com/gewnthar/covidash/statbank"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	log.Println("Starting COVID dashboard...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, table: %s, API: %s",
		cfg.Server.Port, cfg.Statbank.Table, cfg.Statbank.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := statbank.NewClient(cfg.Statbank)

	// The option lists cannot be built without the schema, so a failed load
	// ends the process.
	schemaCtx, cancel := context.WithTimeout(ctx, cfg.Statbank.Timeout)
	schema, err := client.LoadSchema(schemaCtx)
	cancel()
	if err != nil {
		log.Fatalf("Error loading table schema: %v", err)
	}

	var history services.QueryLog
	var store handlers.Pinger
	if cfg.Database.Enabled {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Error initializing database: %v", err)
		}
		qs, err := database.NewQueryLogStore(ctx, db)
		if err != nil {
			log.Fatalf("Error preparing query log: %v", err)
		}
		defer qs.Close()
		history, store = qs, qs
	} else {
		log.Println("Database disabled; query history is off.")
	}

	svc := services.NewDashboardService(schema, client, client.Options(), cfg.Dashboard, history)
	router := handlers.NewRouter(handlers.NewHandler(svc, cfg.Dashboard.Title, store))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: Server shutdown: %v", err)
		}
	}()

	log.Printf("Server starting on http://localhost%s\n", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Error starting server: %v", err)
	}
	log.Println("Server stopped.")
}
